package referral

import (
	"context"
	"testing"
	"time"

	apperrors "cascade/internal/errors"
	"cascade/internal/mocks"
	"cascade/internal/models"
	"cascade/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func user(id uint, email string) *models.User {
	u := &models.User{Email: email}
	u.ID = id
	u.CreatedAt = time.Date(2024, 1, int(id), 0, 0, 0, 0, time.UTC)
	return u
}

func missCache() *mocks.Cache {
	c := new(mocks.Cache)
	c.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	c.On("SetWithTTL", mock.Anything, mock.Anything, mock.Anything, 2*time.Minute).Return(nil)
	return c
}

func newTestService(users *mocks.UserRepository, ledger *mocks.LedgerRepository, c *mocks.Cache) *service {
	return NewService(users, ledger, c, 2*time.Minute).(*service)
}

func TestGenerateCode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns existing code", func(t *testing.T) {
		users := new(mocks.UserRepository)
		u := user(1, "a@x.io")
		code := "EXIST123"
		u.ReferralCode = &code
		users.On("GetByID", mock.Anything, uint(1)).Return(u, nil)

		s := newTestService(users, nil, nil)
		got, err := s.GenerateCode(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "EXIST123", got)
		users.AssertNotCalled(t, "SetReferralCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("retries on collision", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByID", mock.Anything, uint(1)).Return(user(1, "a@x.io"), nil)
		users.On("SetReferralCode", mock.Anything, uint(1), "TAKEN001").Return(repositories.ErrReferralCodeTaken)
		users.On("SetReferralCode", mock.Anything, uint(1), "FRESH002").Return(nil)

		s := newTestService(users, nil, nil)
		codes := []string{"TAKEN001", "FRESH002"}
		s.newCode = func() string {
			c := codes[0]
			codes = codes[1:]
			return c
		}

		got, err := s.GenerateCode(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "FRESH002", got)
		users.AssertExpectations(t)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByID", mock.Anything, uint(1)).Return(user(1, "a@x.io"), nil)
		users.On("SetReferralCode", mock.Anything, uint(1), "SAMECODE").Return(repositories.ErrReferralCodeTaken)

		s := newTestService(users, nil, nil)
		s.newCode = func() string { return "SAMECODE" }

		_, err := s.GenerateCode(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrReferralCodeExhausted)
		users.AssertNumberOfCalls(t, "SetReferralCode", codeAttempts)
	})

	t.Run("generated code shape", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("GetByID", mock.Anything, uint(1)).Return(user(1, "a@x.io"), nil)
		users.On("SetReferralCode", mock.Anything, uint(1), mock.Anything).Return(nil)

		got, err := newTestService(users, nil, nil).GenerateCode(ctx, 1)
		require.NoError(t, err)
		assert.Regexp(t, `^[A-F0-9]{8}$`, got)
	})
}

func TestNetwork(t *testing.T) {
	users := new(mocks.UserRepository)
	// 1 -> 2, 3 ; 2 -> 4 ; 4 -> 5 ; 5 -> 6 (level 4, out of reach)
	users.On("Referees", mock.Anything, []uint{1}).Return([]*models.User{user(2, "b@x.io"), user(3, "c@x.io")}, nil)
	users.On("Referees", mock.Anything, []uint{2, 3}).Return([]*models.User{user(4, "d@x.io")}, nil)
	users.On("Referees", mock.Anything, []uint{4}).Return([]*models.User{user(5, "e@x.io")}, nil)
	users.On("CountReferees", mock.Anything, []uint{2, 3, 4, 5}).Return(map[uint]int64{2: 1, 4: 1, 5: 1}, nil)

	c := missCache()
	s := newTestService(users, nil, c)

	page, err := s.Network(context.Background(), 1, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, map[int]int64{1: 2, 2: 1, 3: 1}, page.CountsByLevel)
	require.Len(t, page.Referrals, 3)
	assert.Equal(t, uint(2), page.Referrals[0].ID)
	assert.Equal(t, 1, page.Referrals[0].Level)
	assert.Equal(t, int64(1), page.Referrals[0].TotalReferees)
	assert.Equal(t, 2, page.Referrals[2].Level)

	page2, err := s.Network(context.Background(), 1, 2, 3)
	require.NoError(t, err)
	require.Len(t, page2.Referrals, 1)
	assert.Equal(t, uint(5), page2.Referrals[0].ID)
	assert.Equal(t, 3, page2.Referrals[0].Level)

	users.AssertNotCalled(t, "Referees", mock.Anything, []uint{5})
	c.AssertNumberOfCalls(t, "SetWithTTL", 2)
}

func TestNetworkEmpty(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("Referees", mock.Anything, []uint{1}).Return([]*models.User{}, nil)

	page, err := newTestService(users, nil, missCache()).Network(context.Background(), 1, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Referrals)
	assert.NotNil(t, page.Referrals)
	assert.Equal(t, 0, page.TotalPages)
	users.AssertNotCalled(t, "CountReferees", mock.Anything, mock.Anything)
}

func TestNetworkServedFromCache(t *testing.T) {
	users := new(mocks.UserRepository)
	c := new(mocks.Cache)
	c.On("Get", mock.Anything, "network:user:1:1:20", mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(2).(*NetworkPage).Total = 42
		}).Return(true, nil)

	page, err := newTestService(users, nil, c).Network(context.Background(), 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(42), page.Total)
	users.AssertNotCalled(t, "Referees", mock.Anything, mock.Anything)
}

func TestEarnings(t *testing.T) {
	ledger := new(mocks.LedgerRepository)
	rng := repositories.DateRange{}
	first := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	ledger.On("Totals", mock.Anything, uint(1), rng).Return(repositories.LedgerTotals{
		Earned:    decimal.RequireFromString("33.5"),
		Claimed:   decimal.RequireFromString("30"),
		Unclaimed: decimal.RequireFromString("3.5"),
	}, nil)
	ledger.On("EarningsBySource", mock.Anything, uint(1), rng).Return([]repositories.SourceEarnings{
		{Kind: models.LedgerKindCommission, Level: 1, SourceUserID: 2, SourceEmail: "b@x.io", Status: "claimed", Amount: decimal.RequireFromString("30"), Count: 1, FirstAt: first},
		{Kind: models.LedgerKindCommission, Level: 3, SourceUserID: 4, SourceEmail: "d@x.io", Status: "unclaimed", Amount: decimal.RequireFromString("2"), Count: 2, FirstAt: first},
		{Kind: models.LedgerKindCashback, Level: 0, SourceUserID: 1, SourceEmail: "a@x.io", Status: "unclaimed", Amount: decimal.RequireFromString("1.5"), Count: 1, FirstAt: first},
	}, nil)

	summary, err := newTestService(nil, ledger, missCache()).Earnings(context.Background(), 1, rng)
	require.NoError(t, err)

	assert.Equal(t, "33.50", summary.TotalEarned)
	assert.Equal(t, "30.00", summary.TotalClaimed)
	assert.Equal(t, "3.50", summary.TotalUnclaimed)
	assert.Equal(t, "1.50", summary.TotalCashback)
	require.Len(t, summary.EarningsByLevel["level1"], 1)
	assert.Equal(t, "30.00", summary.EarningsByLevel["level1"][0].XPAmount)
	assert.Empty(t, summary.EarningsByLevel["level2"])
	require.Len(t, summary.EarningsByLevel["level3"], 1)
	assert.Equal(t, int64(2), summary.EarningsByLevel["level3"][0].CommissionCount)
	require.Len(t, summary.Cashback, 1)
}

func TestStats(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("Referees", mock.Anything, []uint{1}).Return([]*models.User{user(2, "b@x.io")}, nil)
	users.On("Referees", mock.Anything, []uint{2}).Return([]*models.User{user(3, "c@x.io")}, nil)
	users.On("Referees", mock.Anything, []uint{3}).Return([]*models.User{}, nil)
	users.On("CountReferees", mock.Anything, []uint{2, 3}).Return(map[uint]int64{2: 1}, nil)

	ledger := new(mocks.LedgerRepository)
	monthStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ledger.On("Totals", mock.Anything, uint(1), repositories.DateRange{}).
		Return(repositories.LedgerTotals{Earned: decimal.NewFromInt(12), Unclaimed: decimal.NewFromInt(2)}, nil)
	ledger.On("Totals", mock.Anything, uint(1), mock.MatchedBy(func(r repositories.DateRange) bool {
		return r.From != nil && r.From.Equal(monthStart) && r.To == nil
	})).Return(repositories.LedgerTotals{Earned: decimal.NewFromInt(4)}, nil)

	s := newTestService(users, ledger, missCache())
	s.now = func() time.Time { return time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC) }

	stats, err := s.Stats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalReferrals)
	assert.Equal(t, int64(1), stats.DirectReferrals)
	assert.Equal(t, "12.00", stats.TotalEarnings)
	assert.Equal(t, "2.00", stats.UnclaimedEarnings)
	assert.Equal(t, "4.00", stats.ThisMonthEarnings)
}

func TestInvalidateUser(t *testing.T) {
	c := new(mocks.Cache)
	c.On("DeletePattern", mock.Anything, mock.Anything).Return(nil)

	newTestService(nil, nil, c).InvalidateUser(context.Background(), 1, 2)

	c.AssertCalled(t, "DeletePattern", mock.Anything, "network:user:1:*")
	c.AssertCalled(t, "DeletePattern", mock.Anything, "stats:user:2")
	c.AssertNumberOfCalls(t, "DeletePattern", 6)
}
