// Package referral manages referral codes and the read side of the
// referral program: downline, earnings and stats.
package referral

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "cascade/internal/errors"
	"cascade/internal/logger"
	"cascade/internal/models"
	"cascade/internal/repositories"
	"cascade/internal/repositories/cache"
	"cascade/internal/utils"

	"github.com/shopspring/decimal"
)

const codeAttempts = 5

type Service interface {
	GenerateCode(ctx context.Context, userID uint) (string, error)
	Network(ctx context.Context, userID uint, page, limit int) (*NetworkPage, error)
	Earnings(ctx context.Context, userID uint, rng repositories.DateRange) (*EarningsSummary, error)
	Stats(ctx context.Context, userID uint) (*Stats, error)
	// InvalidateUser drops the cached read models of the given users.
	InvalidateUser(ctx context.Context, userIDs ...uint)
}

type service struct {
	users    repositories.UserRepository
	ledger   repositories.LedgerRepository
	cache    cache.Store
	staleTTL time.Duration
	newCode  func() string
	now      func() time.Time
}

func NewService(users repositories.UserRepository, ledger repositories.LedgerRepository, store cache.Store, staleTTL time.Duration) Service {
	return &service{
		users:    users,
		ledger:   ledger,
		cache:    store,
		staleTTL: staleTTL,
		newCode:  utils.GenerateReferralCode,
		now:      time.Now,
	}
}

// GenerateCode returns the user's code, creating one on first use.
func (s *service) GenerateCode(ctx context.Context, userID uint) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if code := user.Code(); code != "" {
		return code, nil
	}

	for attempt := 1; attempt <= codeAttempts; attempt++ {
		code := s.newCode()
		err := s.users.SetReferralCode(ctx, userID, code)
		switch {
		case err == nil:
			logger.L.Infof("Referral code %s issued to user %d", code, userID)
			return code, nil
		case errors.Is(err, repositories.ErrReferralCodeTaken):
			logger.L.Debugf("Referral code collision on attempt %d", attempt)
		case errors.Is(err, apperrors.ErrUserNotFound):
			// a concurrent request already stored a code
			return s.existingCode(ctx, userID)
		default:
			return "", fmt.Errorf("failed to store referral code: %w", err)
		}
	}
	return "", apperrors.ErrReferralCodeExhausted
}

func (s *service) existingCode(ctx context.Context, userID uint) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Code() == "" {
		return "", apperrors.ErrUserNotFound
	}
	return user.Code(), nil
}

func (s *service) Network(ctx context.Context, userID uint, page, limit int) (*NetworkPage, error) {
	key := cache.NetworkKey(userID, page, limit)
	var cached NetworkPage
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	members, err := s.downline(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, MaxDepth)
	for level := 1; level <= MaxDepth; level++ {
		counts[level] = 0
	}
	for _, m := range members {
		counts[m.Level]++
	}

	p := utils.Pagination{Page: page, Limit: limit}
	start := p.Offset()
	if start > len(members) {
		start = len(members)
	}
	end := start + limit
	if end > len(members) {
		end = len(members)
	}

	result := &NetworkPage{
		Referrals:     members[start:end],
		CountsByLevel: counts,
		Page:          page,
		Limit:         limit,
		Total:         int64(len(members)),
		TotalPages:    utils.TotalPages(int64(len(members)), limit),
	}
	s.toCache(ctx, key, result)
	return result, nil
}

// downline walks the referral tree breadth first, one query per level.
func (s *service) downline(ctx context.Context, userID uint) ([]NetworkMember, error) {
	var members []NetworkMember
	frontier := []uint{userID}
	seen := map[uint]bool{userID: true}

	for level := 1; level <= MaxDepth && len(frontier) > 0; level++ {
		referees, err := s.users.Referees(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("failed to load level %d referrals: %w", level, err)
		}

		next := make([]uint, 0, len(referees))
		for _, u := range referees {
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			next = append(next, u.ID)
			members = append(members, NetworkMember{
				ID:           u.ID,
				Email:        u.Email,
				ReferralCode: u.Code(),
				Level:        level,
				CreatedAt:    u.CreatedAt,
			})
		}
		frontier = next
	}

	if len(members) == 0 {
		return []NetworkMember{}, nil
	}

	ids := make([]uint, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	counts, err := s.users.CountReferees(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count referees: %w", err)
	}
	for i := range members {
		members[i].TotalReferees = counts[members[i].ID]
	}
	return members, nil
}

func (s *service) Earnings(ctx context.Context, userID uint, rng repositories.DateRange) (*EarningsSummary, error) {
	key := cache.EarningsKey(userID, rangeBound(rng.From), rangeBound(rng.To))
	var cached EarningsSummary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	totals, err := s.ledger.Totals(ctx, userID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load earnings totals: %w", err)
	}
	rows, err := s.ledger.EarningsBySource(ctx, userID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load earnings by source: %w", err)
	}

	summary := &EarningsSummary{
		TotalEarned:     money(totals.Earned),
		TotalClaimed:    money(totals.Claimed),
		TotalUnclaimed:  money(totals.Unclaimed),
		EarningsByLevel: make(map[string][]EarningRow, MaxDepth),
		Cashback:        []EarningRow{},
	}
	for level := 1; level <= MaxDepth; level++ {
		summary.EarningsByLevel[levelKey(level)] = []EarningRow{}
	}

	cashback := decimal.Zero
	for _, r := range rows {
		row := EarningRow{
			SourceUserID:    r.SourceUserID,
			SourceEmail:     r.SourceEmail,
			XPAmount:        money(r.Amount),
			Status:          r.Status,
			CommissionCount: r.Count,
			CreatedAt:       r.FirstAt,
		}
		if r.Kind == models.LedgerKindCashback {
			cashback = cashback.Add(r.Amount)
			summary.Cashback = append(summary.Cashback, row)
			continue
		}
		k := levelKey(r.Level)
		summary.EarningsByLevel[k] = append(summary.EarningsByLevel[k], row)
	}
	summary.TotalCashback = money(cashback)

	s.toCache(ctx, key, summary)
	return summary, nil
}

func (s *service) Stats(ctx context.Context, userID uint) (*Stats, error) {
	key := cache.StatsKey(userID)
	var cached Stats
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	members, err := s.downline(ctx, userID)
	if err != nil {
		return nil, err
	}
	var direct int64
	for _, m := range members {
		if m.Level == 1 {
			direct++
		}
	}

	all, err := s.ledger.Totals(ctx, userID, repositories.DateRange{})
	if err != nil {
		return nil, fmt.Errorf("failed to load earnings totals: %w", err)
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	month, err := s.ledger.Totals(ctx, userID, repositories.DateRange{From: &monthStart})
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly totals: %w", err)
	}

	stats := &Stats{
		TotalReferrals:    int64(len(members)),
		DirectReferrals:   direct,
		TotalEarnings:     money(all.Earned),
		UnclaimedEarnings: money(all.Unclaimed),
		ThisMonthEarnings: money(month.Earned),
	}
	s.toCache(ctx, key, stats)
	return stats, nil
}

func (s *service) InvalidateUser(ctx context.Context, userIDs ...uint) {
	for _, id := range userIDs {
		for _, pattern := range cache.UserReadModels(id) {
			if err := s.cache.DeletePattern(ctx, pattern); err != nil {
				logger.L.Warnf("Failed to invalidate %s: %v", pattern, err)
			}
		}
	}
}

func (s *service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.L.Warnf("Cache read failed for %s: %v", key, err)
		return false
	}
	return found
}

func (s *service) toCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.SetWithTTL(ctx, key, value, s.staleTTL); err != nil {
		logger.L.Warnf("Failed to cache %s: %v", key, err)
	}
}

func levelKey(level int) string {
	return fmt.Sprintf("level%d", level)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func rangeBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
