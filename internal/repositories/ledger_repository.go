package repositories

import (
	"context"
	"time"

	"cascade/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerTotals are a beneficiary's earnings over a date range.
type LedgerTotals struct {
	Earned    decimal.Decimal
	Claimed   decimal.Decimal
	Unclaimed decimal.Decimal
}

// SourceEarnings aggregates what one source user generated for a
// beneficiary, per level and status.
type SourceEarnings struct {
	Kind         string
	Level        int
	SourceUserID uint
	SourceEmail  string
	Status       string
	Amount       decimal.Decimal
	Count        int64
	FirstAt      time.Time
}

// LedgerRepository reads the fee ledger.
type LedgerRepository interface {
	Totals(ctx context.Context, userID uint, r DateRange) (LedgerTotals, error)
	EarningsBySource(ctx context.Context, userID uint, r DateRange) ([]SourceEarnings, error)
	TreasuryTotal(ctx context.Context, r DateRange) (decimal.Decimal, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

var payoutKinds = []string{models.LedgerKindCommission, models.LedgerKindCashback}

func (r *ledgerRepository) Totals(ctx context.Context, userID uint, rng DateRange) (LedgerTotals, error) {
	var row struct {
		Earned    decimal.Decimal
		Claimed   decimal.Decimal
		Unclaimed decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Select(
			"COALESCE(SUM(amount), 0) AS earned, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS claimed, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS unclaimed",
			models.LedgerStatusClaimed, models.LedgerStatusUnclaimed,
		).
		Where("beneficiary_id = ? AND kind IN ?", userID, payoutKinds).
		Scopes(rng.scope("created_at")).
		Scan(&row).Error
	if err != nil {
		return LedgerTotals{}, err
	}
	return LedgerTotals{Earned: row.Earned, Claimed: row.Claimed, Unclaimed: row.Unclaimed}, nil
}

func (r *ledgerRepository) EarningsBySource(ctx context.Context, userID uint, rng DateRange) ([]SourceEarnings, error) {
	var rows []SourceEarnings
	err := r.db.WithContext(ctx).Table("ledger_entries AS l").
		Select("l.kind, l.level, l.source_user_id, u.email AS source_email, l.status, "+
			"SUM(l.amount) AS amount, COUNT(*) AS count, MIN(l.created_at) AS first_at").
		Joins("JOIN users u ON u.id = l.source_user_id").
		Where("l.beneficiary_id = ? AND l.kind IN ?", userID, payoutKinds).
		Scopes(rng.scope("l.created_at")).
		Group("l.kind, l.level, l.source_user_id, u.email, l.status").
		Order("l.level ASC, amount DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ledgerRepository) TreasuryTotal(ctx context.Context, rng DateRange) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("kind = ?", models.LedgerKindTreasury).
		Scopes(rng.scope("created_at")).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
