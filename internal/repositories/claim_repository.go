package repositories

import (
	"context"

	apperrors "cascade/internal/errors"
	"cascade/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClaimRepository moves unclaimed ledger entries into payouts.
type ClaimRepository interface {
	// Reserve locks the user's unclaimed entries and attaches them to a new
	// pending claim. Fails with ErrNothingToClaim when there is nothing.
	Reserve(ctx context.Context, userID uint, tokenType string) (*models.Claim, error)
	Complete(ctx context.Context, claimID uint, txHash string) error
	// Fail marks the claim failed and hands its entries back to the user.
	Fail(ctx context.Context, claimID uint, reason string) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Claim, error)
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Reserve(ctx context.Context, userID uint, tokenType string) (*models.Claim, error) {
	var claim *models.Claim
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entries []models.LedgerEntry
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("beneficiary_id = ? AND status = ? AND kind IN ?",
				userID, models.LedgerStatusUnclaimed, payoutKinds).
			Find(&entries).Error; err != nil {
			return err
		}

		total := decimal.Zero
		ids := make([]uint, 0, len(entries))
		for _, e := range entries {
			total = total.Add(e.Amount)
			ids = append(ids, e.ID)
		}
		if !total.IsPositive() {
			return apperrors.ErrNothingToClaim
		}

		claim = &models.Claim{
			UserID:    userID,
			Amount:    total,
			TokenType: tokenType,
			Status:    models.ClaimStatusPending,
		}
		if err := tx.Create(claim).Error; err != nil {
			return err
		}

		return tx.Model(&models.LedgerEntry{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":   models.LedgerStatusClaimed,
				"claim_id": claim.ID,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}

func (r *claimRepository) Complete(ctx context.Context, claimID uint, txHash string) error {
	return r.db.WithContext(ctx).Model(&models.Claim{}).
		Where("id = ?", claimID).
		Updates(map[string]interface{}{
			"status":  models.ClaimStatusCompleted,
			"tx_hash": txHash,
		}).Error
}

func (r *claimRepository) Fail(ctx context.Context, claimID uint, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Claim{}).
			Where("id = ?", claimID).
			Updates(map[string]interface{}{
				"status":         models.ClaimStatusFailed,
				"failure_reason": reason,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&models.LedgerEntry{}).
			Where("claim_id = ?", claimID).
			Updates(map[string]interface{}{
				"status":   models.LedgerStatusUnclaimed,
				"claim_id": nil,
			}).Error
	})
}

func (r *claimRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&claims).Error
	return claims, err
}
