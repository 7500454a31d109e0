package repositories

import (
	"context"
	"errors"

	apperrors "cascade/internal/errors"
	"cascade/internal/models"

	"gorm.io/gorm"
)

var ErrTradeNotFound = errors.New("trade not found")

// TradeRepository stores fee events together with their ledger split.
type TradeRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.Trade, error)

	// RecordWithLedger stores the trade and its entries in one transaction.
	// A replayed external ID fails with ErrDuplicateTrade.
	RecordWithLedger(ctx context.Context, trade *models.Trade, entries []*models.LedgerEntry) error
}

type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Trade, error) {
	var trade models.Trade
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&trade).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) RecordWithLedger(ctx context.Context, trade *models.Trade, entries []*models.LedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trade).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateTrade
			}
			return err
		}

		for _, e := range entries {
			e.TradeID = trade.ID
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 100).Error
	})
}
