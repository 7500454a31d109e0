// Package trade turns fee events into ledger entries.
package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "cascade/internal/errors"
	"cascade/internal/logger"
	"cascade/internal/models"
	"cascade/internal/repositories"
	"cascade/internal/services/commission"
	"cascade/internal/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type service struct {
	users       repositories.UserRepository
	trades      repositories.TradeRepository
	splitter    Splitter
	invalidator Invalidator
}

func NewService(users repositories.UserRepository, trades repositories.TradeRepository, splitter Splitter, invalidator Invalidator) Service {
	return &service{
		users:       users,
		trades:      trades,
		splitter:    splitter,
		invalidator: invalidator,
	}
}

// Record stores a trade and its fee split. The ledger entries of a trade
// add up to its fee rounded to cents.
func (s *service) Record(ctx context.Context, req TradeRequest) (*Result, error) {
	if err := validation.Struct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if req.Volume.IsNegative() {
		return nil, apperrors.ErrInvalidTrade.Wrap(errors.New("volume must not be negative"))
	}

	req.TradeID = strings.TrimSpace(req.TradeID)
	if req.TradeID == "" {
		req.TradeID = uuid.NewString()
	} else if existing, err := s.trades.GetByExternalID(ctx, req.TradeID); err == nil {
		logger.L.Infof("Trade %s already recorded, skipping", req.TradeID)
		return &Result{Trade: existing, Duplicate: true}, nil
	} else if !errors.Is(err, repositories.ErrTradeNotFound) {
		return nil, fmt.Errorf("failed to look up trade: %w", err)
	}

	trader, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	upline, err := s.users.Ancestors(ctx, trader.ID, commission.Levels)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve referrers: %w", err)
	}

	dist, err := s.splitter.Distribute(req.Fees, commission.Recipients{
		Levels:   len(upline),
		Referred: len(upline) > 0,
	})
	if err != nil {
		return nil, err
	}

	trade := &models.Trade{
		ExternalID: req.TradeID,
		UserID:     trader.ID,
		Volume:     req.Volume,
		Fees:       req.Fees,
		Chain:      req.Chain,
		TokenPair:  req.TokenPair,
		TradeType:  req.TradeType,
		Metadata:   models.JSON(req.Metadata),
	}
	entries := ledgerEntries(trader.ID, upline, dist)

	if err := s.trades.RecordWithLedger(ctx, trade, entries); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateTrade) {
			existing, lookupErr := s.trades.GetByExternalID(ctx, req.TradeID)
			if lookupErr != nil {
				return nil, err
			}
			return &Result{Trade: existing, Duplicate: true}, nil
		}
		return nil, fmt.Errorf("failed to record trade: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"trade":    trade.ExternalID,
		"user":     trader.ID,
		"fees":     req.Fees.String(),
		"levels":   len(upline),
		"treasury": dist.TreasuryShare.StringFixed(2),
	}).Info("Trade recorded")

	s.invalidator.InvalidateUser(ctx, beneficiaries(entries)...)

	return &Result{Trade: trade, Distribution: &dist, Entries: entries}, nil
}

// ledgerEntries builds one entry per non-zero share. upline is nearest
// referrer first.
func ledgerEntries(traderID uint, upline []*models.User, dist commission.Distribution) []*models.LedgerEntry {
	entries := make([]*models.LedgerEntry, 0, len(upline)+2)

	for i, referrer := range upline {
		level := i + 1
		amount := dist.Payable.Level(level)
		if amount.IsZero() {
			continue
		}
		beneficiary := referrer.ID
		entries = append(entries, &models.LedgerEntry{
			Kind:          models.LedgerKindCommission,
			BeneficiaryID: &beneficiary,
			SourceUserID:  traderID,
			Level:         level,
			Amount:        amount,
			Status:        models.LedgerStatusUnclaimed,
		})
	}

	if !dist.PayableCashback.IsZero() {
		trader := traderID
		entries = append(entries, &models.LedgerEntry{
			Kind:          models.LedgerKindCashback,
			BeneficiaryID: &trader,
			SourceUserID:  traderID,
			Amount:        dist.PayableCashback,
			Status:        models.LedgerStatusUnclaimed,
		})
	}

	if !dist.TreasuryShare.IsZero() {
		entries = append(entries, &models.LedgerEntry{
			Kind:         models.LedgerKindTreasury,
			SourceUserID: traderID,
			Amount:       dist.TreasuryShare,
			Status:       models.LedgerStatusRetained,
		})
	}
	return entries
}

func beneficiaries(entries []*models.LedgerEntry) []uint {
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		if e.BeneficiaryID != nil {
			ids = append(ids, *e.BeneficiaryID)
		}
	}
	return ids
}
