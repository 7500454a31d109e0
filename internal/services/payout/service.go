// Package payout pays out a user's unclaimed commissions and cashback.
package payout

import (
	"context"
	"fmt"
	"strings"

	apperrors "cascade/internal/errors"
	"cascade/internal/logger"
	"cascade/internal/models"
	"cascade/internal/repositories"
)

const defaultHistoryLimit = 20

// ClaimResult is returned to the user after a successful claim.
type ClaimResult struct {
	ClaimID         uint   `json:"claimId"`
	ClaimableAmount string `json:"claimableAmount"`
	TokenType       string `json:"tokenType"`
	TxHash          string `json:"txHash"`
	Status          string `json:"status"`
}

// Invalidator drops cached read models after the ledger changes.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userIDs ...uint)
}

type Service interface {
	Claim(ctx context.Context, userID uint, tokenType string) (*ClaimResult, error)
	History(ctx context.Context, userID uint, limit int) ([]models.Claim, error)
}

type service struct {
	users       repositories.UserRepository
	claims      repositories.ClaimRepository
	invalidator Invalidator
	payouters   map[string]Payouter
}

// NewService wires the payouters by token type. A token type with no
// payouter is rejected.
func NewService(users repositories.UserRepository, claims repositories.ClaimRepository, invalidator Invalidator, payouters map[string]Payouter) Service {
	return &service{
		users:       users,
		claims:      claims,
		invalidator: invalidator,
		payouters:   payouters,
	}
}

func (s *service) Claim(ctx context.Context, userID uint, tokenType string) (*ClaimResult, error) {
	tokenType = strings.ToUpper(strings.TrimSpace(tokenType))
	if tokenType == "" {
		tokenType = models.TokenTypeXP
	}
	payouter, ok := s.payouters[tokenType]
	if !ok {
		return nil, apperrors.ErrUnsupportedToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if e, ok := payouter.(Eligibility); ok {
		if err := e.CheckEligible(user); err != nil {
			return nil, err
		}
	}

	claim, err := s.claims.Reserve(ctx, userID, tokenType)
	if err != nil {
		return nil, err
	}
	defer s.invalidator.InvalidateUser(ctx, userID)

	txHash, err := payouter.Pay(ctx, user, claim)
	if err != nil {
		logger.L.Errorf("Payout of claim %d failed: %v", claim.ID, err)
		if failErr := s.claims.Fail(ctx, claim.ID, err.Error()); failErr != nil {
			logger.L.Errorf("Failed to release claim %d: %v", claim.ID, failErr)
		}
		return nil, apperrors.ErrPayoutFailed.Wrap(err)
	}

	if err := s.claims.Complete(ctx, claim.ID, txHash); err != nil {
		// the transfer went out, so the claim must not be released
		logger.L.Errorf("Claim %d paid with %s but not marked completed: %v", claim.ID, txHash, err)
		return nil, fmt.Errorf("failed to complete claim: %w", err)
	}

	logger.L.Infof("User %d claimed %s %s (%s)", userID, claim.Amount.StringFixed(2), tokenType, txHash)

	return &ClaimResult{
		ClaimID:         claim.ID,
		ClaimableAmount: claim.Amount.StringFixed(2),
		TokenType:       tokenType,
		TxHash:          txHash,
		Status:          models.ClaimStatusCompleted,
	}, nil
}

func (s *service) History(ctx context.Context, userID uint, limit int) ([]models.Claim, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	return s.claims.ListByUser(ctx, userID, limit)
}
