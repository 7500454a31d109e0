package payout

import (
	"context"

	"cascade/internal/models"
	"cascade/internal/utils"
)

// Payouter sends a reserved claim to the user and returns a transfer reference.
type Payouter interface {
	Pay(ctx context.Context, user *models.User, claim *models.Claim) (string, error)
}

// Eligibility is implemented by payouters that need something on the user
// before a claim is reserved.
type Eligibility interface {
	CheckEligible(user *models.User) error
}

// LedgerPayouter credits XP internally. The reserved ledger entries are the
// credit, so it only mints a reference.
type LedgerPayouter struct{}

func (LedgerPayouter) Pay(ctx context.Context, user *models.User, claim *models.Claim) (string, error) {
	return utils.GenerateTxHash(), nil
}
