package payout

import (
	"context"
	"errors"
	"fmt"

	apperrors "cascade/internal/errors"
	"cascade/internal/logger"
	"cascade/internal/models"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/transfer"
	"golang.org/x/time/rate"
)

var ErrNoConnectedAccount = errors.New("user has no connected payout account")

// StripePayouter sends USD claims to the user's connected account.
type StripePayouter struct {
	limiter  *rate.Limiter
	transfer func(*stripe.TransferParams) (*stripe.Transfer, error)
}

// NewStripePayouter configures the stripe key and throttles transfers to
// perSecond requests.
func NewStripePayouter(secretKey string, perSecond float64) *StripePayouter {
	stripe.Key = secretKey
	return &StripePayouter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		transfer: transfer.New,
	}
}

// CheckEligible requires a linked connected account.
func (p *StripePayouter) CheckEligible(user *models.User) error {
	if user.StripeAccountID == "" {
		return apperrors.ErrPayoutAccountRequired
	}
	return nil
}

func (p *StripePayouter) Pay(ctx context.Context, user *models.User, claim *models.Claim) (string, error) {
	if user.StripeAccountID == "" {
		return "", ErrNoConnectedAccount
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("payout throttled: %w", err)
	}

	params := &stripe.TransferParams{
		Amount:        stripe.Int64(claim.Amount.Shift(2).IntPart()),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Destination:   stripe.String(user.StripeAccountID),
		TransferGroup: stripe.String(fmt.Sprintf("claim-%d", claim.ID)),
	}
	params.SetIdempotencyKey(fmt.Sprintf("claim-%d", claim.ID))
	params.AddMetadata("user_id", fmt.Sprint(user.ID))

	t, err := p.transfer(params)
	if err != nil {
		return "", fmt.Errorf("stripe transfer failed: %w", err)
	}
	logger.L.Infof("Stripe transfer %s sent for claim %d", t.ID, claim.ID)
	return t.ID, nil
}
