package trade

import (
	"context"

	"cascade/internal/services/commission"

	"github.com/shopspring/decimal"
)

// Splitter divides a fee between the referral levels, the trader and the
// treasury.
type Splitter interface {
	Distribute(fees decimal.Decimal, to commission.Recipients) (commission.Distribution, error)
}

// Invalidator drops cached read models after the ledger changes.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userIDs ...uint)
}

type Service interface {
	Record(ctx context.Context, req TradeRequest) (*Result, error)
}
