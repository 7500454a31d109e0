package trade

import (
	"cascade/internal/models"
	"cascade/internal/services/commission"

	"github.com/shopspring/decimal"
)

// TradeRequest is a fee event reported by the trading venue, either through
// the webhook or the trade topic. Amounts accept JSON numbers or strings.
type TradeRequest struct {
	TradeID   string                 `json:"tradeId" validate:"max=64"`
	UserID    uint                   `json:"userId" validate:"required"`
	Volume    decimal.Decimal        `json:"volume"`
	Fees      decimal.Decimal        `json:"fees"`
	Chain     string                 `json:"chain" validate:"max=32"`
	TokenPair string                 `json:"tokenPair" validate:"max=32"`
	TradeType string                 `json:"tradeType" validate:"max=16"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Result is the outcome of recording a trade. A replayed trade ID yields the
// stored trade with Duplicate set and no distribution.
type Result struct {
	Trade        *models.Trade            `json:"trade"`
	Distribution *commission.Distribution `json:"distribution,omitempty"`
	Entries      []*models.LedgerEntry    `json:"entries,omitempty"`
	Duplicate    bool                     `json:"duplicate"`
}
