package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry kinds
const (
	LedgerKindCommission = "commission"
	LedgerKindCashback   = "cashback"
	LedgerKindTreasury   = "treasury"
)

// Ledger entry statuses
const (
	LedgerStatusUnclaimed = "unclaimed"
	LedgerStatusClaimed   = "claimed"
	// LedgerStatusRetained marks treasury rows, which are never claimed.
	LedgerStatusRetained = "retained"
)

// LedgerEntry is one share of a trade's fee. The entries of a trade always
// add up to the trade's fee rounded to cents.
type LedgerEntry struct {
	ID            uint            `gorm:"primarykey"`
	TradeID       uint            `gorm:"index;not null"`
	Kind          string          `gorm:"size:16;not null;index:idx_ledger_beneficiary_kind,priority:2"`
	BeneficiaryID *uint           `gorm:"index:idx_ledger_beneficiary_kind,priority:1"`
	SourceUserID  uint            `gorm:"index;not null"`
	Level         int             `gorm:"not null;default:0"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Status        string          `gorm:"size:16;not null;default:'unclaimed';index"`
	ClaimID       *uint           `gorm:"index"`
	CreatedAt     time.Time       `gorm:"index"`
}
