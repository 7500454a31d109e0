package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Token types a claim can be paid in
const (
	TokenTypeXP  = "XP"
	TokenTypeUSD = "USD"
)

// Claim statuses
const (
	ClaimStatusPending   = "pending"
	ClaimStatusCompleted = "completed"
	ClaimStatusFailed    = "failed"
)

// Claim is a payout of a user's unclaimed earnings.
type Claim struct {
	ID            uint            `gorm:"primarykey"`
	UserID        uint            `gorm:"index;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	TokenType     string          `gorm:"size:8;not null"`
	Status        string          `gorm:"size:16;not null;default:'pending'"`
	TxHash        *string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
