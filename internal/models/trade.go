package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one fee event reported for a user.
type Trade struct {
	ID         uint            `gorm:"primarykey"`
	ExternalID string          `gorm:"uniqueIndex;size:64;not null"`
	UserID     uint            `gorm:"index;not null"`
	Volume     decimal.Decimal `gorm:"type:numeric(30,8);not null"`
	Fees       decimal.Decimal `gorm:"type:numeric(30,8);not null"`
	Chain      string
	TokenPair  string
	TradeType  string
	Metadata   JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
}
