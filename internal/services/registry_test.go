package services

import (
	"testing"

	"cascade/internal/config"
	"cascade/internal/mocks"
	"cascade/internal/services/commission"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadRates(t *testing.T) {
	cfg := config.Load()
	cfg.Rates.Level1 = decimal.RequireFromString("0.9")

	_, err := New(cfg, nil, new(mocks.Cache))
	assert.ErrorIs(t, err, commission.ErrInvalidRates)
}

func TestNewWiresDefaults(t *testing.T) {
	cfg := config.Load()
	cfg.StripeSecretKey = ""

	reg, err := New(cfg, nil, new(mocks.Cache))
	require.NoError(t, err)
	assert.True(t, reg.Calculator.Rates().Level1.Equal(commission.DefaultRates().Level1))
	assert.NotNil(t, reg.Trade)
	assert.NotNil(t, reg.Payout)
}
