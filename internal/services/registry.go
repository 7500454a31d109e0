// Package services wires the repositories into the domain services shared
// by the HTTP server and the trade consumer.
package services

import (
	"time"

	"cascade/internal/config"
	"cascade/internal/logger"
	"cascade/internal/models"
	"cascade/internal/repositories"
	"cascade/internal/repositories/cache"
	"cascade/internal/services/auth"
	"cascade/internal/services/commission"
	"cascade/internal/services/payout"
	"cascade/internal/services/referral"
	"cascade/internal/services/trade"
	"cascade/internal/utils"

	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// Registry holds every service of the application.
type Registry struct {
	Calculator *commission.Calculator
	Auth       auth.Service
	Referral   referral.Service
	Trade      trade.Service
	Payout     payout.Service

	Users  repositories.UserRepository
	Ledger repositories.LedgerRepository
}

// New builds the services. It fails only when the configured commission
// rates are invalid.
func New(cfg *config.Config, db *gorm.DB, store cache.Store) (*Registry, error) {
	calc, err := commission.NewCalculator(cfg.Rates)
	if err != nil {
		return nil, err
	}

	users := repositories.NewUserRepository(db, store)
	ledger := repositories.NewLedgerRepository(db)
	trades := repositories.NewTradeRepository(db)
	claims := repositories.NewClaimRepository(db)

	referrals := referral.NewService(users, ledger, store, cfg.StaleTTL)

	payouters := map[string]payout.Payouter{
		models.TokenTypeXP: payout.LedgerPayouter{},
	}
	if cfg.StripeSecretKey != "" {
		payouters[models.TokenTypeUSD] = payout.NewStripePayouter(cfg.StripeSecretKey, cfg.PayoutRatePerSec)
	} else {
		logger.L.Info("STRIPE_SECRET_KEY not set, USD payouts disabled")
	}

	return &Registry{
		Calculator: calc,
		Auth:       auth.NewService(users, utils.NewJWTManager(cfg.JWTSecret, tokenTTL), referrals),
		Referral:   referrals,
		Trade:      trade.NewService(users, trades, calc, referrals),
		Payout:     payout.NewService(users, claims, referrals, payouters),
		Users:      users,
		Ledger:     ledger,
	}, nil
}
