// Package mocks holds testify mocks of the repository and cache interfaces.
package mocks

import (
	"context"
	"time"

	"cascade/internal/models"
	"cascade/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	args := m.Called(ctx, code)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) SetReferralCode(ctx context.Context, userID uint, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *UserRepository) SetStripeAccount(ctx context.Context, userID uint, accountID string) error {
	args := m.Called(ctx, userID, accountID)
	return args.Error(0)
}

func (m *UserRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepository) TouchLogin(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepository) Ancestors(ctx context.Context, userID uint, depth int) ([]*models.User, error) {
	args := m.Called(ctx, userID, depth)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func (m *UserRepository) Referees(ctx context.Context, referrerIDs []uint) ([]*models.User, error) {
	args := m.Called(ctx, referrerIDs)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func (m *UserRepository) CountReferees(ctx context.Context, referrerIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, referrerIDs)
	counts, _ := args.Get(0).(map[uint]int64)
	return counts, args.Error(1)
}

type TradeRepository struct {
	mock.Mock
}

func (m *TradeRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Trade, error) {
	args := m.Called(ctx, externalID)
	trade, _ := args.Get(0).(*models.Trade)
	return trade, args.Error(1)
}

func (m *TradeRepository) RecordWithLedger(ctx context.Context, trade *models.Trade, entries []*models.LedgerEntry) error {
	args := m.Called(ctx, trade, entries)
	return args.Error(0)
}

type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) Totals(ctx context.Context, userID uint, r repositories.DateRange) (repositories.LedgerTotals, error) {
	args := m.Called(ctx, userID, r)
	return args.Get(0).(repositories.LedgerTotals), args.Error(1)
}

func (m *LedgerRepository) EarningsBySource(ctx context.Context, userID uint, r repositories.DateRange) ([]repositories.SourceEarnings, error) {
	args := m.Called(ctx, userID, r)
	rows, _ := args.Get(0).([]repositories.SourceEarnings)
	return rows, args.Error(1)
}

func (m *LedgerRepository) TreasuryTotal(ctx context.Context, r repositories.DateRange) (decimal.Decimal, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type ClaimRepository struct {
	mock.Mock
}

func (m *ClaimRepository) Reserve(ctx context.Context, userID uint, tokenType string) (*models.Claim, error) {
	args := m.Called(ctx, userID, tokenType)
	claim, _ := args.Get(0).(*models.Claim)
	return claim, args.Error(1)
}

func (m *ClaimRepository) Complete(ctx context.Context, claimID uint, txHash string) error {
	args := m.Called(ctx, claimID, txHash)
	return args.Error(0)
}

func (m *ClaimRepository) Fail(ctx context.Context, claimID uint, reason string) error {
	args := m.Called(ctx, claimID, reason)
	return args.Error(0)
}

func (m *ClaimRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Claim, error) {
	args := m.Called(ctx, userID, limit)
	claims, _ := args.Get(0).([]models.Claim)
	return claims, args.Error(1)
}

// Cache is a Store mock. Get reports a miss unless a value is configured.
type Cache struct {
	mock.Mock
}

func (m *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *Cache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *Cache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *Cache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *Cache) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
