package repositories

import (
	"context"
	"errors"

	"cascade/internal/models"
)

var (
	ErrReferralCodeTaken = errors.New("referral code already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByReferralCode retrieves the owner of a referral code
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)

	// SetReferralCode assigns a code to a user that has none
	SetReferralCode(ctx context.Context, userID uint, code string) error

	// SetStripeAccount links the connected account USD payouts go to
	SetStripeAccount(ctx context.Context, userID uint, accountID string) error

	// IncrementTokenVersion invalidates every issued token of the user
	IncrementTokenVersion(ctx context.Context, userID uint) error

	// TouchLogin records the time of a successful login
	TouchLogin(ctx context.Context, userID uint) error

	// Ancestors walks the referrer chain upward, nearest first, at most depth users
	Ancestors(ctx context.Context, userID uint, depth int) ([]*models.User, error)

	// Referees returns the users directly referred by any of referrerIDs
	Referees(ctx context.Context, referrerIDs []uint) ([]*models.User, error)

	// CountReferees returns the number of direct referees per referrer
	CountReferees(ctx context.Context, referrerIDs []uint) (map[uint]int64, error)
}
