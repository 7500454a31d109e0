package repositories

import (
	"context"
	"errors"

	apperrors "cascade/internal/errors"
	"cascade/internal/logger"
	"cascade/internal/models"
	"cascade/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache cache.Store
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB, store cache.Store) UserRepository {
	return &userRepository{
		db:    db,
		cache: store,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrEmailTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	key := cache.UserKey(id)
	var cached models.User
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		logger.L.Warnf("user cache read failed for %d: %v", id, err)
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if err := r.cache.Set(ctx, key, &user); err != nil {
		logger.L.Warnf("failed to cache user %d: %v", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return r.findOne(ctx, "referral_code = ?", code)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where(query, arg).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) SetReferralCode(ctx context.Context, userID uint, code string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND referral_code IS NULL", userID).
		Update("referral_code", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrReferralCodeTaken
		}
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) SetStripeAccount(ctx context.Context, userID uint, accountID string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("stripe_account_id", accountID)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error; err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) TouchLogin(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("last_login_at", gorm.Expr("NOW()")).Error
}

func (r *userRepository) Ancestors(ctx context.Context, userID uint, depth int) ([]*models.User, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ancestors := make([]*models.User, 0, depth)
	seen := map[uint]bool{user.ID: true}
	for next := user.ReferrerID; next != nil && len(ancestors) < depth; {
		if seen[*next] {
			// a referral cycle would otherwise pay the same user twice
			logger.L.Errorf("referral cycle detected at user %d", *next)
			break
		}
		parent, err := r.GetByID(ctx, *next)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				break
			}
			return nil, err
		}
		seen[parent.ID] = true
		ancestors = append(ancestors, parent)
		next = parent.ReferrerID
	}
	return ancestors, nil
}

func (r *userRepository) Referees(ctx context.Context, referrerIDs []uint) ([]*models.User, error) {
	if len(referrerIDs) == 0 {
		return nil, nil
	}
	var users []*models.User
	if err := r.db.WithContext(ctx).
		Where("referrer_id IN ?", referrerIDs).
		Order("created_at ASC, id ASC").
		Find(&users).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return users, nil
}

func (r *userRepository) CountReferees(ctx context.Context, referrerIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(referrerIDs))
	if len(referrerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ReferrerID uint
		Count      int64
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("referrer_id, COUNT(*) AS count").
		Where("referrer_id IN ?", referrerIDs).
		Group("referrer_id").
		Scan(&rows).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	for _, row := range rows {
		counts[row.ReferrerID] = row.Count
	}
	return counts, nil
}

func (r *userRepository) invalidate(ctx context.Context, userID uint) {
	if err := r.cache.Delete(ctx, cache.UserKey(userID)); err != nil {
		logger.L.Warnf("failed to invalidate user cache %d: %v", userID, err)
	}
}
