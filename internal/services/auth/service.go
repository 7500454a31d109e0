// Package auth registers users and issues their session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "cascade/internal/errors"
	"cascade/internal/logger"
	"cascade/internal/models"
	"cascade/internal/repositories"
	"cascade/internal/services/commission"
	"cascade/internal/utils"
	"cascade/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ReferralProgram hands out referral codes and drops the cached networks of
// users whose downline changed.
type ReferralProgram interface {
	GenerateCode(ctx context.Context, userID uint) (string, error)
	InvalidateUser(ctx context.Context, userIDs ...uint)
}

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, userID uint) error
	Me(ctx context.Context, userID uint) (*Profile, error)
	SetPayoutAccount(ctx context.Context, userID uint, accountID string) error
	GetUserTokenVersion(ctx context.Context, userID uint) (int, error)
	ParseToken(token string) (*models.UserClaims, error)
}

type service struct {
	userRepo   repositories.UserRepository
	jwt        *utils.JWTManager
	referrals  ReferralProgram
	bcryptCost int
}

func NewService(userRepo repositories.UserRepository, jwt *utils.JWTManager, referrals ReferralProgram) Service {
	return &service{
		userRepo:   userRepo,
		jwt:        jwt,
		referrals:  referrals,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.ReferralCode = strings.ToUpper(strings.TrimSpace(req.ReferralCode))

	v := validation.New()
	v.Signup(&validation.SignupInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		ReferralCode: req.ReferralCode,
	})
	if !v.Valid() {
		return nil, apperrors.Validation(v.First())
	}

	user := &models.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  models.RoleUser,
	}

	if req.ReferralCode != "" {
		referrer, err := s.userRepo.GetByReferralCode(ctx, req.ReferralCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return nil, apperrors.ErrInvalidReferralCode
			}
			return nil, fmt.Errorf("failed to resolve referral code: %w", err)
		}
		user.ReferrerID = &referrer.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.L.Infof("User %d signed up (referred: %t)", user.ID, user.HasReferrer())
	if user.HasReferrer() {
		s.invalidateUpline(ctx, user)
	}

	code, err := s.referrals.GenerateCode(ctx, user.ID)
	if err != nil {
		// the user can still ask for a code later
		logger.L.Warnf("Failed to issue referral code for user %d: %v", user.ID, err)
	}

	return s.session(user, code)
}

// invalidateUpline drops the cached network and stats of every user the new
// referee now appears under.
func (s *service) invalidateUpline(ctx context.Context, user *models.User) {
	upline, err := s.userRepo.Ancestors(ctx, user.ID, commission.Levels)
	if err != nil {
		logger.L.Warnf("Failed to load upline of user %d: %v", user.ID, err)
		s.referrals.InvalidateUser(ctx, *user.ReferrerID)
		return
	}
	ids := make([]uint, 0, len(upline))
	for _, u := range upline {
		ids = append(ids, u.ID)
	}
	s.referrals.InvalidateUser(ctx, ids...)
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	v := validation.New()
	v.Login(email, password)
	if !v.Valid() {
		return nil, apperrors.Validation(v.First())
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			logger.L.Infof("Login failed: unknown email %s", email)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.L.Infof("Login failed: incorrect password for user ID: %d", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLogin(ctx, user.ID); err != nil {
		logger.L.Warnf("Failed to record login for user %d: %v", user.ID, err)
	}

	return s.session(user, user.Code())
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.userRepo.IncrementTokenVersion(ctx, userID)
}

func (s *service) Me(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:                  user.ID,
		Email:               user.Email,
		Name:                user.Name,
		Role:                user.Role,
		ReferralCode:        user.Code(),
		HasReferrer:         user.HasReferrer(),
		PayoutAccountLinked: user.StripeAccountID != "",
		CreatedAt:           user.CreatedAt,
	}, nil
}

// SetPayoutAccount links the Stripe connected account USD claims are paid to.
func (s *service) SetPayoutAccount(ctx context.Context, userID uint, accountID string) error {
	accountID = strings.TrimSpace(accountID)

	v := validation.New()
	v.PayoutAccount(accountID)
	if !v.Valid() {
		return apperrors.Validation(v.First())
	}

	if err := s.userRepo.SetStripeAccount(ctx, userID, accountID); err != nil {
		return err
	}
	logger.L.Infof("User %d linked payout account", userID)
	return nil
}

func (s *service) GetUserTokenVersion(ctx context.Context, userID uint) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}

func (s *service) ParseToken(token string) (*models.UserClaims, error) {
	return s.jwt.Parse(token)
}

func (s *service) session(user *models.User, code string) (*Session, error) {
	token, err := s.jwt.Issue(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &Session{
		Token:        token,
		UserID:       user.ID,
		Email:        user.Email,
		ReferralCode: code,
		HasReferrer:  user.HasReferrer(),
	}, nil
}
