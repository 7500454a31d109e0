// Package middleware provides HTTP middleware for the fiber app:
// session authentication, permission checks and webhook verification.
package middleware

import (
	"context"
	"strings"

	"cascade/internal/logger"
	"cascade/internal/models"
	"cascade/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// TokenAuthority parses session tokens and reports the current token
// version of a user.
type TokenAuthority interface {
	ParseToken(token string) (*models.UserClaims, error)
	GetUserTokenVersion(ctx context.Context, userID uint) (int, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
type AuthMiddleware struct {
	tokens TokenAuthority
}

func NewAuthMiddleware(tokens TokenAuthority) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handler validates the bearer token and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid JWT signature and expiry
// - Token version matches current user version
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := m.tokens.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		logger.L.Debugf("Token validation error: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	currentVersion, err := m.tokens.GetUserTokenVersion(c.UserContext(), claims.UserID)
	if err != nil {
		logger.L.Infof("Token of unknown user %d: %v", claims.UserID, err)
		return utils.Unauthorized(c, "invalid token")
	}
	if claims.TokenVersion != currentVersion {
		logger.L.Infof("Token version mismatch for user %d. Token: %d, DB: %d",
			claims.UserID, claims.TokenVersion, currentVersion)
		return utils.Unauthorized(c, "session expired")
	}

	c.Locals(utils.ClaimsKey, claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if claims.Role != models.RoleAdmin {
		logger.L.Infof("Access denied: user %d has role %s, not admin", claims.UserID, claims.Role)
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return utils.Unauthorized(c, "unauthorized")
		}

		// admins hold every permission
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}
