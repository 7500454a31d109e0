package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"cascade/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenAuthority struct {
	mock.Mock
}

func (m *MockTokenAuthority) ParseToken(token string) (*models.UserClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*models.UserClaims)
	return claims, args.Error(1)
}

func (m *MockTokenAuthority) GetUserTokenVersion(ctx context.Context, userID uint) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func newApp(tokens TokenAuthority, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{NewAuthMiddleware(tokens).Handler}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.UserClaims{UserID: 1, Role: models.RoleUser, TokenVersion: 2, Permissions: models.GetDefaultPermissions(models.RoleUser)}

	tests := []struct {
		name   string
		header string
		setup  func(*MockTokenAuthority)
		extra  []fiber.Handler
		want   int
	}{
		{name: "missing header", want: fiber.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: fiber.StatusUnauthorized},
		{
			name:   "bad token",
			header: "Bearer bad",
			setup: func(m *MockTokenAuthority) {
				m.On("ParseToken", "bad").Return(nil, errors.New("signature is invalid"))
			},
			want: fiber.StatusUnauthorized,
		},
		{
			name:   "revoked token",
			header: "Bearer good",
			setup: func(m *MockTokenAuthority) {
				m.On("ParseToken", "good").Return(user, nil)
				m.On("GetUserTokenVersion", mock.Anything, uint(1)).Return(3, nil)
			},
			want: fiber.StatusUnauthorized,
		},
		{
			name:   "valid token",
			header: "Bearer good",
			setup: func(m *MockTokenAuthority) {
				m.On("ParseToken", "good").Return(user, nil)
				m.On("GetUserTokenVersion", mock.Anything, uint(1)).Return(2, nil)
			},
			want: fiber.StatusOK,
		},
		{
			name:   "user is not admin",
			header: "Bearer good",
			setup: func(m *MockTokenAuthority) {
				m.On("ParseToken", "good").Return(user, nil)
				m.On("GetUserTokenVersion", mock.Anything, uint(1)).Return(2, nil)
			},
			extra: []fiber.Handler{AdminAuthMiddleware},
			want:  fiber.StatusForbidden,
		},
		{
			name:   "permission granted",
			header: "Bearer good",
			setup: func(m *MockTokenAuthority) {
				m.On("ParseToken", "good").Return(user, nil)
				m.On("GetUserTokenVersion", mock.Anything, uint(1)).Return(2, nil)
			},
			extra: []fiber.Handler{HasPermission(models.PermissionEarningsClaim)},
			want:  fiber.StatusOK,
		},
		{
			name:   "permission missing",
			header: "Bearer good",
			setup: func(m *MockTokenAuthority) {
				m.On("ParseToken", "good").Return(user, nil)
				m.On("GetUserTokenVersion", mock.Anything, uint(1)).Return(2, nil)
			},
			extra: []fiber.Handler{HasPermission(models.PermissionReadAdmin)},
			want:  fiber.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := new(MockTokenAuthority)
			if tt.setup != nil {
				tt.setup(tokens)
			}

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newApp(tokens, tt.extra...).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			tokens.AssertExpectations(t)
		})
	}
}

func TestWebhookSecret(t *testing.T) {
	app := fiber.New()
	app.Post("/hook", WebhookSecret("s3cret"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	open := fiber.New()
	open.Post("/hook", WebhookSecret(""), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("POST", "/hook", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/hook", nil)
	req.Header.Set(WebhookSecretHeader, "s3cret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = open.Test(httptest.NewRequest("POST", "/hook", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
