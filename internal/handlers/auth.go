package handlers

import (
	"cascade/internal/services/auth"
	"cascade/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup registers a user, optionally under a referrer, and signs them in.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		Name         string `json:"name"`
		ReferralCode string `json:"referralCode"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	session, err := h.authService.Signup(c.UserContext(), auth.SignupRequest{
		Email:        input.Email,
		Password:     input.Password,
		Name:         input.Name,
		ReferralCode: input.ReferralCode,
	})
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Created(c, session)
}

// Login handles user authentication and returns a JWT
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	session, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, session)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	profile, err := h.authService.Me(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, profile)
}

// SetPayoutAccount links the Stripe connected account USD claims go to.
func (h *AuthHandler) SetPayoutAccount(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input struct {
		StripeAccountID string `json:"stripeAccountId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	if err := h.authService.SetPayoutAccount(c.UserContext(), claims.UserID, input.StripeAccountID); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.Map{"payoutAccountLinked": true})
}

// Logout revokes every token issued to the user so far.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	if err := h.authService.Logout(c.UserContext(), claims.UserID); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "logged out"})
}
