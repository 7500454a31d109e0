package handlers

import (
	"strconv"

	"cascade/internal/services/payout"
	"cascade/internal/services/referral"
	"cascade/internal/utils"
	"cascade/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ReferralHandler struct {
	referrals referral.Service
	payouts   payout.Service
}

func NewReferralHandler(referrals referral.Service, payouts payout.Service) *ReferralHandler {
	return &ReferralHandler{
		referrals: referrals,
		payouts:   payouts,
	}
}

// GenerateCode returns the caller's referral code, creating it if needed.
func (h *ReferralHandler) GenerateCode(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	code, err := h.referrals.GenerateCode(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.Map{"referralCode": code})
}

func (h *ReferralHandler) Network(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	p := utils.GetPagination(c, 1, 20)
	page, err := h.referrals.Network(c.UserContext(), claims.UserID, p.Page, p.Limit)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, page)
}

func (h *ReferralHandler) Earnings(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	rng, err := dateRange(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	summary, err := h.referrals.Earnings(c.UserContext(), claims.UserID, rng)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, summary)
}

func (h *ReferralHandler) Stats(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	stats, err := h.referrals.Stats(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, stats)
}

// Claim pays out everything the caller has not claimed yet.
func (h *ReferralHandler) Claim(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input struct {
		TokenType string `json:"tokenType" validate:"omitempty,alpha,max=8"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "invalid request body")
		}
	}
	if err := validation.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	result, err := h.payouts.Claim(c.UserContext(), claims.UserID, input.TokenType)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, result)
}

// ClaimHistory lists the caller's most recent claims.
func (h *ReferralHandler) ClaimHistory(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := h.payouts.History(c.UserContext(), claims.UserID, limit)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, history)
}
