package handlers

import (
	"cascade/internal/repositories"
	"cascade/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	ledger repositories.LedgerRepository
}

func NewAdminHandler(ledger repositories.LedgerRepository) *AdminHandler {
	return &AdminHandler{ledger: ledger}
}

// Treasury reports the protocol's retained revenue over an optional range.
func (h *AdminHandler) Treasury(c *fiber.Ctx) error {
	rng, err := dateRange(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	total, err := h.ledger.TreasuryTotal(c.UserContext(), rng)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.Map{"treasury": total.StringFixed(2)})
}
