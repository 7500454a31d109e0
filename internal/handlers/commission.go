package handlers

import (
	"strconv"

	"cascade/internal/services/commission"
	"cascade/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CommissionHandler struct {
	calc *commission.Calculator
}

func NewCommissionHandler(calc *commission.Calculator) *CommissionHandler {
	return &CommissionHandler{calc: calc}
}

// Preview shows how a fee would be split. levels (0-3, default 3) is the
// number of referrers above the trader.
func (h *CommissionHandler) Preview(c *fiber.Ctx) error {
	fees, err := commission.ParseFee(c.Query("fees"))
	if err != nil {
		return utils.FromError(c, err)
	}

	levels := commission.Levels
	if v := c.Query("levels"); v != "" {
		if levels, err = strconv.Atoi(v); err != nil {
			return utils.BadRequest(c, "levels must be a number")
		}
	}

	dist, err := h.calc.Distribute(fees, commission.Recipients{Levels: levels, Referred: levels > 0})
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"distribution": dist,
		"rates":        h.calc.Rates(),
	})
}
