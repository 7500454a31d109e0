package handlers

import (
	"cascade/internal/services/trade"
	"cascade/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TradeHandler struct {
	trades trade.Service
}

func NewTradeHandler(trades trade.Service) *TradeHandler {
	return &TradeHandler{trades: trades}
}

// Webhook records a fee event pushed by the trading venue. Replays of a
// known tradeId answer 200 with the stored trade.
func (h *TradeHandler) Webhook(c *fiber.Ctx) error {
	var req trade.TradeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	result, err := h.trades.Record(c.UserContext(), req)
	if err != nil {
		return utils.FromError(c, err)
	}
	if result.Duplicate {
		return utils.Success(c, result)
	}
	return utils.Created(c, result)
}
