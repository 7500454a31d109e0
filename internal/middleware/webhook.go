package middleware

import (
	"crypto/subtle"

	"cascade/internal/logger"
	"cascade/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// WebhookSecretHeader carries the shared secret of trade webhooks.
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookSecret rejects requests whose secret header does not match. An
// empty secret disables the check.
func WebhookSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		got := c.Get(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			logger.L.Warnf("Rejected webhook from %s: bad secret", c.IP())
			return utils.Unauthorized(c, "invalid webhook secret")
		}
		return c.Next()
	}
}
