package middleware

import (
	"buyback-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const operatorKeyHeader = "X-Operator-Key"

// RequireOwner gates owner-only routes. The caller presents the operator key
// in a header; it is verified against the configured bcrypt hash.
func RequireOwner(ownerKeyHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ownerKeyHash == "" {
			return response.Error(c, "Owner key not configured", fiber.StatusInternalServerError, nil)
		}
		key := c.Get(operatorKeyHeader)
		if key == "" {
			return response.Unauthorized(c, "Unauthorized")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(ownerKeyHash), []byte(key)); err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}
