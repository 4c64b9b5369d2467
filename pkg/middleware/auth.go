package middleware

import (
	"strings"

	"oscar/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionIDKey is the fiber Locals key holding the authenticated session id.
const SessionIDKey = "sessionID"

// SessionMiddleware requires a bearer token issued for a chat session.
func SessionMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			logger.Debug("Missing session token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session token required",
			})
		}

		if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
			token = token[7:]
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid session token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session token",
			})
		}

		c.Locals(SessionIDKey, claims.SessionID)
		return c.Next()
	}
}
