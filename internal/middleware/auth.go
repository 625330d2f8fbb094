package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/novawear/internal/config"
	"github.com/example/novawear/internal/models"
	"github.com/example/novawear/internal/repository"
	"github.com/example/novawear/internal/utils"
)

const userContextKey = "currentUser"

// AuthMiddleware validates the bearer session token and loads the
// authenticated user into the request context. A valid token whose subject
// no longer exists is rejected, so deleted accounts lose access immediately.
func AuthMiddleware(cfg *config.Config, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		user, err := users.FindByID(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized")
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// RequireAdmin allows only admin users past. It must run after
// AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetCurrentUser(c)
		if !ok || !user.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

// GetCurrentUser extracts the authenticated user from the request context.
func GetCurrentUser(c *fiber.Ctx) (*models.User, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return nil, false
	}

	if user, ok := value.(*models.User); ok {
		return user, true
	}

	return nil, false
}
