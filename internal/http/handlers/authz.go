package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopledger/internal/domain"
	applog "shopledger/internal/log"
	"shopledger/internal/services"
)

const sessionCookie = "sid"

// token reads the session token from the Authorization header, falling back
// to the session cookie.
func token(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	return c.Cookies(sessionCookie)
}

// RequireShopkeeper rejects requests without a live session and stores the
// caller under the "shopkeeper" and "shopkeeperID" locals.
func RequireShopkeeper(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := token(c)
		if tok == "" {
			applog.Security(c, "access.denied", map[string]any{"reason": "no_token"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		u, err := auth.CurrentUser(c.UserContext(), tok)
		if err != nil || u == nil {
			applog.Security(c, "access.denied", map[string]any{"reason": "bad_token"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		c.Locals("shopkeeper", u)
		c.Locals("shopkeeperID", u.ID)
		return c.Next()
	}
}

func shopkeeperID(c *fiber.Ctx) string {
	id, _ := c.Locals("shopkeeperID").(string)
	return id
}

func currentShopkeeper(c *fiber.Ctx) *domain.Shopkeeper {
	u, _ := c.Locals("shopkeeper").(*domain.Shopkeeper)
	return u
}
