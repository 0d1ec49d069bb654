package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopledger/internal/log"
	"shopledger/internal/services"
	"shopledger/internal/validate"
)

type InterestHandler struct {
	Interest *services.InterestService
}

// POST /api/products/:id/interested
func (h *InterestHandler) Register(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	u, err := h.Interest.RegisterInterest(c.UserContext(), shopkeeperID(c), pid)
	if err != nil {
		return fail(c, "interest.register", err)
	}
	applog.Audit(c, "interest.register", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"message": "Interest recorded successfully.", "interest": u})
}

// GET /api/products/:id/interested
func (h *InterestHandler) List(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	out, err := h.Interest.Interested(c.UserContext(), shopkeeperID(c), pid)
	if err != nil {
		return fail(c, "interest.list", err)
	}
	return c.JSON(out)
}
