package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopledger/internal/log"
	"shopledger/internal/services"
	"shopledger/internal/validate"
)

type CategoryHandler struct {
	Cats *services.CategoryService
}

// POST /api/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "name", "name is required")
	}
	cat, err := h.Cats.Create(c.UserContext(), shopkeeperID(c), name)
	if err != nil {
		return fail(c, "category.create", err)
	}
	applog.Audit(c, "category.create", map[string]any{"category": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.Cats.List(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "category.list", err)
	}
	return c.JSON(out)
}
