package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopledger/internal/services"
)

type ReportHandler struct {
	Report *services.ReportService
}

// GET /api/products/sales/summary
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.Report.Summary(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "report.summary", err)
	}
	return c.JSON(out)
}

// GET /api/products/sales/salewise
func (h *ReportHandler) Salewise(c *fiber.Ctx) error {
	out, err := h.Report.Salewise(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "report.salewise", err)
	}
	return c.JSON(out)
}

// GET /api/products/sales/productwise
func (h *ReportHandler) ProductWise(c *fiber.Ctx) error {
	out, err := h.Report.ProductWise(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "report.productwise", err)
	}
	return c.JSON(out)
}
