package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "shopledger/internal/log"
	"shopledger/internal/services"
	"shopledger/internal/validate"
)

type SaleHandler struct {
	Sale *services.SaleService
}

type saleReq struct {
	Name      string           `json:"name"`
	Mrp       *decimal.Decimal `json:"mrp"`
	CostPrice *decimal.Decimal `json:"costPrice"`
	Quantity  int              `json:"quantity"`
}

// POST /api/products/sold
func (h *SaleHandler) Record(c *fiber.Ctx) error {
	var req saleReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "name", "name is required")
	}
	if req.Mrp == nil || !validate.Money(*req.Mrp) {
		return badRequest(c, "mrp", "mrp must be a non-negative amount")
	}
	if req.CostPrice == nil || !validate.Money(*req.CostPrice) {
		return badRequest(c, "costPrice", "costPrice must be a non-negative amount")
	}
	if !validate.Qty(req.Quantity) {
		return badRequest(c, "quantity", "quantity must be a whole number")
	}

	sold, p, err := h.Sale.RecordSale(c.UserContext(), shopkeeperID(c), services.RecordSaleInput{
		Name: name, Mrp: *req.Mrp, CostPrice: *req.CostPrice, Quantity: req.Quantity,
	})
	if err != nil {
		return fail(c, "sale.record", err)
	}
	applog.Audit(c, "sale.record", map[string]any{
		"sale":      sold.ID,
		"product":   p.ID,
		"quantity":  sold.Quantity,
		"remaining": p.Quantity,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "sold": sold, "product": p})
}
