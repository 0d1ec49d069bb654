package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "shopledger/internal/log"
	"shopledger/internal/services"
	"shopledger/internal/validate"
)

type ProductHandler struct {
	Stock *services.StockService
}

type addStockReq struct {
	Name       string           `json:"name"`
	Category   string           `json:"category"`
	Mrp        *decimal.Decimal `json:"mrp"`
	CostPrice  *decimal.Decimal `json:"costPrice"`
	Quantity   *int             `json:"quantity"`
	ExpiryDate string           `json:"expiryDate"`
	Discount   decimal.Decimal  `json:"discount"`
}

// POST /api/products
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	var req addStockReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "name", "name is required")
	}
	if req.Category != "" {
		if _, ok := validate.ID(req.Category); !ok {
			return badRequest(c, "category", "invalid category")
		}
	}
	if req.Mrp == nil || !validate.Money(*req.Mrp) {
		return badRequest(c, "mrp", "mrp must be a non-negative amount")
	}
	if req.CostPrice == nil || !validate.Money(*req.CostPrice) {
		return badRequest(c, "costPrice", "costPrice must be a non-negative amount")
	}
	if req.Quantity == nil || !validate.Qty(*req.Quantity) {
		return badRequest(c, "quantity", "quantity must be a non-negative whole number")
	}
	exp, ok := validate.Date(req.ExpiryDate)
	if !ok {
		return badRequest(c, "expiryDate", "expiryDate must be YYYY-MM-DD or RFC 3339")
	}

	p, merged, err := h.Stock.AddStock(c.UserContext(), shopkeeperID(c), services.AddStockInput{
		Name:       name,
		CategoryID: req.Category,
		Mrp:        *req.Mrp,
		CostPrice:  *req.CostPrice,
		Quantity:   *req.Quantity,
		ExpiryDate: exp,
		Discount:   req.Discount,
	})
	if err != nil {
		return fail(c, "stock.add", err)
	}
	applog.Audit(c, "stock.add", map[string]any{"product": p.ID, "quantity": *req.Quantity, "merged": merged})
	if merged {
		return c.JSON(p)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.Stock.ListProducts(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "stock.list", err)
	}
	return c.JSON(out)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	p, err := h.Stock.DeleteProduct(c.UserContext(), shopkeeperID(c), id)
	if err != nil {
		return fail(c, "stock.delete", err)
	}
	applog.Audit(c, "stock.delete", map[string]any{"product": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully", "product": p})
}
