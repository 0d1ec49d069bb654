package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "shopledger/internal/log"
	"shopledger/internal/services"
	"shopledger/internal/validate"
)

type ListingHandler struct {
	Listing *services.ListingService
}

type resaleReq struct {
	ResaleQuantity *int             `json:"resaleQuantity"`
	ResalePrice    *decimal.Decimal `json:"resalePrice"`
}

type discountReq struct {
	Discount *decimal.Decimal `json:"discount"`
}

// PATCH /api/products/:id/resale
func (h *ListingHandler) Resale(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var req resaleReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if req.ResaleQuantity == nil {
		return badRequest(c, "resaleQuantity", "resaleQuantity is required")
	}
	if req.ResalePrice == nil || !validate.Money(*req.ResalePrice) {
		return badRequest(c, "resalePrice", "resalePrice must be a non-negative amount")
	}
	p, err := h.Listing.ListForResale(c.UserContext(), shopkeeperID(c), id, *req.ResaleQuantity, *req.ResalePrice)
	if err != nil {
		return fail(c, "listing.resale", err)
	}
	applog.Audit(c, "listing.resale", map[string]any{"product": id, "quantity": p.ResaleQuantity})
	return c.JSON(fiber.Map{"message": "Product listed for resale", "product": p})
}

// PATCH /api/products/:id/discount
func (h *ListingHandler) Discount(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var req discountReq
	if err := c.BodyParser(&req); err != nil || req.Discount == nil {
		return badRequest(c, "discount", "discount is required")
	}
	p, err := h.Listing.ListForDiscount(c.UserContext(), shopkeeperID(c), id, *req.Discount)
	if err != nil {
		return fail(c, "listing.discount", err)
	}
	applog.Audit(c, "listing.discount", map[string]any{"product": id, "discount": p.Discount.String()})
	return c.JSON(fiber.Map{"message": "Product listed for discount", "product": p})
}

// GET /api/products/resale
func (h *ListingHandler) ResaleListings(c *fiber.Ctx) error {
	out, err := h.Listing.ResaleListings(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "listing.resale.list", err)
	}
	return c.JSON(out)
}

// GET /api/products/near-expiry
func (h *ListingHandler) NearExpiry(c *fiber.Ctx) error {
	out, err := h.Listing.NearExpiry(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "listing.near_expiry", err)
	}
	return c.JSON(out)
}

// GET /api/products/expired
func (h *ListingHandler) Expired(c *fiber.Ctx) error {
	out, err := h.Listing.Expired(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "listing.expired", err)
	}
	return c.JSON(out)
}

// GET /api/products/discounted
func (h *ListingHandler) Discounted(c *fiber.Ctx) error {
	out, err := h.Listing.Discounted(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "listing.discounted", err)
	}
	return c.JSON(out)
}

// GET /api/products/discounted/all
func (h *ListingHandler) MarketplaceDiscounted(c *fiber.Ctx) error {
	out, err := h.Listing.MarketplaceDiscounted(c.UserContext())
	if err != nil {
		return fail(c, "marketplace.discounted", err)
	}
	return c.JSON(out)
}

// GET /api/products/nearby-resale
func (h *ListingHandler) MarketplaceResale(c *fiber.Ctx) error {
	out, err := h.Listing.MarketplaceResale(c.UserContext(), shopkeeperID(c))
	if err != nil {
		return fail(c, "marketplace.resale", err)
	}
	return c.JSON(out)
}
