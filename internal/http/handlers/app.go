package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"shopledger/internal/config"
	applog "shopledger/internal/log"
	"shopledger/internal/metrics"
)

// NewApp builds the Fiber app with middleware and every route mounted.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "shopledger",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	app.Use(requestid.New())
	if cfg.Env != "test" {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	if cfg.RateLimitPerMin > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMin,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				p := c.Path()
				return p == "/healthz" || strings.HasPrefix(p, "/metrics")
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		}))
	}
	app.Use(metrics.Middleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := d.DB.PingContext(c.UserContext()); err != nil {
			applog.Error(c, "health.db", err, nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/metrics", metrics.Handler())

	Mount(app, d)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app
}

// Mount registers the /api routes.
func Mount(r fiber.Router, d *Deps) {
	authed := RequireShopkeeper(d.Auth)

	users := r.Group("/api/users")
	users.Post("/register", d.AuthHandler.Register)
	users.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	users.Post("/logout", authed, d.AuthHandler.Logout)
	users.Get("/me", authed, d.AuthHandler.Me)

	products := r.Group("/api/products", authed)
	products.Post("/", d.ProductHandler.Add)
	products.Get("/", d.ProductHandler.List)

	products.Get("/resale", d.ListingHandler.ResaleListings)
	products.Get("/near-expiry", d.ListingHandler.NearExpiry)
	products.Get("/expired", d.ListingHandler.Expired)
	products.Get("/discounted", d.ListingHandler.Discounted)
	products.Get("/discounted/all", d.ListingHandler.MarketplaceDiscounted)
	products.Get("/nearby-resale", d.ListingHandler.MarketplaceResale)

	products.Post("/sold", d.SaleHandler.Record)
	products.Get("/sales/summary", d.ReportHandler.Summary)
	products.Get("/sales/salewise", d.ReportHandler.Salewise)
	products.Get("/sales/productwise", d.ReportHandler.ProductWise)

	products.Delete("/:id", d.ProductHandler.Delete)
	products.Patch("/:id/resale", d.ListingHandler.Resale)
	products.Patch("/:id/discount", d.ListingHandler.Discount)
	products.Post("/:id/interested", d.InterestHandler.Register)
	products.Get("/:id/interested", d.InterestHandler.List)

	cats := r.Group("/api/categories", authed)
	cats.Post("/", d.CategoryHandler.Create)
	cats.Get("/", d.CategoryHandler.List)
}
