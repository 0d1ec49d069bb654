package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"shopledger/internal/log"
	"shopledger/internal/services"
	"shopledger/internal/validate"
)

type AuthHandler struct {
	Auth         *services.AuthService
	SecureCookie bool
}

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	ShopName  string `json:"shopName"`
	OwnerName string `json:"ownerName"`
	Mobile    string `json:"mobile"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) setSession(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  expires,
	})
}

// POST /api/users/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "email", "enter a valid email")
	}
	if !validate.Password(req.Password) {
		return badRequest(c, "password", "password needs 8-64 characters with upper, lower, digit and symbol")
	}
	shop, ok := validate.Name(req.ShopName)
	if !ok {
		return badRequest(c, "shopName", "shop name is required")
	}
	owner, ok := validate.Name(req.OwnerName)
	if !ok {
		return badRequest(c, "ownerName", "owner name is required")
	}
	mobile, ok := validate.Mobile(req.Mobile)
	if !ok {
		return badRequest(c, "mobile", "enter a valid mobile number")
	}

	u, err := h.Auth.Register(c.UserContext(), services.RegisterInput{
		Email: email, Password: req.Password, ShopName: shop, OwnerName: owner, Mobile: mobile,
	})
	if err != nil {
		return fail(c, "auth.register", err)
	}
	log.Audit(c, "auth.register", map[string]any{"email": u.Email, "shopkeeper": u.ID})
	return c.Status(fiber.StatusCreated).JSON(u)
}

// POST /api/users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	_ = c.BodyParser(&req)
	deny := func(reason string) error {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": reason})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if _, ok := validate.Email(req.Email); !ok {
		return deny("bad_format")
	}
	if !validate.Password(req.Password) {
		return deny("bad_password_format")
	}

	tok, u, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return deny("bad_credentials")
	}
	h.setSession(c, tok, time.Time{})
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email, "shopkeeper": u.ID})
	return c.JSON(fiber.Map{"token": tok, "shopkeeper": u})
}

// POST /api/users/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(c.UserContext(), token(c)); err != nil {
		log.Error(c, "auth.logout.fail", err, nil)
	}
	h.setSession(c, "", time.Now().Add(-time.Hour))
	log.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GET /api/users/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentShopkeeper(c))
}
