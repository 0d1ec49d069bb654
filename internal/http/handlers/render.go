package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopledger/internal/domain"
	applog "shopledger/internal/log"
)

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindInvalidState, domain.KindEmptyResult:
		return fiber.StatusBadRequest
	case domain.KindDuplicate:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes a classified service error. Store failures are logged with
// their cause and answered with a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	kind := domain.KindOf(err)
	c.Status(statusFor(kind))
	if kind == domain.KindStoreFailure {
		applog.Error(c, action+".fail", err, nil)
	} else {
		applog.Info(c, action+".reject", map[string]any{"reason": domain.Message(err), "error_kind": string(kind)})
	}
	return c.JSON(fiber.Map{"error": domain.Message(err), "kind": kind})
}

// badRequest rejects malformed input before it reaches a service.
func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg, "kind": domain.KindInvalidState})
}

// ErrorHandler is the app-wide fallback. 5xx bodies never echo the error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	c.Status(code)
	if code < fiber.StatusInternalServerError {
		return c.JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.JSON(fiber.Map{"error": domain.Message(domain.StoreFailure(err))})
}
