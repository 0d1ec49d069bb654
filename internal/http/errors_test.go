package handlers_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/http/handlers"
)

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	logs := captureLogs(t)
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "something went wrong")
	assert.NotContains(t, string(body), "secret")
	require.Len(t, logs.FilterMessage("server.error").All(), 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "short and stout")
}

func TestStoreFailureHidesCause(t *testing.T) {
	a := newTestApp(t)
	tok := a.signup(t, "asha@shopledger.test", "Asha Stores")
	_, err := a.db.Exec(`DROP TABLE products`)
	require.NoError(t, err)
	logs := captureLogs(t)

	code, body := a.do(t, "GET", "/api/products", tok, nil)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	e := decode[errBody](t, body)
	assert.Equal(t, "store_failure", e.Kind)
	assert.NotContains(t, e.Error, "products")

	fails := logs.FilterMessage("stock.list.fail").All()
	require.Len(t, fails, 1)
	assert.Contains(t, fails[0].ContextMap()["error"], "products")
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	a := newTestApp(t)
	code, body := a.do(t, "GET", "/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"not found"}`, string(body))
}
