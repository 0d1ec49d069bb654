package log

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteCarriesRequestContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("shopkeeperID", "sk-1")
		Audit(c, "thing.done", map[string]any{"n": 2})
		Security(c, "thing.denied", nil)
		Error(c, "thing.fail", errors.New("boom"), nil)
		return c.SendStatus(fiber.StatusNoContent)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)

	require.Equal(t, 3, logs.Len())
	all := logs.All()

	audit := all[0].ContextMap()
	assert.Equal(t, "audit", audit["kind"])
	assert.Equal(t, "/x", audit["path"])
	assert.Equal(t, "GET", audit["method"])
	assert.Equal(t, "sk-1", audit["user_id"])
	assert.NotEmpty(t, audit["req_id"])
	assert.EqualValues(t, 2, audit["n"])

	assert.Equal(t, zapcore.WarnLevel, all[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, all[2].Level)
	assert.Equal(t, "boom", all[2].ContextMap()["error"])
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetLogger(prev) })

	_, err := Init("development", "loud", "")
	assert.Error(t, err)

	l, err := Init("production", "warn", "")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.Same(t, l, L())
}
