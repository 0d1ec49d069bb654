package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shopledger/internal/cache"
	"shopledger/internal/clock"
	"shopledger/internal/config"
	"shopledger/internal/http/handlers"
	applog "shopledger/internal/log"
	"shopledger/internal/repos"
)

var t0 = time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC)

type testApp struct {
	app *fiber.App
	db  *sqlx.DB
	clk *clock.Fixed
}

// newTestApp wires the real routes over an in-memory database. Rate limiting
// is off unless a tweak turns it on.
func newTestApp(t *testing.T, tweaks ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := config.Config{Env: "test", DBDSN: ":memory:", BodyLimit: 1 << 20}
	for _, tw := range tweaks {
		tw(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clk := clock.NewFixed(t0)
	deps := handlers.NewDeps(db, cfg, cache.NewMemory(time.Minute), clk)
	return &testApp{app: handlers.NewApp(cfg, deps), db: db, clk: clk}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// signup registers a shopkeeper and returns a session token.
func (a *testApp) signup(t *testing.T, email, shop string) string {
	t.Helper()
	code, body := a.do(t, "POST", "/api/users/register", "", map[string]any{
		"email": email, "password": "Passw0rd!", "shopName": shop, "ownerName": "Owner of " + shop, "mobile": "9845012345",
	})
	require.Equal(t, fiber.StatusCreated, code, string(body))
	code, body = a.do(t, "POST", "/api/users/login", "", map[string]any{"email": email, "password": "Passw0rd!"})
	require.Equal(t, fiber.StatusOK, code, string(body))
	out := decode[struct {
		Token string `json:"token"`
	}](t, body)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

type errBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// captureLogs swaps the process logger for an in-memory observer.
func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := applog.L()
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(prev) })
	return logs
}
