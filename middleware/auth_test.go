package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const secret = "unit-test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func authApp() *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(secret))
	app.Get("/me", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"userID": ctx.Locals("userID"), "username": ctx.Locals("username")})
	})
	return app
}

func get(t *testing.T, app *fiber.App, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	app := authApp()
	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"user_id": 7, "username": "dispatch", "exp": time.Now().Add(time.Hour).Unix(),
	})

	status, body := get(t, app, "Bearer "+valid)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"userID":7,"username":"dispatch"}`, body)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + valid,
		"garbage token":  "Bearer abc.def.ghi",
		"wrong secret": "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{
			"user_id": 7, "exp": time.Now().Add(time.Hour).Unix(),
		}),
		"expired": "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
			"user_id": 7, "exp": time.Now().Add(-time.Minute).Unix(),
		}),
		"no user id": "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
			"username": "dispatch", "exp": time.Now().Add(time.Hour).Unix(),
		}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := get(t, app, header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, body, `"error"`)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })
	app.Get("/bad", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusBadRequest) })
	app.Get("/boom", func(ctx *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "upstream") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.Header.Get(fiber.HeaderXRequestID))

	for _, path := range []string{"/bad", "/boom"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.EqualValues(t, fiber.StatusBadGateway, entries[2].ContextMap()["status"])
}
