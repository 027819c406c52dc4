package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storeorders/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func mustMakeJWT(t *testing.T, secret string, sub interface{}, role string, signingMethod jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  1,
		"exp":  9999999999,
	}

	s, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runRequest(t *testing.T, e *echo.Echo, path string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

func whoami(c echo.Context) error {
	userID, _ := c.Get(CtxUserIDKey).(int64)
	role, _ := c.Get(CtxUserRoleKey).(string)
	return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role})
}

func newProtected(cfg config.Config, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	mws := append([]echo.MiddlewareFunc{AuthJWT(cfg)}, extra...)
	e.GET("/protected", whoami, mws...)
	return e
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_Unauthorized(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"bad scheme", "Token abc.def.ghi"},
		{"empty bearer", "Bearer   "},
		{"bad signature", "Bearer " + mustMakeJWT(t, "wrong-secret", 1, "ADMIN", jwt.SigningMethodHS256)},
		{"wrong alg", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "ADMIN", jwt.SigningMethodHS512)},
		{"zero sub", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 0, "ADMIN", jwt.SigningMethodHS256)},
		{"bad sub", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, "abc", "ADMIN", jwt.SigningMethodHS256)},
		{"no role", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "", jwt.SigningMethodHS256)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runRequest(t, newProtected(cfg), "/protected", tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
		})
	}
}

func TestAuthJWT_Success_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	raw := mustMakeJWT(t, cfg.JWTSecret, 123, "admin", jwt.SigningMethodHS256)

	rec := runRequest(t, newProtected(cfg), "/protected", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "ADMIN", body.Role)
}

func TestAuthJWT_StringSub(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	raw := mustMakeJWT(t, cfg.JWTSecret, "42", "OWNER", jwt.SigningMethodHS256)

	rec := runRequest(t, newProtected(cfg), "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// WebSocket用のクエリトークン
func TestAuthJWT_QueryToken(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	raw := mustMakeJWT(t, cfg.JWTSecret, 7, "STAFF", jwt.SigningMethodHS256)

	rec := runRequest(t, newProtected(cfg), "/protected?access_token="+raw, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =====================
// RoleGuard
// =====================

func TestRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	cases := []struct {
		role string
		want int
	}{
		{"OWNER", http.StatusOK},
		{"ADMIN", http.StatusOK},
		{"STAFF", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			raw := mustMakeJWT(t, cfg.JWTSecret, 1, tc.role, jwt.SigningMethodHS256)
			rec := runRequest(t, newProtected(cfg, RoleGuard(AdminRoles...)), "/protected", "Bearer "+raw)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

// AuthJWT無しでGuardだけ => 401
func TestRoleGuard_MissingContext(t *testing.T) {
	e := echo.New()
	e.GET("/protected", whoami, RoleGuard(AdminRoles...))

	rec := runRequest(t, e, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// RequestLogger
// =====================

func TestRequestLogger_WritesEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	rec := runRequest(t, e, "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ping", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, "info", entry["level"])

	buf.Reset()
	rec = runRequest(t, e, "/boom", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)

	entry = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
}
