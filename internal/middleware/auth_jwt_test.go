package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func doRequest(authz string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	h := func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	_ = h(c)
	if captured == nil {
		captured = c
	}
	return rec, captured
}

func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	now := time.Now()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "7",
		"role": "customer",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	})

	rec, c := doRequest("Bearer "+token, middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), c.Get(middleware.CtxUserIDKey))
	assert.Equal(t, "customer", c.Get(middleware.CtxUserRoleKey))
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, _ := doRequest("", middleware.AuthJWT(config.Config{JWTSecret: testSecret}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	rec, _ := doRequest("Basic abc123", middleware.AuthJWT(config.Config{JWTSecret: testSecret}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token := signToken(t, "another-secret", jwt.MapClaims{
		"sub": "7", "role": "customer", "exp": time.Now().Add(time.Hour).Unix(),
	})
	rec, _ := doRequest("Bearer "+token, middleware.AuthJWT(config.Config{JWTSecret: testSecret}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "7", "role": "customer", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	rec, _ := doRequest("Bearer "+token, middleware.AuthJWT(config.Config{JWTSecret: testSecret}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_MissingRole(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "7", "exp": time.Now().Add(time.Hour).Unix(),
	})
	rec, _ := doRequest("Bearer "+token, middleware.AuthJWT(config.Config{JWTSecret: testSecret}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleGuard_AdminAllowed(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := doRequest("Bearer "+token, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoleGuard_CustomerForbidden(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "7", "role": "customer", "exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := doRequest("Bearer "+token, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_NoRoleInContext(t *testing.T) {
	rec, _ := doRequest("", middleware.AdminRoleGuard())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
