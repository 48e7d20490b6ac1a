package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func token(t *testing.T, secret, role string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "user-1"}
	if role != "" {
		claims["role"] = role
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newRouter(auth *Auth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/owner", auth.RequireRole(RoleOwner), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserRole))
	})
	r.GET("/any", auth.RequireRole(RoleOwner, RoleStaff), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserRole))
	})
	return r
}

func do(r http.Handler, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func TestRequireRole(t *testing.T) {
	r := newRouter(NewAuth("secret", true))

	rr := do(r, "/any", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(r, "/any", func(req *http.Request) { req.Header.Set("Authorization", "Token abc") })
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(r, "/any", bearer(token(t, "other-secret", RoleOwner)))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(r, "/any", bearer(token(t, "secret", "")))
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(r, "/owner", bearer(token(t, "secret", RoleStaff)))
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Contains(t, rr.Body.String(), "insufficient permissions")

	rr = do(r, "/any", bearer(token(t, "secret", RoleStaff)))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, RoleStaff, rr.Body.String())

	rr = do(r, "/owner", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token(t, "secret", RoleOwner)})
	})
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRoleDisabled(t *testing.T) {
	r := newRouter(NewAuth("", false))
	rr := do(r, "/owner", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, RoleOwner, rr.Body.String())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	do(r, "/missing", nil)
	require.Contains(t, buf.String(), `"level":"warn"`)
	require.Contains(t, buf.String(), `"status":404`)
	require.Contains(t, buf.String(), `"path":"/missing"`)
}
