package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken(42, "somchai@example.com", "customer", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *Claims
	handler := JWTMiddleware()(func(c echo.Context) error {
		got = GetClaims(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "somchai@example.com", got.Email)
	assert.Equal(t, "customer", got.Role)
}

func TestJWTMiddlewareRejectsBadHeaders(t *testing.T) {
	SetSecret("test-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := JWTMiddleware()(func(c echo.Context) error {
				t.Fatal("handler should not run")
				return nil
			})

			require.NoError(t, handler(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWTMiddlewareRejectsWrongSecret(t *testing.T) {
	SetSecret("first-secret")
	token, err := GenerateToken(1, "a@example.com", "customer", 1)
	require.NoError(t, err)

	SetSecret("second-secret")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware()(func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()

	run := func(claims *Claims) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if claims != nil {
			c.Set("auth_claims", claims)
		}
		handler := AdminOnly(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
		return rec
	}

	assert.Equal(t, http.StatusForbidden, run(nil).Code)
	assert.Equal(t, http.StatusForbidden, run(&Claims{Role: "customer"}).Code)
	assert.Equal(t, http.StatusOK, run(&Claims{Role: "admin"}).Code)
}
