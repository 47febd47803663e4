package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Use(Middleware())
	e.GET("/test", handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_NoError(t *testing.T) {
	rec := performRequest(t, func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMiddleware_StructuredError(t *testing.T) {
	rec := performRequest(t, func(c echo.Context) error {
		return NotFoundError("product not found").WithField("product_id", int64(7))
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "product not found", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.EqualValues(t, 7, resp.Context["product_id"])
}

func TestMiddleware_PlainErrorBecomesInternal(t *testing.T) {
	rec := performRequest(t, func(c echo.Context) error {
		return errors.New("boom")
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, TypeInternal, resp.Type)
	// The raw cause must not leak to clients.
	assert.NotContains(t, resp.Error, "boom")
}

func TestMiddleware_EchoHTTPErrorPassesThrough(t *testing.T) {
	rec := performRequest(t, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestWrapHTTPError_StatusMapping(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{http.StatusBadRequest, TypeValidation},
		{http.StatusNotFound, TypeNotFound},
		{http.StatusConflict, TypeConflict},
		{http.StatusBadGateway, TypeExternal},
		{http.StatusServiceUnavailable, TypeExternal},
		{http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		wrapped := WrapHTTPError(echo.NewHTTPError(tt.code, "msg"))
		assert.Equal(t, tt.want, wrapped.Type, "status %d", tt.code)
	}
}
