package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func zapNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

type handleRequest struct {
	Handle string `param:"handle" validate:"required,handle"`
}

func newWrapEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(zapNop())
	return e
}

func TestWrapHandler(t *testing.T) {
	e := newWrapEcho()
	e.GET("/collections/:handle", WrapHandler(func(c echo.Context, req handleRequest) (map[string]string, error) {
		if req.Handle == "missing" {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Collection missing not found")
		}
		return map[string]string{"handle": req.Handle}, nil
	}))
	e.GET("/collections/:handle/envelope", WrapHandler(func(c echo.Context, req handleRequest) (*Response, error) {
		return &Response{Status: http.StatusAccepted, Success: true, Data: req.Handle}, nil
	}))

	t.Run("wraps data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collections/motors", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"data":{"handle":"motors"}}`, rec.Body.String())
	})

	t.Run("invalid params", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collections/Not_A_Handle", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"success":false,"error_message":"handle is invalid"}`, rec.Body.String())
	})

	t.Run("handler error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collections/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"success":false,"error_message":"Collection missing not found"}`, rec.Body.String())
	})

	t.Run("response written as is", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collections/motors/envelope", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"success":true,"data":"motors"}`, rec.Body.String())
	})

	t.Run("head gets no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/nowhere", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("no route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"success":false,"error_message":"no route matched"}`, rec.Body.String())
	})
}
