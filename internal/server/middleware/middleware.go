// Package middleware holds the echo middlewares and helpers shared by the
// storefront's page and API routes.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Skipper reports whether a middleware leaves the request alone.
type Skipper func(c echo.Context) bool

func DefaultSkipper(echo.Context) bool {
	return false
}

// Response is the JSON envelope of the /api routes. Status is the HTTP status
// it is written with.
type Response struct {
	Status       int    `json:"-"`
	Success      bool   `json:"success"`
	Data         any    `json:"data,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func OK(data any) *Response {
	return &Response{Status: http.StatusOK, Success: true, Data: data}
}

func Failed(status int, msg string) *Response {
	return &Response{Status: status, ErrorMessage: msg}
}
