package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// WrapHandler binds and validates the request into a Req, calls fn and writes
// its result as a successful Response. A *Response result is written as is.
func WrapHandler[Req, Res any](fn func(echo.Context, Req) (Res, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req Req
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}

		res, err := fn(c, req)
		if err != nil {
			return err
		}
		if c.Response().Committed {
			return nil
		}

		resp, ok := any(res).(*Response)
		if !ok || resp == nil {
			resp = OK(res)
		}
		if resp.Status == 0 {
			resp.Status = http.StatusOK
		}
		return c.JSON(resp.Status, resp)
	}
}
