package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusClientClosed is written when the caller went away mid-request.
const statusClientClosed = 499

// ErrorHandler writes err as a failed Response. Errors other than
// *echo.HTTPError become a 500 without their message.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := Failed(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			resp = Failed(he.Code, fmt.Sprint(he.Message))
		case errors.Is(err, context.Canceled) && errors.Is(c.Request().Context().Err(), context.Canceled):
			resp = Failed(statusClientClosed, err.Error())
		}

		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not write error response", "status", resp.Status, "path", c.Path(), "error", err)
		}
	}
}
