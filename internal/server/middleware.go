package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/repo/storefront"
	pkgmdw "github.com/prairiegroup/storefront/internal/server/middleware"
	"github.com/prairiegroup/storefront/pkg/logger"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
)

// statusClientClosed is logged when the visitor went away mid-request.
const statusClientClosed = 499

// toHTTPError maps an error to the status and the single message shown to
// the visitor.
func toHTTPError(err error) *echo.HTTPError {
	var (
		he        *echo.HTTPError
		invalid   *models.ValidationError
		userErrs  *storefront.UserErrors
		gqlErr    *storefront.GraphQLError
		transport *storefront.TransportError
		platform  *storefront.PlatformError
		notFound  *models.NotFoundError
	)
	switch {
	case errors.As(err, &he):
		return he
	case errors.As(err, &invalid):
		return echo.NewHTTPError(http.StatusBadRequest, invalid.Message)
	case errors.As(err, &userErrs):
		return echo.NewHTTPError(http.StatusBadRequest, userErrs.Error())
	case errors.As(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound.Message)
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	case errors.Is(err, models.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(statusClientClosed, err.Error())
	case errors.As(err, &gqlErr):
		return echo.NewHTTPError(http.StatusBadRequest, gqlErr.Message)
	case errors.As(err, &transport):
		return echo.NewHTTPError(http.StatusBadRequest, transport.Error())
	case errors.As(err, &platform):
		return echo.NewHTTPError(http.StatusBadRequest, platform.Message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// formError maps the failure of a form submission. Whatever the platform or the
// session store failed with is shown to the customer with a 400.
func formError(err error) *echo.HTTPError {
	he := toHTTPError(err)
	if he.Code != http.StatusInternalServerError || errors.As(err, new(*echo.HTTPError)) {
		return he
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func errorMessage(he *echo.HTTPError) string {
	return fmt.Sprint(he.Message)
}

// wantsJSON reports whether the client asked for JSON rather than a page.
func wantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, apiPrefix) {
		return true
	}
	accept := req.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}

func errorHandler(r *Renderer) echo.HTTPErrorHandler {
	apiErrors := pkgmdw.ErrorHandler(logger.MustNamed("http"))
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		he := toHTTPError(err)
		ctx := c.Request().Context()
		if he.Code >= http.StatusInternalServerError {
			log.Errorw(ctx, "request failed", "error", err, "path", c.Path())
		}

		if strings.HasPrefix(c.Request().URL.Path, apiPrefix) {
			apiErrors(he, c)
			return
		}

		msg := errorMessage(he)
		switch {
		case c.Request().Method == http.MethodHead:
			err = c.NoContent(he.Code)
		case wantsJSON(c):
			err = c.JSON(he.Code, map[string]string{"error": msg})
		default:
			err = c.Render(he.Code, "error", r.errorPage(c, he.Code, msg))
		}
		if err != nil {
			log.Errorw(ctx, "could not write error response", "code", he.Code, "error", err)
		}
	}
}
