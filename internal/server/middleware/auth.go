package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/session"
)

const CustomerTokenKey = "customer_token"

// CustomerAuth lets a request through only when its session carries a live
// customer access token. Otherwise onMissing answers the request; a nil
// onMissing fails with models.ErrUnauthorized. An expired token is dropped
// from the session on the way.
func CustomerAuth(onMissing echo.HandlerFunc) echo.MiddlewareFunc {
	if onMissing == nil {
		onMissing = func(c echo.Context) error {
			return models.ErrUnauthorized
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.FromContext(c)
			token := sess.AccessToken()
			if token == nil {
				return onMissing(c)
			}

			if token.Expired(time.Now()) {
				sess.Unset(models.SessionAccessTokenKey)
				if err := session.Commit(c); err != nil {
					return err
				}
				return onMissing(c)
			}

			// Store the token in context for downstream handlers
			c.Set(CustomerTokenKey, *token)
			return next(c)
		}
	}
}

// CustomerToken returns the token stored by CustomerAuth.
func CustomerToken(c echo.Context) (models.CustomerAccessToken, bool) {
	token, ok := c.Get(CustomerTokenKey).(models.CustomerAccessToken)
	return token, ok
}
