package session

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

const (
	contextKey = "session"
	storeKey   = "session_store"
)

// Middleware loads the visitor's session before the handler runs.
func Middleware(store Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := store.Load(c.Request().Context(), c.Request())
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			c.Set(contextKey, sess)
			c.Set(storeKey, store)
			return next(c)
		}
	}
}

// FromContext returns the request session, or an empty one when the
// middleware did not run.
func FromContext(c echo.Context) *Session {
	if sess, ok := c.Get(contextKey).(*Session); ok {
		return sess
	}
	sess := New()
	c.Set(contextKey, sess)
	return sess
}

// Commit persists the session and sets its cookie on the response.
func Commit(c echo.Context) error {
	store, ok := c.Get(storeKey).(Store)
	if !ok {
		return fmt.Errorf("commit session: no session store")
	}
	cookie, err := store.Commit(c.Request().Context(), FromContext(c))
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}

// Destroy drops the session and clears its cookie.
func Destroy(c echo.Context) error {
	store, ok := c.Get(storeKey).(Store)
	if !ok {
		return fmt.Errorf("destroy session: no session store")
	}
	cookie, err := store.Destroy(c.Request().Context(), FromContext(c))
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}
