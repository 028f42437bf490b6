package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prairiegroup/storefront/internal/models"
	pkgmdw "github.com/prairiegroup/storefront/internal/server/middleware"
	"github.com/prairiegroup/storefront/internal/session"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
)

const (
	accountPath = "/account"
	loginPath   = "/account/login"
)

// accountData is shared by the account pages. Passwords never travel back to
// the browser. Action is the form target of the reset and activation pages.
type accountData struct {
	Customer  *models.Customer `json:"customer,omitempty"`
	Email     string           `json:"email,omitempty"`
	FirstName string           `json:"firstName,omitempty"`
	LastName  string           `json:"lastName,omitempty"`
	Action    string           `json:"-"`
	Requested bool             `json:"requested,omitempty"`
	Saved     bool             `json:"saved,omitempty"`
}

func loggedIn(c echo.Context) bool {
	return session.FromContext(c).AccessToken() != nil
}

// signIn stores token in the session. The caller redirects once it is saved.
func signIn(c echo.Context, token *models.CustomerAccessToken) error {
	if err := session.FromContext(c).SetAccessToken(*token); err != nil {
		return err
	}
	return session.Commit(c)
}

// signOut drops a token the platform no longer accepts.
func signOut(c echo.Context) error {
	session.FromContext(c).Unset(models.SessionAccessTokenKey)
	return session.Commit(c)
}

func redirectToLogin(c echo.Context) error {
	return c.Redirect(http.StatusFound, loginPath)
}

func (h *controller) Account(c echo.Context) error {
	token, _ := pkgmdw.CustomerToken(c)
	layout := startLayout(c, h.catalog)

	customer, err := h.account.Customer(c.Request().Context(), token)
	if errors.Is(err, models.ErrUnauthorized) {
		if err := signOut(c); err != nil {
			return err
		}
		return redirectToLogin(c)
	}
	if err != nil {
		return err
	}

	return h.render(c, http.StatusOK, "account", layout, page{
		Title: "Account",
		Data:  accountData{Customer: customer},
	})
}

func (h *controller) LoginPage(c echo.Context) error {
	if loggedIn(c) {
		return c.Redirect(http.StatusFound, accountPath)
	}
	return h.render(c, http.StatusOK, "login", startLayout(c, h.catalog), page{Title: "Sign in"})
}

func (h *controller) Login(c echo.Context) error {
	var form models.LoginForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	token, err := h.account.Login(c.Request().Context(), form)
	if err == nil {
		err = signIn(c, token)
	}
	if err != nil {
		return h.formFailed(c, "login", nil, page{
			Title: "Sign in",
			Data:  accountData{Email: form.Email},
		}, err)
	}
	return c.Redirect(http.StatusFound, accountPath)
}

func (h *controller) Logout(c echo.Context) error {
	if token := session.FromContext(c).AccessToken(); token != nil {
		h.account.Logout(c.Request().Context(), *token)
	}
	if err := session.Destroy(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *controller) RegisterPage(c echo.Context) error {
	if loggedIn(c) {
		return c.Redirect(http.StatusFound, accountPath)
	}
	return h.render(c, http.StatusOK, "register", startLayout(c, h.catalog), page{Title: "Register"})
}

func (h *controller) Register(c echo.Context) error {
	var form models.RegisterForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	token, err := h.account.Register(c.Request().Context(), form)
	if err == nil {
		err = signIn(c, token)
	}
	if err != nil {
		return h.formFailed(c, "register", nil, page{
			Title: "Register",
			Data:  accountData{Email: form.Email, FirstName: form.FirstName, LastName: form.LastName},
		}, err)
	}
	return c.Redirect(http.StatusFound, accountPath)
}

func (h *controller) RecoverPage(c echo.Context) error {
	if loggedIn(c) {
		return c.Redirect(http.StatusFound, accountPath)
	}
	return h.render(c, http.StatusOK, "recover", startLayout(c, h.catalog), page{Title: "Forgot password"})
}

func (h *controller) Recover(c echo.Context) error {
	var form models.RecoverForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	p := page{Title: "Forgot password", Data: accountData{Email: form.Email}}
	if err := h.account.Recover(c.Request().Context(), form); err != nil {
		return h.formFailed(c, "recover", nil, p, err)
	}
	p.Data = accountData{Email: form.Email, Requested: true}
	return h.render(c, http.StatusOK, "recover", nil, p)
}

func (h *controller) ResetPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "reset", startLayout(c, h.catalog), page{
		Title: "Reset password",
		Data:  accountData{Action: c.Request().URL.Path},
	})
}

func (h *controller) Reset(c echo.Context) error {
	var form models.PasswordForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	token, err := h.account.Reset(c.Request().Context(), c.Param("id"), c.Param("resetToken"), form)
	if err == nil {
		err = signIn(c, token)
	}
	if err != nil {
		return h.formFailed(c, "reset", nil, page{
			Title: "Reset password",
			Data:  accountData{Action: c.Request().URL.Path},
		}, err)
	}
	return c.Redirect(http.StatusFound, accountPath)
}

func (h *controller) ActivatePage(c echo.Context) error {
	if loggedIn(c) {
		return c.Redirect(http.StatusFound, accountPath)
	}
	return h.render(c, http.StatusOK, "activate", startLayout(c, h.catalog), page{
		Title: "Activate account",
		Data:  accountData{Action: c.Request().URL.Path},
	})
}

func (h *controller) Activate(c echo.Context) error {
	var form models.PasswordForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	token, err := h.account.Activate(c.Request().Context(), c.Param("id"), c.Param("activationToken"), form)
	if err == nil {
		err = signIn(c, token)
	}
	if err != nil {
		return h.formFailed(c, "activate", nil, page{
			Title: "Activate account",
			Data:  accountData{Action: c.Request().URL.Path},
		}, err)
	}
	return c.Redirect(http.StatusFound, accountPath)
}

func (h *controller) Profile(c echo.Context) error {
	token, _ := pkgmdw.CustomerToken(c)
	layout := startLayout(c, h.catalog)

	customer, err := h.account.Customer(c.Request().Context(), token)
	if errors.Is(err, models.ErrUnauthorized) {
		if err := signOut(c); err != nil {
			log.Warnw(c.Request().Context(), "Failed to clear session", "error", err)
		}
		return redirectToLogin(c)
	}
	if err != nil {
		return err
	}

	return h.render(c, http.StatusOK, "profile", layout, page{
		Title: "Profile",
		Data:  accountData{Customer: customer},
	})
}

func (h *controller) UpdateProfile(c echo.Context) error {
	token, _ := pkgmdw.CustomerToken(c)
	ctx := c.Request().Context()

	var form models.ProfileForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	failed := func(err error) error {
		return h.formFailed(c, "profile", nil, page{
			Title: "Profile",
			Data: accountData{Customer: &models.Customer{
				FirstName: form.FirstName,
				LastName:  form.LastName,
				Email:     form.Email,
				Phone:     form.Phone,
			}},
		}, err)
	}

	if err := c.Validate(form); err != nil {
		return failed(models.NewValidationError(pkgmdw.Message(err)))
	}

	updated, err := h.account.UpdateProfile(ctx, token, form)
	if err != nil {
		return failed(err)
	}

	if updated.AccessToken != nil {
		if err := signIn(c, updated.AccessToken); err != nil {
			return failed(err)
		}
	}

	return h.render(c, http.StatusOK, "profile", nil, page{
		Title: "Profile",
		Data:  accountData{Customer: updated.Customer, Saved: true},
	})
}
