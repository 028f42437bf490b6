package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prairiegroup/storefront/internal/usecase"
	"github.com/prairiegroup/storefront/pkg/deferred"
)

type Controller interface {
	Health(c echo.Context) error

	Home(c echo.Context) error
	About(c echo.Context) error
	Collections(c echo.Context) error
	Collection(c echo.Context) error
	Product(c echo.Context) error
	Policies(c echo.Context) error
	Policy(c echo.Context) error

	Account(c echo.Context) error
	LoginPage(c echo.Context) error
	Login(c echo.Context) error
	Logout(c echo.Context) error
	RegisterPage(c echo.Context) error
	Register(c echo.Context) error
	RecoverPage(c echo.Context) error
	Recover(c echo.Context) error
	ResetPage(c echo.Context) error
	Reset(c echo.Context) error
	ActivatePage(c echo.Context) error
	Activate(c echo.Context) error
	Profile(c echo.Context) error
	UpdateProfile(c echo.Context) error

	ListCollections(c echo.Context, req CollectionsRequest) (*CollectionsResponse, error)
	GetCollection(c echo.Context, req CollectionRequest) (*CollectionResponse, error)
}

type controller struct {
	catalog  usecase.CatalogUsecase
	account  usecase.AccountUsecase
	renderer *Renderer
}

func NewController(catalog usecase.CatalogUsecase, account usecase.AccountUsecase, renderer *Renderer) Controller {
	return &controller{
		catalog:  catalog,
		account:  account,
		renderer: renderer,
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "storefront",
	})
}

// render writes a page, or its data alone when the client asked for JSON.
func (h *controller) render(c echo.Context, status int, name string, layout *deferred.Value[*usecase.Layout], p page) error {
	if wantsJSON(c) {
		return c.JSON(status, p.Data)
	}
	p.Chrome = h.renderer.chrome(c, layout)
	return c.Render(status, name, p)
}

// formFailed shows a form again with the message of err. JSON clients get the
// mapped error through the error handler instead.
func (h *controller) formFailed(c echo.Context, name string, layout *deferred.Value[*usecase.Layout], p page, err error) error {
	he := formError(err)
	if he.Code >= http.StatusInternalServerError {
		return err
	}
	if wantsJSON(c) {
		return he
	}
	p.Error = errorMessage(he)
	return h.render(c, he.Code, name, layout, p)
}
