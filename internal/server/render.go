package server

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/navigation"
	"github.com/prairiegroup/storefront/internal/session"
	"github.com/prairiegroup/storefront/internal/usecase"
	"github.com/prairiegroup/storefront/pkg/deferred"
	"github.com/prairiegroup/storefront/pkg/tmplx"
)

//go:embed templates
var templatesFS embed.FS

// chrome is what the layout needs around every page.
type chrome struct {
	Shop      models.Shop
	Header    []navigation.Item
	Footer    []navigation.Item
	CartCount int
	LoggedIn  bool
}

// page is the root of every template. Error is the single message of a
// failed form submission.
type page struct {
	Title  string
	Chrome chrome
	Error  string
	Data   any
}

// Renderer renders the embedded page templates for echo.
type Renderer struct {
	set       *tmplx.Set
	shopTitle string
}

func NewRenderer(conf *config.Config) (*Renderer, error) {
	set, err := tmplx.ParseFS(templatesFS, "templates/layout.html", "templates/pages/*.html",
		tmplx.WithTemplateFunc("safeHTML", safeHTML),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{set: set, shopTitle: conf.Storefront.ShopTitle}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	buf, err := r.set.Render(name, data)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// chrome waits for the layout started next to the page's own fetch. Without
// one the fallback menus are used and no API call is made.
func (r *Renderer) chrome(c echo.Context, layout *deferred.Value[*usecase.Layout]) chrome {
	ctx := c.Request().Context()
	ch := r.fallbackChrome()
	if layout == nil {
		ch.LoggedIn = session.FromContext(c).AccessToken() != nil
		return ch
	}
	if l := layout.Await(ctx); l != nil {
		ch.Shop = l.Shop
		ch.Header = l.Header
		ch.Footer = l.Footer
		ch.CartCount = l.CartCount.Await(ctx)
	}
	ch.LoggedIn = session.FromContext(c).AccessToken() != nil
	return ch
}

func (r *Renderer) fallbackChrome() chrome {
	return chrome{
		Shop:   models.Shop{Name: r.shopTitle},
		Header: navigation.Header(nil, nil),
		Footer: navigation.Footer(nil, nil),
	}
}

// errorPage is rendered without calling the storefront API.
func (r *Renderer) errorPage(c echo.Context, status int, msg string) page {
	ch := r.fallbackChrome()
	ch.LoggedIn = session.FromContext(c).AccessToken() != nil
	return page{
		Title:  http.StatusText(status),
		Chrome: ch,
		Error:  msg,
		Data:   map[string]int{"Status": status},
	}
}

// startLayout loads the page chrome concurrently with the primary fetch.
func startLayout(c echo.Context, catalog usecase.CatalogUsecase) *deferred.Value[*usecase.Layout] {
	cartID := session.FromContext(c).CartID()
	return deferred.Go(c.Request().Context(), "layout", nil, func(ctx context.Context) (*usecase.Layout, error) {
		return catalog.Layout(ctx, cartID), nil
	})
}

// safeHTML marks platform-provided markup (product descriptions, policy
// bodies) as trusted.
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}
