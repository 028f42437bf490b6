package server

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/pagination"
	"github.com/prairiegroup/storefront/internal/usecase"
	"github.com/prairiegroup/storefront/internal/view"
	"github.com/prairiegroup/storefront/pkg/util"
)

const viewParam = "view"

type homeData struct {
	Featured    *models.Collection `json:"featured"`
	Recommended []models.Product   `json:"recommended"`
}

// pager holds the hrefs of the adjacent pages. An empty href is an inert link.
type pager struct {
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

type viewOption struct {
	Layout view.Layout `json:"layout"`
	Href   string      `json:"href"`
	Active bool        `json:"active"`
}

// listingView lists the layouts a visitor can pick. Toggle switches to the
// layout after the current one.
type listingView struct {
	Current view.Layout  `json:"current"`
	Options []viewOption `json:"options"`
	Toggle  string       `json:"toggle"`
}

type collectionsData struct {
	Collections []models.Collection `json:"collections"`
	Pager       pager               `json:"pager"`
	View        listingView         `json:"view"`
}

type collectionData struct {
	Collection *models.Collection `json:"collection"`
	Pager      pager              `json:"pager"`
	View       listingView        `json:"view"`
}

func (h *controller) Home(c echo.Context) error {
	layout := startLayout(c, h.catalog)
	ctx := c.Request().Context()

	home, err := h.catalog.Home(ctx)
	if err != nil {
		return err
	}

	return h.render(c, http.StatusOK, "home", layout, page{
		Title: "Home",
		Data: homeData{
			Featured:    home.Featured,
			Recommended: home.Recommended.Await(ctx),
		},
	})
}

func (h *controller) About(c echo.Context) error {
	return h.render(c, http.StatusOK, "about", startLayout(c, h.catalog), page{Title: "About Us"})
}

func (h *controller) Collections(c echo.Context) error {
	req, err := pagination.FromContext(c, usecase.CollectionsPageSize)
	if err != nil {
		return err
	}
	layout := startLayout(c, h.catalog)

	result, err := h.catalog.Collections(c.Request().Context(), req)
	if err != nil {
		return err
	}

	state := view.FromQuery(c.QueryParam(viewParam))
	path := c.Request().URL.Path
	return h.render(c, http.StatusOK, "collections", layout, page{
		Title: "Collections",
		Data: collectionsData{
			Collections: result.Nodes,
			Pager: pager{
				Prev: pageHref(path, result.Previous(req.PageSize), state),
				Next: pageHref(path, result.Next(req.PageSize), state),
			},
			View: newListingView(path, c.QueryParams(), state),
		},
	})
}

func (h *controller) Collection(c echo.Context) error {
	handle := c.Param("handle")
	if handle == "" {
		return c.Redirect(http.StatusFound, "/collections")
	}

	req, err := pagination.FromContext(c, usecase.CollectionProductsPageSize)
	if err != nil {
		return err
	}
	layout := startLayout(c, h.catalog)

	collection, err := h.catalog.Collection(c.Request().Context(), handle, req)
	if err != nil {
		return err
	}

	state := view.FromQuery(c.QueryParam(viewParam))
	path := c.Request().URL.Path
	return h.render(c, http.StatusOK, "collection", layout, page{
		Title: collection.Title,
		Data: collectionData{
			Collection: collection,
			Pager: pager{
				Prev: pageHref(path, collection.Products.Previous(req.PageSize), state),
				Next: pageHref(path, collection.Products.Next(req.PageSize), state),
			},
			View: newListingView(path, c.QueryParams(), state),
		},
	})
}

func (h *controller) Product(c echo.Context) error {
	layout := startLayout(c, h.catalog)
	product, err := h.catalog.Product(c.Request().Context(), c.Param("handle"))
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "product", layout, page{Title: product.Title, Data: product})
}

func (h *controller) Policies(c echo.Context) error {
	layout := startLayout(c, h.catalog)
	policies, err := h.catalog.Policies(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "policies", layout, page{Title: "Policies", Data: policies})
}

func (h *controller) Policy(c echo.Context) error {
	layout := startLayout(c, h.catalog)
	policy, err := h.catalog.Policy(c.Request().Context(), c.Param("handle"))
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "policy", layout, page{Title: policy.Title, Data: policy})
}

// pageHref links to req, keeping the visitor's listing layout.
func pageHref(path string, req *pagination.Request, state view.State) string {
	if req == nil {
		return ""
	}
	q := req.Query()
	if state != view.Initial() {
		q.Set(viewParam, string(state.Layout))
	}
	return path + "?" + q.Encode()
}

func newListingView(path string, query url.Values, state view.State) listingView {
	href := func(next view.State) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set(viewParam, string(next.Layout))
		return path + "?" + q.Encode()
	}

	return listingView{
		Current: state.Layout,
		Toggle:  href(view.Reduce(state, view.Action{Type: view.Cycle})),
		Options: util.ConvertList(view.Layouts(), func(l view.Layout) viewOption {
			next := view.Reduce(state, view.Action{Type: view.Select, Layout: l})
			return viewOption{
				Layout: l,
				Href:   href(next),
				Active: next == state,
			}
		}),
	}
}
