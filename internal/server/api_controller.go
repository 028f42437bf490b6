package server

import (
	"github.com/labstack/echo/v4"

	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/pagination"
	"github.com/prairiegroup/storefront/internal/usecase"
	"github.com/prairiegroup/storefront/pkg/util"
)

const apiPrefix = "/api/"

type CollectionsRequest struct {
	Direction string `query:"direction" validate:"omitempty,oneof=next previous"`
	Cursor    string `query:"cursor"`
}

type CollectionRequest struct {
	Handle    string `param:"handle" validate:"required,handle"`
	Direction string `query:"direction" validate:"omitempty,oneof=next previous"`
	Cursor    string `query:"cursor"`
}

// PageLink is the query a client sends to reach an adjacent page.
type PageLink struct {
	Direction string `json:"direction"`
	Cursor    string `json:"cursor"`
}

type CollectionsResponse struct {
	Collections []models.Collection `json:"collections"`
	PageInfo    pagination.PageInfo `json:"pageInfo"`
	Previous    *PageLink           `json:"previous"`
	Next        *PageLink           `json:"next"`
}

type CollectionResponse struct {
	Collection *models.Collection `json:"collection"`
	Previous   *PageLink          `json:"previous"`
	Next       *PageLink          `json:"next"`
}

func newPageLink(req *pagination.Request) *PageLink {
	if req == nil {
		return nil
	}
	return &PageLink{Direction: req.Direction(), Cursor: util.Val(req.Cursor)}
}

func (h *controller) ListCollections(c echo.Context, req CollectionsRequest) (*CollectionsResponse, error) {
	pageReq, err := pagination.NewRequest(req.Direction, req.Cursor, usecase.CollectionsPageSize)
	if err != nil {
		return nil, err
	}

	result, err := h.catalog.Collections(c.Request().Context(), pageReq)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &CollectionsResponse{
		Collections: result.Nodes,
		PageInfo:    result.PageInfo,
		Previous:    newPageLink(result.Previous(pageReq.PageSize)),
		Next:        newPageLink(result.Next(pageReq.PageSize)),
	}, nil
}

func (h *controller) GetCollection(c echo.Context, req CollectionRequest) (*CollectionResponse, error) {
	pageReq, err := pagination.NewRequest(req.Direction, req.Cursor, usecase.CollectionProductsPageSize)
	if err != nil {
		return nil, err
	}

	collection, err := h.catalog.Collection(c.Request().Context(), req.Handle, pageReq)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &CollectionResponse{
		Collection: collection,
		Previous:   newPageLink(collection.Products.Previous(pageReq.PageSize)),
		Next:       newPageLink(collection.Products.Next(pageReq.PageSize)),
	}, nil
}
