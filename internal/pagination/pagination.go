// Package pagination translates storefront navigation intents (load previous,
// load more) into GraphQL connection variables and back into navigation links.
//
// The translation is stateless: the same direction, cursor and page size
// always produce the same variables.
package pagination

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/labstack/echo/v4"
)

const (
	DirectionNext     = "next"
	DirectionPrevious = "previous"

	ParamDirection = "direction"
	ParamCursor    = "cursor"
)

var (
	ErrInvalidPageSize = errors.New("pagination: page size must be positive")
	ErrInvalidPageInfo = errors.New("pagination: page info is missing a cursor")
)

// Request is a single navigation intent.
type Request struct {
	Forward  bool
	Cursor   *string
	PageSize int
}

// Variables are the connection arguments sent to the storefront API.
// Exactly one of the forward pair (first/after) or backward pair
// (last/before) is populated; unset fields are omitted from the payload.
type Variables struct {
	First  *int    `json:"first,omitempty"`
	Last   *int    `json:"last,omitempty"`
	Before *string `json:"before,omitempty"`
	After  *string `json:"after,omitempty"`
}

// PageInfo mirrors the GraphQL PageInfo object.
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// Page is one slice of a GraphQL connection.
type Page[T any] struct {
	Nodes    []T      `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// NewRequest builds a request from a direction and an optional cursor.
// Any direction other than "previous" is treated as forward.
func NewRequest(direction, cursor string, pageSize int) (Request, error) {
	if pageSize <= 0 {
		return Request{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	req := Request{
		Forward:  direction != DirectionPrevious,
		PageSize: pageSize,
	}
	if cursor != "" {
		req.Cursor = &cursor
	}
	return req, nil
}

// First is the request of a forward-only entry point.
func First(pageSize int) (Request, error) {
	return NewRequest(DirectionNext, "", pageSize)
}

// Last is the request of a backward-only entry point.
func Last(pageSize int) (Request, error) {
	return NewRequest(DirectionPrevious, "", pageSize)
}

func FromQuery(values url.Values, pageSize int) (Request, error) {
	return NewRequest(values.Get(ParamDirection), values.Get(ParamCursor), pageSize)
}

func FromContext(c echo.Context, pageSize int) (Request, error) {
	return FromQuery(c.QueryParams(), pageSize)
}

func (r Request) Variables() Variables {
	size := r.PageSize
	var vars Variables
	if r.Forward {
		vars.First = &size
		vars.After = cloneString(r.Cursor)
	} else {
		vars.Last = &size
		vars.Before = cloneString(r.Cursor)
	}
	return vars
}

func (r Request) Direction() string {
	if r.Forward {
		return DirectionNext
	}
	return DirectionPrevious
}

// Query encodes the request as link query parameters.
func (r Request) Query() url.Values {
	values := url.Values{}
	values.Set(ParamDirection, r.Direction())
	if r.Cursor != nil {
		values.Set(ParamCursor, *r.Cursor)
	}
	return values
}

// Href returns path with the request encoded as its query string.
func (r Request) Href(path string) string {
	return path + "?" + r.Query().Encode()
}

// Map returns the variables as a map, omitting unset arguments.
func (v Variables) Map() map[string]any {
	m := make(map[string]any, 2)
	if v.First != nil {
		m["first"] = *v.First
	}
	if v.Last != nil {
		m["last"] = *v.Last
	}
	if v.Before != nil {
		m["before"] = *v.Before
	}
	if v.After != nil {
		m["after"] = *v.After
	}
	return m
}

// Validate checks that a cursor is present for every page flag that is set.
func (p PageInfo) Validate() error {
	if p.HasPreviousPage && p.StartCursor == nil {
		return fmt.Errorf("%w: hasPreviousPage without startCursor", ErrInvalidPageInfo)
	}
	if p.HasNextPage && p.EndCursor == nil {
		return fmt.Errorf("%w: hasNextPage without endCursor", ErrInvalidPageInfo)
	}
	return nil
}

// Previous returns the request for the preceding page, or nil when there is
// none and the link must stay inert.
func (p Page[T]) Previous(pageSize int) *Request {
	if !p.PageInfo.HasPreviousPage || p.PageInfo.StartCursor == nil {
		return nil
	}
	return &Request{
		Forward:  false,
		Cursor:   cloneString(p.PageInfo.StartCursor),
		PageSize: pageSize,
	}
}

// Next returns the request for the following page, or nil when there is none.
func (p Page[T]) Next(pageSize int) *Request {
	if !p.PageInfo.HasNextPage || p.PageInfo.EndCursor == nil {
		return nil
	}
	return &Request{
		Forward:  true,
		Cursor:   cloneString(p.PageInfo.EndCursor),
		PageSize: pageSize,
	}
}

// Filter keeps the nodes matching keep. Page info is left untouched so that
// navigation still follows the underlying connection.
func (p Page[T]) Filter(keep func(T) bool) Page[T] {
	nodes := make([]T, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if keep(n) {
			nodes = append(nodes, n)
		}
	}
	return Page[T]{Nodes: nodes, PageInfo: p.PageInfo}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
