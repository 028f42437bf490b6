package pagination

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		cursor    string
		size      int
		want      Request
		wantErr   error
	}{
		{
			name: "first page",
			size: 8,
			want: Request{Forward: true, PageSize: 8},
		},
		{
			name:      "next page",
			direction: "next",
			cursor:    "abc",
			size:      8,
			want:      Request{Forward: true, Cursor: strPtr("abc"), PageSize: 8},
		},
		{
			name:      "previous page",
			direction: "previous",
			cursor:    "abc",
			size:      10,
			want:      Request{Forward: false, Cursor: strPtr("abc"), PageSize: 10},
		},
		{
			name:      "unknown direction is forward",
			direction: "sideways",
			size:      10,
			want:      Request{Forward: true, PageSize: 10},
		},
		{
			name:    "zero page size",
			size:    0,
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "negative page size",
			size:    -3,
			wantErr: ErrInvalidPageSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRequest(tt.direction, tt.cursor, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariablesWithoutCursorOmitBeforeAndAfter(t *testing.T) {
	for _, direction := range []string{"", DirectionNext, DirectionPrevious} {
		t.Run(fmt.Sprintf("direction=%q", direction), func(t *testing.T) {
			req, err := NewRequest(direction, "", 5)
			require.NoError(t, err)

			vars := req.Variables()
			assert.Nil(t, vars.Before)
			assert.Nil(t, vars.After)

			data, err := json.Marshal(vars)
			require.NoError(t, err)
			if direction == DirectionPrevious {
				assert.JSONEq(t, `{"last":5}`, string(data))
			} else {
				assert.JSONEq(t, `{"first":5}`, string(data))
			}

			m := vars.Map()
			assert.Len(t, m, 1)
			assert.NotContains(t, m, "before")
			assert.NotContains(t, m, "after")
		})
	}
}

func TestVariablesPopulateExactlyOnePair(t *testing.T) {
	next, err := NewRequest(DirectionNext, "end", 8)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"first": 8, "after": "end"}, next.Variables().Map())

	prev, err := NewRequest(DirectionPrevious, "start", 8)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"last": 8, "before": "start"}, prev.Variables().Map())
}

func TestVariablesAreIdempotent(t *testing.T) {
	req, err := NewRequest(DirectionPrevious, "c1", 4)
	require.NoError(t, err)
	assert.Equal(t, req.Variables(), req.Variables())
}

func TestEntryPoints(t *testing.T) {
	first, err := First(3)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"first": 3}, first.Variables().Map())

	last, err := Last(3)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"last": 3}, last.Variables().Map())
}

func TestFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/collections?direction=previous&cursor=xyz", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	got, err := FromContext(c, 10)
	require.NoError(t, err)
	assert.Equal(t, Request{Forward: false, Cursor: strPtr("xyz"), PageSize: 10}, got)
}

func TestPageNavigation(t *testing.T) {
	tests := []struct {
		name     string
		info     PageInfo
		wantPrev *Request
		wantNext *Request
	}{
		{
			name: "single page",
			info: PageInfo{StartCursor: strPtr("a"), EndCursor: strPtr("b")},
		},
		{
			name:     "middle page",
			info:     PageInfo{HasPreviousPage: true, HasNextPage: true, StartCursor: strPtr("a"), EndCursor: strPtr("b")},
			wantPrev: &Request{Forward: false, Cursor: strPtr("a"), PageSize: 2},
			wantNext: &Request{Forward: true, Cursor: strPtr("b"), PageSize: 2},
		},
		{
			name:     "first of many",
			info:     PageInfo{HasNextPage: true, StartCursor: strPtr("a"), EndCursor: strPtr("b")},
			wantNext: &Request{Forward: true, Cursor: strPtr("b"), PageSize: 2},
		},
		{
			name:     "last of many",
			info:     PageInfo{HasPreviousPage: true, StartCursor: strPtr("a"), EndCursor: strPtr("b")},
			wantPrev: &Request{Forward: false, Cursor: strPtr("a"), PageSize: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Page[string]{Nodes: []string{"x", "y"}, PageInfo: tt.info}
			assert.Equal(t, tt.wantPrev, page.Previous(2))
			assert.Equal(t, tt.wantNext, page.Next(2))
		})
	}
}

func TestPageInfoValidate(t *testing.T) {
	assert.NoError(t, PageInfo{}.Validate())
	assert.NoError(t, PageInfo{HasNextPage: true, EndCursor: strPtr("e")}.Validate())
	assert.ErrorIs(t, PageInfo{HasNextPage: true}.Validate(), ErrInvalidPageInfo)
	assert.ErrorIs(t, PageInfo{HasPreviousPage: true, EndCursor: strPtr("e")}.Validate(), ErrInvalidPageInfo)
}

func TestRequestHref(t *testing.T) {
	req := Request{Forward: true, Cursor: strPtr("eyJsYXN0IjoxfQ=="), PageSize: 8}
	href := req.Href("/collections/motors")

	u, err := url.Parse(href)
	require.NoError(t, err)
	assert.Equal(t, "/collections/motors", u.Path)

	back, err := FromQuery(u.Query(), 8)
	require.NoError(t, err)
	assert.Equal(t, req, back)
}

func TestFilterKeepsPageInfo(t *testing.T) {
	page := Page[string]{
		Nodes:    []string{"ad-banner", "motors", "ad-promo", "fans"},
		PageInfo: PageInfo{HasNextPage: true, EndCursor: strPtr("fans")},
	}
	got := page.Filter(func(s string) bool { return s[:3] != "ad-" })
	assert.Equal(t, []string{"motors", "fans"}, got.Nodes)
	assert.Equal(t, page.PageInfo, got.PageInfo)
}
