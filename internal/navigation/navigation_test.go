package navigation

import (
	"testing"

	"github.com/prairiegroup/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	domains := []string{PlatformDomain, "pg-hvac.com", "shop.pghvac.com"}

	tests := []struct {
		name string
		url  string
		want Link
	}{
		{"platform domain", "https://pg-hvac.myshopify.com/collections/motors", Link{Internal, "/collections/motors"}},
		{"public domain keeps query", "https://pg-hvac.com/search?q=fan", Link{Internal, "/search?q=fan"}},
		{"primary domain root", "https://shop.pghvac.com", Link{Internal, "/"}},
		{"subdomain of internal", "https://www.pg-hvac.com/about", Link{Internal, "/about"}},
		{"relative path", "/policies", Link{Internal, "/policies"}},
		{"external", "https://prairiegroup.us/tech", Link{External, "https://prairiegroup.us/tech"}},
		{"lookalike domain", "https://evilpg-hvac.com/x", Link{External, "https://evilpg-hvac.com/x"}},
		{"mailto", "mailto:sales@pg-hvac.com", Link{External, "mailto:sales@pg-hvac.com"}},
		{"case insensitive host", "https://PG-HVAC.com/Motors", Link{Internal, "/Motors"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url, domains))
		})
	}
}

func TestDomains(t *testing.T) {
	var shop models.Shop
	shop.PrimaryDomain.URL = "https://pghvac.com"

	assert.Equal(t, []string{PlatformDomain, "pg-hvac.com", "pghvac.com"}, Domains("pg-hvac.com", shop))
	assert.Equal(t, []string{PlatformDomain}, Domains("", models.Shop{}))
}

func TestBuildFallsBackWhenMenuMissing(t *testing.T) {
	items := Header(nil, []string{PlatformDomain})
	assert.Len(t, items, len(FallbackHeaderMenu.Items))
	assert.Equal(t, "Collections", items[0].Title)
	assert.Equal(t, Link{Internal, "/collections"}, items[0].Link)
}

func TestBuildClassifiesNestedItems(t *testing.T) {
	menu := &models.Menu{Items: []models.MenuItem{
		{ID: "1", Title: "Shop", URL: "https://pg-hvac.myshopify.com/collections", Items: []models.MenuItem{
			{ID: "2", Title: "Motors", URL: "https://pg-hvac.myshopify.com/collections/motors"},
			{ID: "3", Title: "Untitled"},
		}},
		{ID: "4", Title: "Blog", URL: "https://medium.com/pg"},
	}}

	items := Build(menu, FallbackHeaderMenu, []string{PlatformDomain})
	assert.Len(t, items, 2)
	assert.Equal(t, "/collections", items[0].Link.URL)
	assert.Len(t, items[0].Children, 1)
	assert.Equal(t, "/collections/motors", items[0].Children[0].Link.URL)
	assert.True(t, items[1].Link.External())
}

func TestFooterListsShortcutsFirst(t *testing.T) {
	items := Footer(nil, []string{PlatformDomain})
	assert.Len(t, items, len(FooterShortcuts)+len(FallbackFooterMenu.Items))
	assert.Equal(t, "Circuit Breakers", items[0].Title)
	assert.Equal(t, "Contact", items[len(FooterShortcuts)-1].Title)
	assert.Equal(t, "Privacy Policy", items[len(FooterShortcuts)].Title)
}
