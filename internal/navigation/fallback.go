package navigation

import "github.com/prairiegroup/storefront/internal/models"

var FallbackHeaderMenu = models.Menu{
	ID: "gid://shopify/Menu/199655587896",
	Items: []models.MenuItem{
		{ID: "gid://shopify/MenuItem/461609500728", Title: "Collections", Type: "HTTP", URL: "/collections"},
		{ID: "gid://shopify/MenuItem/461609533496", Title: "Blog", Type: "HTTP", URL: "/blogs/journal"},
		{ID: "gid://shopify/MenuItem/461609566264", Title: "Policies", Type: "HTTP", URL: "/policies"},
		{ID: "gid://shopify/MenuItem/461609599032", Title: "About", Type: "PAGE", URL: "/pages/about"},
	},
}

var FallbackFooterMenu = models.Menu{
	ID: "gid://shopify/Menu/199655620664",
	Items: []models.MenuItem{
		{ID: "gid://shopify/MenuItem/461633060920", Title: "Privacy Policy", Type: "SHOP_POLICY", URL: "/policies/privacy-policy"},
		{ID: "gid://shopify/MenuItem/461633093688", Title: "Refund Policy", Type: "SHOP_POLICY", URL: "/policies/refund-policy"},
		{ID: "gid://shopify/MenuItem/461633126456", Title: "Shipping Policy", Type: "SHOP_POLICY", URL: "/policies/shipping-policy"},
		{ID: "gid://shopify/MenuItem/461633159224", Title: "Terms of Service", Type: "SHOP_POLICY", URL: "/policies/terms-of-service"},
	},
}

// FooterShortcuts are listed ahead of the platform footer menu.
var FooterShortcuts = []Item{
	{Title: "Circuit Breakers", Link: Link{URL: "/collections/circuit-breakers"}},
	{Title: "Motors", Link: Link{URL: "/collections/motors"}},
	{Title: "Actuators", Link: Link{URL: "/collections/actuators"}},
	{Title: "Control Boards", Link: Link{URL: "/collections/control-boards"}},
	{Title: "About Us", Link: Link{URL: "/about"}},
	{Title: "Contact", Link: Link{URL: "/pages/contact"}},
}

// Footer is the shortcut list followed by the classified footer menu.
func Footer(menu *models.Menu, internalDomains []string) []Item {
	items := make([]Item, 0, len(FooterShortcuts)+8)
	items = append(items, FooterShortcuts...)
	return append(items, Build(menu, FallbackFooterMenu, internalDomains)...)
}

func Header(menu *models.Menu, internalDomains []string) []Item {
	return Build(menu, FallbackHeaderMenu, internalDomains)
}
