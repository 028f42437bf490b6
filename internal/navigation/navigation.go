// Package navigation turns platform menus into links the storefront can
// render.
package navigation

import (
	"net/url"
	"strings"

	"github.com/prairiegroup/storefront/internal/models"
)

type Kind int

const (
	Internal Kind = iota
	External
)

func (k Kind) String() string {
	if k == External {
		return "external"
	}
	return "internal"
}

// PlatformDomain is the platform's own domain; links pointing at any store
// on it are always internal.
const PlatformDomain = "myshopify.com"

// Link is a classified URL. Internal links carry only a path and query.
type Link struct {
	Kind Kind
	URL  string
}

func (l Link) External() bool {
	return l.Kind == External
}

// Classify decides whether rawURL points into the storefront. Absolute URLs
// on one of internalDomains (or their subdomains) are reduced to their path.
func Classify(rawURL string, internalDomains []string) Link {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Link{Kind: External, URL: rawURL}
	}
	if u.Host == "" {
		if strings.HasPrefix(rawURL, "/") {
			return Link{Kind: Internal, URL: rawURL}
		}
		return Link{Kind: External, URL: rawURL}
	}
	if !matchesDomain(u.Hostname(), internalDomains) {
		return Link{Kind: External, URL: rawURL}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return Link{Kind: Internal, URL: path}
}

func matchesDomain(host string, domains []string) bool {
	host = strings.ToLower(host)
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Domains lists the internal domains of a store: the platform domain, the
// public store domain and the host of the shop's primary domain URL.
func Domains(publicStoreDomain string, shop models.Shop) []string {
	domains := []string{PlatformDomain}
	if publicStoreDomain != "" {
		domains = append(domains, publicStoreDomain)
	}
	if u, err := url.Parse(shop.PrimaryDomain.URL); err == nil && u.Hostname() != "" {
		domains = append(domains, u.Hostname())
	}
	return domains
}

type Item struct {
	ID       string
	Title    string
	Link     Link
	Children []Item
}

// Build classifies every item of menu, falling back to fallback when the
// platform returned no menu. Items without a URL are dropped.
func Build(menu *models.Menu, fallback models.Menu, internalDomains []string) []Item {
	if menu == nil || len(menu.Items) == 0 {
		menu = &fallback
	}
	return buildItems(menu.Items, internalDomains)
}

func buildItems(items []models.MenuItem, internalDomains []string) []Item {
	out := make([]Item, 0, len(items))
	for _, mi := range items {
		if mi.URL == "" {
			continue
		}
		out = append(out, Item{
			ID:       mi.ID,
			Title:    mi.Title,
			Link:     Classify(mi.URL, internalDomains),
			Children: buildItems(mi.Items, internalDomains),
		})
	}
	return out
}
