package models

import (
	"strings"

	"github.com/prairiegroup/storefront/internal/pagination"
)

// HiddenCollectionPrefix marks collections used for ad placements; they are
// never listed to customers.
const HiddenCollectionPrefix = "ad-"

type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

type ProductVariant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            Money            `json:"price"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

type Product struct {
	ID              string                          `json:"id"`
	Handle          string                          `json:"handle"`
	Title           string                          `json:"title"`
	Description     string                          `json:"description"`
	DescriptionHTML string                          `json:"descriptionHtml,omitempty"`
	FeaturedImage   *Image                          `json:"featuredImage"`
	PriceRange      PriceRange                      `json:"priceRange"`
	Images          pagination.Page[Image]          `json:"images"`
	Variants        pagination.Page[ProductVariant] `json:"variants"`
}

// Excerpt returns at most n runes of the description.
func (p Product) Excerpt(n int) string {
	return excerpt(p.Description, n)
}

// Image returns the featured image, falling back to the first gallery image.
func (p Product) Image() *Image {
	if p.FeaturedImage != nil {
		return p.FeaturedImage
	}
	if len(p.Images.Nodes) > 0 {
		return &p.Images.Nodes[0]
	}
	return nil
}

type Collection struct {
	ID          string                   `json:"id"`
	Handle      string                   `json:"handle"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Image       *Image                   `json:"image"`
	Products    pagination.Page[Product] `json:"products"`
}

func (c Collection) Hidden() bool {
	return strings.HasPrefix(c.Handle, HiddenCollectionPrefix)
}

func (c Collection) Excerpt(n int) string {
	return excerpt(c.Description, n)
}

// VisibleCollection reports whether a collection may be shown to customers.
func VisibleCollection(c Collection) bool {
	return !c.Hidden()
}

type Policy struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
	Body   string `json:"body,omitempty"`
	URL    string `json:"url,omitempty"`
}

type Shop struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PrimaryDomain struct {
		URL string `json:"url"`
	} `json:"primaryDomain"`
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
