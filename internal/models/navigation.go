package models

type MenuItem struct {
	ID         string     `json:"id"`
	ResourceID *string    `json:"resourceId"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	URL        string     `json:"url"`
	Items      []MenuItem `json:"items"`
}

type Menu struct {
	ID    string     `json:"id"`
	Items []MenuItem `json:"items"`
}

// Layout is the data shared by every page: shop identity and both menus.
// A nil menu means the platform has none under the configured handle.
type Layout struct {
	Shop       Shop  `json:"shop"`
	HeaderMenu *Menu `json:"headerMenu"`
	FooterMenu *Menu `json:"footerMenu"`
}
