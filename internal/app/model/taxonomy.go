package model

// Color is a predefined color pickable for a variant.
type Color struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Supplier identifies a component supplier; Code prefixes derived picture
// names when set.
type Supplier struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Brand groups components; subbrands nest one level deep.
type Brand struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Subbrands []Subbrand `json:"subbrands"`
}

type Subbrand struct {
	ID      uint   `json:"id"`
	BrandID uint   `json:"brand_id"`
	Name    string `json:"name"`
}

// Category is a node in the component category tree.
type Category struct {
	ID       uint   `json:"id"`
	ParentID *uint  `json:"parent_id"`
	Name     string `json:"name"`
}
