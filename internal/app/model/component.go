package model

import "time"

// Component is a catalog component as the backend reports it. The backend is
// the authority for all persisted data; this side only reads it and stages
// deltas against it.
type Component struct {
	ID            uint      `json:"id"`
	ProductNumber string    `json:"product_number"`
	Description   string    `json:"description"`
	SupplierID    *uint     `json:"supplier_id"`
	SupplierCode  string    `json:"supplier_code"`
	BrandID       *uint     `json:"brand_id"`
	SubbrandID    *uint     `json:"subbrand_id"`
	CategoryIDs   []uint    `json:"category_ids"`
	Keywords      []string  `json:"keywords"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Variants []Variant `json:"variants"`
}

// EditData is the full tree returned by GET /api/components/{id}/edit-data,
// used to hydrate a form session.
type EditData struct {
	Component  Component  `json:"component"`
	Colors     []Color    `json:"colors"`
	Suppliers  []Supplier `json:"suppliers"`
	Brands     []Brand    `json:"brands"`
	Categories []Category `json:"categories"`
}

// VariantByID returns the persisted variant with the given id, or nil.
func (c *Component) VariantByID(id uint) *Variant {
	for i := range c.Variants {
		if c.Variants[i].ID == id {
			return &c.Variants[i]
		}
	}
	return nil
}
