package model

import "time"

// Picture is a persisted variant image. Order is the 1-based display
// position within the variant's picture set.
type Picture struct {
	ID        uint      `json:"id"`
	VariantID uint      `json:"variant_id"`
	Name      string    `json:"name"` // derived file name, no extension
	URL       string    `json:"url"`
	Order     int       `json:"picture_order"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}
