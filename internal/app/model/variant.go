package model

import (
	"sort"
	"time"
)

// Variant is a color-specific version of a component, carrying its own
// pictures. Exactly one of ColorID / CustomColorName is set.
type Variant struct {
	ID              uint      `json:"id"`
	ComponentID     uint      `json:"component_id"`
	ColorID         *uint     `json:"color_id"`
	ColorName       string    `json:"color_name"`
	CustomColorName string    `json:"custom_color_name"`
	SKU             string    `json:"sku"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Pictures []Picture `json:"pictures"`
}

// EffectiveColorName returns the display color of the variant, preferring a
// resolved color reference over a custom name.
func (v *Variant) EffectiveColorName() string {
	if v.ColorName != "" {
		return v.ColorName
	}
	return v.CustomColorName
}

// SortedPictures returns the variant's pictures ordered by picture_order.
func (v *Variant) SortedPictures() []Picture {
	sorted := make([]Picture, len(v.Pictures))
	copy(sorted, v.Pictures)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// PrimaryPicture returns the variant's primary picture, or nil.
func (v *Variant) PrimaryPicture() *Picture {
	for i := range v.Pictures {
		if v.Pictures[i].IsPrimary {
			return &v.Pictures[i]
		}
	}
	return nil
}

// PictureByID returns the picture with the given id, or nil.
func (v *Variant) PictureByID(id uint) *Picture {
	for i := range v.Pictures {
		if v.Pictures[i].ID == id {
			return &v.Pictures[i]
		}
	}
	return nil
}
