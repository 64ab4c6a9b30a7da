package catalogapi

import "github.com/mateusz58/catalog-staging/internal/app/model"

// CreateVariantRequest creates a variant for a component. Exactly one of
// ColorID / CustomColorName must be set.
type CreateVariantRequest struct {
	ComponentID     uint   `json:"component_id"`
	ColorID         *uint  `json:"color_id"`
	CustomColorName string `json:"custom_color_name,omitempty"`
}

// CreateVariantResponse is the envelope of POST /api/variant/create.
type CreateVariantResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Variant model.Variant `json:"variant"`
}

// PictureUpload is one image file in a multipart upload batch.
type PictureUpload struct {
	FileName  string
	Data      []byte
	Order     int
	IsPrimary bool
}

// UploadPicturesResponse is the envelope of POST /api/variant/{id}/pictures.
type UploadPicturesResponse struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
	Pictures []model.Picture `json:"pictures"`
}

// EditDataResponse is the envelope of GET /api/components/{id}/edit-data.
type EditDataResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	model.EditData
}

// UpdateComponentRequest carries component-level field changes plus the
// accumulated picture renames and order values of a staging flush.
type UpdateComponentRequest struct {
	ProductNumber  *string           `json:"product_number,omitempty"`
	Description    *string           `json:"description,omitempty"`
	SupplierID     *uint             `json:"supplier_id,omitempty"`
	ClearSupplier  bool              `json:"clear_supplier,omitempty"`
	BrandID        *uint             `json:"brand_id,omitempty"`
	SubbrandID     *uint             `json:"subbrand_id,omitempty"`
	CategoryIDs    []uint            `json:"category_ids,omitempty"`
	Keywords       []string          `json:"keywords,omitempty"`
	PictureRenames map[string]string `json:"picture_renames,omitempty"`
	PictureOrders  map[uint]int      `json:"picture_orders,omitempty"`
}

// StatusResponse is the generic envelope of mutating endpoints that return
// no payload.
type StatusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
