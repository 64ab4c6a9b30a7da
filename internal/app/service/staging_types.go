package service

import (
	"strconv"
	"strings"
)

// Variant and picture tokens. Persisted entities are addressed by their
// backend id rendered as a decimal string; client-only entities carry a
// "new_" / "staged_" token until flush promotes them.
const (
	pendingVariantPrefix = "new_"
	pendingPicturePrefix = "new_"
	stagedPicturePrefix  = "staged_"
)

// ColorChoice selects the color of a variant. Exactly one of ColorID /
// CustomName must be set.
type ColorChoice struct {
	ColorID    *uint
	CustomName string
}

func (c ColorChoice) valid() bool {
	return (c.ColorID != nil) != (c.CustomName != "")
}

// PictureFile is one image handed to AddPictures by the embedding view.
type PictureFile struct {
	FileName string
	Data     []byte
}

// PendingVariant is a variant with no backend identity yet. It is created
// by AddVariant, destroyed by RemoveVariant, and promoted into a persisted
// variant when the session flushes.
type PendingVariant struct {
	ID       string
	Color    ColorChoice
	Pictures []*PendingPicture
}

// HasColor reports whether the variant's color choice is settled.
func (v *PendingVariant) HasColor() bool {
	return v.Color.valid()
}

// PendingPicture is an image awaiting upload, either on a pending variant
// ("new_*" token) or staged against a persisted one ("staged_*" token).
type PendingPicture struct {
	ID          string
	FileName    string
	Data        []byte
	Preview     string // data URL for the view's miniature strip
	Order       int
	IsPrimary   bool
	DerivedName string
}

// StagedVariantChange is the recorded delta against one persisted variant.
// Created lazily on first mutation, cleared after a successful flush.
type StagedVariantChange struct {
	VariantID        uint
	VariantToDelete  bool
	PicturesToAdd    []*PendingPicture
	PicturesToDelete map[uint]bool
	PictureRenames   map[string]string // persisted name -> recomputed name
	PrimaryPictureID *uint             // persisted picture to promote
}

func newStagedVariantChange(variantID uint) *StagedVariantChange {
	return &StagedVariantChange{
		VariantID:        variantID,
		PicturesToDelete: map[uint]bool{},
		PictureRenames:   map[string]string{},
	}
}

// empty reports whether the change carries no mutation and can be dropped.
func (c *StagedVariantChange) empty() bool {
	return !c.VariantToDelete &&
		len(c.PicturesToAdd) == 0 &&
		len(c.PicturesToDelete) == 0 &&
		len(c.PictureRenames) == 0 &&
		c.PrimaryPictureID == nil
}

func isPendingVariantID(id string) bool {
	return strings.HasPrefix(id, pendingVariantPrefix)
}

func isClientPictureID(id string) bool {
	return strings.HasPrefix(id, pendingPicturePrefix) || strings.HasPrefix(id, stagedPicturePrefix)
}

// parsePersistedID converts a persisted-entity token back to its backend id.
func parsePersistedID(id string) (uint, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func persistedID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
