package service

import (
	"strconv"
	"strings"
)

// DerivePictureName computes the display name of a picture from its four
// inputs: optional supplier code, product number, color name and 1-based
// picture order. Segments are lowercased with spaces collapsed to
// underscores and joined with underscores; the supplier segment is omitted
// when absent.
//
// DerivePictureName("SUP", "ABC", "Red", 1) == "sup_abc_red_1".
func DerivePictureName(supplierCode, productNumber, colorName string, order int) string {
	segments := make([]string, 0, 4)
	if s := normalizeNameSegment(supplierCode); s != "" {
		segments = append(segments, s)
	}
	if s := normalizeNameSegment(productNumber); s != "" {
		segments = append(segments, s)
	}
	if s := normalizeNameSegment(colorName); s != "" {
		segments = append(segments, s)
	}
	segments = append(segments, strconv.Itoa(order))
	return strings.Join(segments, "_")
}

func normalizeNameSegment(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), "_")
}
