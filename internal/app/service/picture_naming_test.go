package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePictureName(t *testing.T) {
	tests := []struct {
		name          string
		supplierCode  string
		productNumber string
		colorName     string
		order         int
		want          string
	}{
		{
			name:          "all segments",
			supplierCode:  "SUP",
			productNumber: "ABC",
			colorName:     "Red",
			order:         1,
			want:          "sup_abc_red_1",
		},
		{
			name:          "no supplier",
			productNumber: "ABC",
			colorName:     "Red",
			order:         2,
			want:          "abc_red_2",
		},
		{
			name:          "spaces collapse to underscores",
			supplierCode:  "SUP",
			productNumber: "AB 12",
			colorName:     "Forest  Green",
			order:         3,
			want:          "sup_ab_12_forest_green_3",
		},
		{
			name:          "surrounding whitespace trimmed",
			supplierCode:  " SUP ",
			productNumber: "ABC",
			colorName:     "Red",
			order:         1,
			want:          "sup_abc_red_1",
		},
		{
			name:  "only order",
			order: 7,
			want:  "7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePictureName(tt.supplierCode, tt.productNumber, tt.colorName, tt.order)
			assert.Equal(t, tt.want, got)
		})
	}
}
