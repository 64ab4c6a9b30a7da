package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVariant(t *testing.T) {
	tests := []struct {
		name         string
		hasColor     bool
		pictureCount int
		want         VariantValidity
	}{
		{"color and pictures", true, 2, ValidityComplete},
		{"color only", true, 0, ValidityPartial},
		{"pictures only", false, 1, ValidityPartial},
		{"nothing", false, 0, ValidityEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyVariant(tt.hasColor, tt.pictureCount))
		})
	}
}

func TestBuildReport(t *testing.T) {
	tests := []struct {
		name            string
		statuses        []VariantStatus
		wantSubmittable bool
		wantHasValid    bool
		wantAllValid    bool
	}{
		{
			name: "all complete",
			statuses: []VariantStatus{
				{Validity: ValidityComplete},
				{Validity: ValidityComplete},
			},
			wantSubmittable: true,
			wantHasValid:    true,
			wantAllValid:    true,
		},
		{
			name: "one partial blocks everything",
			statuses: []VariantStatus{
				{Validity: ValidityComplete},
				{Validity: ValidityPartial},
			},
			wantSubmittable: false,
			wantHasValid:    true,
		},
		{
			name: "empty variant tolerated but not fully valid",
			statuses: []VariantStatus{
				{Validity: ValidityComplete},
				{Validity: ValidityEmpty},
			},
			wantSubmittable: true,
			wantHasValid:    true,
		},
		{
			name: "deleted variants are ignored",
			statuses: []VariantStatus{
				{Validity: ValidityComplete},
				{Validity: ValidityDeleted},
			},
			wantSubmittable: true,
			wantHasValid:    true,
			wantAllValid:    true,
		},
		{
			name: "only deleted variants",
			statuses: []VariantStatus{
				{Validity: ValidityDeleted},
			},
		},
		{
			name:     "no variants at all",
			statuses: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := buildReport(tt.statuses)
			assert.Equal(t, tt.wantSubmittable, report.Submittable)
			assert.Equal(t, tt.wantHasValid, report.HasValidVariants)
			assert.Equal(t, tt.wantAllValid, report.AllVariantsValid)
		})
	}
}
