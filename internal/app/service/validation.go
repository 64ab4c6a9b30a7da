package service

// VariantValidity classifies one variant's readiness for submission.
type VariantValidity string

const (
	// ValidityComplete: color set and at least one non-deleted picture.
	ValidityComplete VariantValidity = "complete"
	// ValidityPartial: exactly one of color / picture present. A partial
	// variant blocks submission of the whole form.
	ValidityPartial VariantValidity = "partial"
	// ValidityEmpty: neither color nor pictures.
	ValidityEmpty VariantValidity = "empty"
	// ValidityDeleted: flagged for deletion; excluded from all checks.
	ValidityDeleted VariantValidity = "deleted"
)

// VariantStatus is the per-variant detail of a validation pass.
type VariantStatus struct {
	VariantID    string
	Validity     VariantValidity
	HasColor     bool
	PictureCount int // non-deleted pictures
}

// ValidationReport aggregates variant validity for the whole form session.
type ValidationReport struct {
	Variants         []VariantStatus
	HasValidVariants bool
	AllVariantsValid bool
	Submittable      bool
}

func classifyVariant(hasColor bool, pictureCount int) VariantValidity {
	switch {
	case hasColor && pictureCount > 0:
		return ValidityComplete
	case hasColor || pictureCount > 0:
		return ValidityPartial
	default:
		return ValidityEmpty
	}
}

func buildReport(statuses []VariantStatus) ValidationReport {
	report := ValidationReport{Variants: statuses}

	live := 0
	partial := false
	for _, st := range statuses {
		if st.Validity == ValidityDeleted {
			continue
		}
		live++
		switch st.Validity {
		case ValidityComplete:
			report.HasValidVariants = true
		case ValidityPartial:
			partial = true
		}
	}

	report.AllVariantsValid = live > 0 && !partial && report.HasValidVariants && !hasEmpty(statuses)
	// Partial validity blocks submission entirely, not just that variant.
	report.Submittable = report.HasValidVariants && !partial
	return report
}

func hasEmpty(statuses []VariantStatus) bool {
	for _, st := range statuses {
		if st.Validity == ValidityEmpty {
			return true
		}
	}
	return false
}
