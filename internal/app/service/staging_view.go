package service

// PictureSummary is one picture row of the form, persisted or staged.
type PictureSummary struct {
	ID            string
	Name          string
	Order         int
	IsPrimary     bool
	Staged        bool // awaiting upload
	MarkedDeleted bool
}

// VariantSummary is one variant card of the form.
type VariantSummary struct {
	ID            string
	ColorName     string
	Pending       bool
	MarkedDeleted bool
	Pictures      []PictureSummary
}

// Snapshot renders the session's current view of the form: pending variants
// in creation order, then persisted ones, deletion flags included. The view
// only reflects this, never the reverse.
func (s *StagingSession) Snapshot() []VariantSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []VariantSummary
	for _, id := range s.pendingOrder {
		v := s.pending[id]
		colorName, _ := s.variantColorNameLocked(id)
		summary := VariantSummary{ID: id, ColorName: colorName, Pending: true}
		for _, pic := range v.Pictures {
			summary.Pictures = append(summary.Pictures, PictureSummary{
				ID:        pic.ID,
				Name:      pic.DerivedName,
				Order:     pic.Order,
				IsPrimary: pic.IsPrimary,
				Staged:    true,
			})
		}
		summaries = append(summaries, summary)
	}

	for i := range s.component.Variants {
		v := &s.component.Variants[i]
		summary := VariantSummary{
			ID:            persistedID(v.ID),
			ColorName:     v.EffectiveColorName(),
			MarkedDeleted: s.variantDeletedLocked(v.ID),
		}
		for j := range v.Pictures {
			pic := &v.Pictures[j]
			summary.Pictures = append(summary.Pictures, PictureSummary{
				ID:            persistedID(pic.ID),
				Name:          pic.Name,
				Order:         pic.Order,
				IsPrimary:     pic.IsPrimary,
				MarkedDeleted: s.pictureDeletedLocked(v.ID, pic.ID),
			})
		}
		if change, ok := s.staged[v.ID]; ok {
			for _, pic := range change.PicturesToAdd {
				summary.Pictures = append(summary.Pictures, PictureSummary{
					ID:        pic.ID,
					Name:      pic.DerivedName,
					Order:     pic.Order,
					IsPrimary: pic.IsPrimary,
					Staged:    true,
				})
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
