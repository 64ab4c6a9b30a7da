package service

import (
	"sort"

	"github.com/mateusz58/catalog-staging/internal/app/model"
)

// pictureSlot is one orderable picture of a variant, either persisted or
// client-only. Order mutations write through to the underlying record.
type pictureSlot struct {
	id        string
	persisted *model.Picture
	pending   *PendingPicture
}

func (s *pictureSlot) order() int {
	if s.persisted != nil {
		return s.persisted.Order
	}
	return s.pending.Order
}

func (s *pictureSlot) setOrder(n int) {
	if s.persisted != nil {
		s.persisted.Order = n
	} else {
		s.pending.Order = n
	}
}

// compactOrders renumbers the slots to the contiguous range 1..N, keeping
// their relative order. Removal leaves gaps on purpose, so the next order
// edit starts from a compacted range. Returns the slots whose order changed.
func compactOrders(slots []*pictureSlot) []*pictureSlot {
	sorted := make([]*pictureSlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].order() < sorted[j].order()
	})

	var changed []*pictureSlot
	for i, slot := range sorted {
		if slot.order() != i+1 {
			slot.setOrder(i + 1)
			changed = append(changed, slot)
		}
	}
	return changed
}

// moveOrder assigns newOrder to the moved slot and resolves the collision
// with a stable insert-and-push: moving earlier shifts the displaced range
// up by one (processed in descending order), moving later shifts it down
// (ascending). Orders must be compact before the call. Returns every slot
// whose order changed, the moved one included.
func moveOrder(slots []*pictureSlot, moved *pictureSlot, newOrder int) []*pictureSlot {
	oldOrder := moved.order()
	if newOrder == oldOrder {
		return nil
	}

	sorted := make([]*pictureSlot, len(slots))
	copy(sorted, slots)

	var changed []*pictureSlot
	if newOrder < oldOrder {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].order() > sorted[j].order()
		})
		for _, slot := range sorted {
			if slot == moved {
				continue
			}
			if o := slot.order(); o >= newOrder && o < oldOrder {
				slot.setOrder(o + 1)
				changed = append(changed, slot)
			}
		}
	} else {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].order() < sorted[j].order()
		})
		for _, slot := range sorted {
			if slot == moved {
				continue
			}
			if o := slot.order(); o > oldOrder && o <= newOrder {
				slot.setOrder(o - 1)
				changed = append(changed, slot)
			}
		}
	}

	moved.setOrder(newOrder)
	return append(changed, moved)
}
