package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mateusz58/catalog-staging/internal/app/model"
	"github.com/mateusz58/catalog-staging/pkg/catalogapi"
	"github.com/mateusz58/catalog-staging/pkg/logger"
)

// Flush phases, executed in this order. Requests within one phase run
// concurrently and are awaited together; phases never overlap.
const (
	PhaseVariantDeletes  = "variant_deletes"
	PhasePictureDeletes  = "picture_deletes"
	PhasePictureUploads  = "picture_uploads"
	PhaseVariantCreates  = "variant_creates"
	PhaseComponentUpdate = "component_update"
)

// FlushFailure is one failed backend call of a flush batch.
type FlushFailure struct {
	Phase string
	Op    string
	Err   error
}

// FlushError aggregates the failures of one flush. Operations that
// succeeded before or beside a failure are not rolled back; the session
// keeps its staged state so the operator can inspect and retry.
type FlushError struct {
	Failures []FlushFailure
}

func (e *FlushError) Error() string {
	ops := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ops[i] = fmt.Sprintf("%s/%s: %v", f.Phase, f.Op, f.Err)
	}
	return fmt.Sprintf("flush failed (%d of the batch): %s", len(e.Failures), strings.Join(ops, "; "))
}

type flushOp struct {
	name string
	run  func(ctx context.Context) error
}

// Flush translates all staged and pending state into backend calls: variant
// deletions, picture deletions, picture uploads, pending-variant creations,
// then the component update carrying renames and order values. On overall
// success the session re-hydrates from the backend; on any failure the
// staged state stays untouched for inspection and manual retry.
func (s *StagingSession) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.hydrated {
		s.mu.Unlock()
		return ErrNotHydrated
	}
	if s.flushing {
		s.mu.Unlock()
		return ErrFlushInProgress
	}
	s.flushing = true

	phases := []struct {
		name string
		ops  []flushOp
	}{
		{PhaseVariantDeletes, s.variantDeleteOpsLocked()},
		{PhasePictureDeletes, s.pictureDeleteOpsLocked()},
		{PhasePictureUploads, s.pictureUploadOpsLocked()},
		{PhaseVariantCreates, s.variantCreateOpsLocked()},
	}
	update, hasUpdate := s.componentUpdateLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.flushing = false
		s.mu.Unlock()
	}()

	var failures []FlushFailure
	for _, phase := range phases {
		if len(phase.ops) == 0 {
			continue
		}
		logger.Info("Flush phase started", map[string]interface{}{
			"component_id": s.componentID,
			"phase":        phase.name,
			"ops":          len(phase.ops),
		})
		failures = append(failures, s.runPhase(ctx, phase.name, phase.ops)...)
	}

	if hasUpdate {
		if err := s.api.UpdateComponent(ctx, s.componentID, update); err != nil {
			failures = append(failures, FlushFailure{
				Phase: PhaseComponentUpdate,
				Op:    fmt.Sprintf("component %d", s.componentID),
				Err:   err,
			})
		}
	}

	if len(failures) > 0 {
		err := &FlushError{Failures: failures}
		logger.Error("Flush finished with failures", err, map[string]interface{}{
			"component_id": s.componentID,
			"failed_ops":   len(failures),
		})
		return err
	}

	logger.Info("Flush succeeded", map[string]interface{}{
		"component_id": s.componentID,
	})

	// Drop the applied deltas before refreshing: a failed refresh must
	// never leave the batch eligible for a second send.
	s.mu.Lock()
	s.pruneFlushedLocked()
	s.baseline = cloneComponent(s.component)
	s.resetStagingLocked()
	s.mu.Unlock()

	// The backend is the authority for the post-flush state; refresh the
	// read model.
	if err := s.Hydrate(ctx); err != nil {
		logger.Warn("Flush applied but re-hydration failed", map[string]interface{}{
			"component_id": s.componentID,
			"error":        err.Error(),
		})
		return fmt.Errorf("refresh after flush: %w", err)
	}
	return nil
}

// pruneFlushedLocked removes flushed-away variants and pictures from the
// working copy so the session stays usable even when the refresh fails.
func (s *StagingSession) pruneFlushedLocked() {
	variants := make([]model.Variant, 0, len(s.component.Variants))
	for i := range s.component.Variants {
		v := s.component.Variants[i]
		if s.variantDeletedLocked(v.ID) {
			continue
		}
		pictures := make([]model.Picture, 0, len(v.Pictures))
		for _, p := range v.Pictures {
			if !s.pictureDeletedLocked(v.ID, p.ID) {
				pictures = append(pictures, p)
			}
		}
		v.Pictures = pictures
		variants = append(variants, v)
	}
	s.component.Variants = variants
}

// runPhase executes one phase's ops with bounded concurrency and collects
// every failure.
func (s *StagingSession) runPhase(ctx context.Context, phase string, ops []flushOp) []FlushFailure {
	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []FlushFailure

	for _, op := range ops {
		wg.Add(1)
		sem <- struct{}{}
		go func(op flushOp) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := op.run(ctx); err != nil {
				mu.Lock()
				failures = append(failures, FlushFailure{Phase: phase, Op: op.name, Err: err})
				mu.Unlock()
			}
		}(op)
	}
	wg.Wait()
	return failures
}

func (s *StagingSession) variantDeleteOpsLocked() []flushOp {
	var ops []flushOp
	for _, change := range s.sortedChangesLocked() {
		if !change.VariantToDelete {
			continue
		}
		variantID := change.VariantID
		ops = append(ops, flushOp{
			name: fmt.Sprintf("variant %d", variantID),
			run: func(ctx context.Context) error {
				return s.api.DeleteVariant(ctx, variantID)
			},
		})
	}
	return ops
}

func (s *StagingSession) pictureDeleteOpsLocked() []flushOp {
	var ops []flushOp
	for _, change := range s.sortedChangesLocked() {
		// a deleted variant takes its pictures with it
		if change.VariantToDelete {
			continue
		}
		variantID := change.VariantID
		picIDs := make([]uint, 0, len(change.PicturesToDelete))
		for id := range change.PicturesToDelete {
			picIDs = append(picIDs, id)
		}
		sort.Slice(picIDs, func(i, j int) bool { return picIDs[i] < picIDs[j] })
		for _, picID := range picIDs {
			picID := picID
			ops = append(ops, flushOp{
				name: fmt.Sprintf("picture %d of variant %d", picID, variantID),
				run: func(ctx context.Context) error {
					return s.api.DeletePicture(ctx, variantID, picID)
				},
			})
		}
	}
	return ops
}

func (s *StagingSession) pictureUploadOpsLocked() []flushOp {
	var ops []flushOp
	for _, change := range s.sortedChangesLocked() {
		if change.VariantToDelete {
			continue
		}
		variantID := change.VariantID

		if len(change.PicturesToAdd) > 0 {
			uploads := buildUploads(change.PicturesToAdd)
			ops = append(ops, flushOp{
				name: fmt.Sprintf("upload %d pictures to variant %d", len(uploads), variantID),
				run: func(ctx context.Context) error {
					_, err := s.api.UploadPictures(ctx, variantID, uploads)
					return err
				},
			})
		}

		if change.PrimaryPictureID != nil {
			picID := *change.PrimaryPictureID
			ops = append(ops, flushOp{
				name: fmt.Sprintf("primary picture %d of variant %d", picID, variantID),
				run: func(ctx context.Context) error {
					return s.api.SetPrimaryPicture(ctx, variantID, picID)
				},
			})
		}
	}
	return ops
}

func (s *StagingSession) variantCreateOpsLocked() []flushOp {
	var ops []flushOp
	for _, id := range s.pendingOrder {
		variant := s.pending[id]
		req := catalogapi.CreateVariantRequest{
			ComponentID:     s.componentID,
			ColorID:         variant.Color.ColorID,
			CustomColorName: variant.Color.CustomName,
		}
		uploads := buildUploads(variant.Pictures)
		variantToken := id
		ops = append(ops, flushOp{
			name: fmt.Sprintf("create variant %s", variantToken),
			run: func(ctx context.Context) error {
				created, err := s.api.CreateVariant(ctx, req)
				if err != nil {
					return err
				}
				if len(uploads) == 0 {
					return nil
				}
				_, err = s.api.UploadPictures(ctx, created.ID, uploads)
				return err
			},
		})
	}
	return ops
}

// componentUpdateLocked assembles the trailing PUT: field changes, the
// accumulated renames and every persisted picture whose order moved since
// hydration.
func (s *StagingSession) componentUpdateLocked() (catalogapi.UpdateComponentRequest, bool) {
	req := catalogapi.UpdateComponentRequest{
		ProductNumber: s.changedProductNumber,
		SupplierID:    s.changedSupplierID,
		ClearSupplier: s.supplierCleared,
	}

	renames := map[string]string{}
	for _, change := range s.staged {
		if change.VariantToDelete {
			continue
		}
		for oldName, newName := range change.PictureRenames {
			renames[oldName] = newName
		}
		// renames of pictures this batch deletes go down with them
		for picID := range change.PicturesToDelete {
			delete(renames, s.originalNames[picID])
		}
	}
	if len(renames) > 0 {
		req.PictureRenames = renames
	}

	orders := map[uint]int{}
	for i := range s.component.Variants {
		v := &s.component.Variants[i]
		if s.variantDeletedLocked(v.ID) {
			continue
		}
		for j := range v.Pictures {
			pic := &v.Pictures[j]
			if s.pictureDeletedLocked(v.ID, pic.ID) {
				continue
			}
			if original, ok := s.originalOrders[pic.ID]; ok && original != pic.Order {
				orders[pic.ID] = pic.Order
			}
		}
	}
	if len(orders) > 0 {
		req.PictureOrders = orders
	}

	hasUpdate := req.ProductNumber != nil || req.SupplierID != nil || req.ClearSupplier ||
		len(req.PictureRenames) > 0 || len(req.PictureOrders) > 0
	return req, hasUpdate
}

func (s *StagingSession) sortedChangesLocked() []*StagedVariantChange {
	changes := make([]*StagedVariantChange, 0, len(s.staged))
	for _, change := range s.staged {
		changes = append(changes, change)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].VariantID < changes[j].VariantID })
	return changes
}

// buildUploads converts staged pictures to upload parts; the wire file name
// is the derived name with the original extension.
func buildUploads(pictures []*PendingPicture) []catalogapi.PictureUpload {
	uploads := make([]catalogapi.PictureUpload, 0, len(pictures))
	for _, pic := range pictures {
		fileName := pic.DerivedName + filepath.Ext(pic.FileName)
		uploads = append(uploads, catalogapi.PictureUpload{
			FileName:  fileName,
			Data:      pic.Data,
			Order:     pic.Order,
			IsPrimary: pic.IsPrimary,
		})
	}
	return uploads
}
