package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mateusz58/catalog-staging/internal/app/model"
	"github.com/mateusz58/catalog-staging/pkg/catalogapi"
	"github.com/mateusz58/catalog-staging/pkg/logger"
	"github.com/mateusz58/catalog-staging/pkg/util"
)

var (
	ErrNotHydrated        = errors.New("session not hydrated")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrVariantDeleted     = errors.New("variant is marked for deletion")
	ErrVariantPersisted   = errors.New("color of a persisted variant cannot be changed")
	ErrPictureNotFound    = errors.New("picture not found")
	ErrInvalidColorChoice = errors.New("exactly one of color id and custom color name must be set")
	ErrDuplicateColor     = errors.New("color already used by another variant")
	ErrOrderOutOfRange    = errors.New("picture order out of range")
	ErrSupplierNotFound   = errors.New("supplier not found")
	ErrUnknownField       = errors.New("unknown component field")
	ErrFlushInProgress    = errors.New("a flush is already in progress")
)

// ComponentField names a component-level form field whose change forces
// derived picture names to be recomputed.
type ComponentField string

const (
	FieldProductNumber ComponentField = "product_number"
	FieldSupplier      ComponentField = "supplier"
)

// BackendClient is the slice of the catalog API the staging session needs.
// *catalogapi.Client satisfies it.
type BackendClient interface {
	CreateVariant(ctx context.Context, req catalogapi.CreateVariantRequest) (*model.Variant, error)
	UploadPictures(ctx context.Context, variantID uint, uploads []catalogapi.PictureUpload) ([]model.Picture, error)
	DeletePicture(ctx context.Context, variantID, pictureID uint) error
	SetPrimaryPicture(ctx context.Context, variantID, pictureID uint) error
	DeleteVariant(ctx context.Context, variantID uint) error
	GetEditData(ctx context.Context, componentID uint) (*model.EditData, error)
	UpdateComponent(ctx context.Context, componentID uint, req catalogapi.UpdateComponentRequest) error
}

// StagingSession owns the delta between what one form session shows and
// what the backend has persisted. It never holds authoritative state, only
// a hydrated read model plus pending and staged mutations, and flushes them
// as one batch. One session per form load; the session itself is the source
// of truth for the view, never the reverse.
type StagingSession struct {
	mu  sync.Mutex
	api BackendClient

	componentID    uint
	maxConcurrency int

	hydrated  bool
	baseline  model.Component // pristine copy from the last hydration
	component model.Component // working copy the form reflects
	colors    []model.Color
	suppliers []model.Supplier

	productNumber string
	supplierCode  string

	pendingSeq   int
	pendingOrder []string
	pending      map[string]*PendingVariant
	staged       map[uint]*StagedVariantChange

	// backend names and orders at hydration time, keyed by picture id;
	// renames and order updates are computed against these.
	originalNames  map[uint]string
	originalOrders map[uint]int

	changedProductNumber *string
	changedSupplierID    *uint
	supplierCleared      bool

	flushing bool
}

// NewStagingSession creates a session for one component edit form.
// maxConcurrency bounds the number of simultaneous backend requests within
// one flush phase.
func NewStagingSession(api BackendClient, componentID uint, maxConcurrency int) *StagingSession {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &StagingSession{
		api:            api,
		componentID:    componentID,
		maxConcurrency: maxConcurrency,
		pending:        map[string]*PendingVariant{},
		staged:         map[uint]*StagedVariantChange{},
		originalNames:  map[uint]string{},
		originalOrders: map[uint]int{},
	}
}

// ComponentID returns the component this session edits.
func (s *StagingSession) ComponentID() uint {
	return s.componentID
}

// Hydrate loads the component's edit-data tree from the backend and resets
// all staged and pending state.
func (s *StagingSession) Hydrate(ctx context.Context) error {
	data, err := s.api.GetEditData(ctx, s.componentID)
	if err != nil {
		logger.Error("Failed to hydrate staging session", err, map[string]interface{}{
			"component_id": s.componentID,
		})
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.baseline = cloneComponent(data.Component)
	s.component = cloneComponent(data.Component)
	s.colors = data.Colors
	s.suppliers = data.Suppliers
	s.productNumber = data.Component.ProductNumber
	s.supplierCode = data.Component.SupplierCode
	s.resetStagingLocked()
	s.hydrated = true

	logger.Info("Staging session hydrated", map[string]interface{}{
		"component_id": s.componentID,
		"variants":     len(s.component.Variants),
	})
	return nil
}

// ClearChanges drops every staged and pending mutation and restores the
// working copy from the last hydration.
func (s *StagingSession) ClearChanges() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.component = cloneComponent(s.baseline)
	s.productNumber = s.baseline.ProductNumber
	s.supplierCode = s.baseline.SupplierCode
	s.resetStagingLocked()
}

func (s *StagingSession) resetStagingLocked() {
	s.pendingSeq = 0
	s.pendingOrder = nil
	s.pending = map[string]*PendingVariant{}
	s.staged = map[uint]*StagedVariantChange{}
	s.originalNames = map[uint]string{}
	s.originalOrders = map[uint]int{}
	s.changedProductNumber = nil
	s.changedSupplierID = nil
	s.supplierCleared = false
	for _, v := range s.component.Variants {
		for _, p := range v.Pictures {
			s.originalNames[p.ID] = p.Name
			s.originalOrders[p.ID] = p.Order
		}
	}
}

// AddVariant allocates a new pending variant and returns its token for the
// view to render a card against. No backend call.
func (s *StagingSession) AddVariant() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingSeq++
	id := fmt.Sprintf("%s%d", pendingVariantPrefix, s.pendingSeq)
	s.pending[id] = &PendingVariant{ID: id}
	s.pendingOrder = append(s.pendingOrder, id)

	logger.Debug("Pending variant added", map[string]interface{}{
		"component_id": s.componentID,
		"variant_id":   id,
	})
	return id
}

// SetVariantColor sets the color of a pending variant. An existing color
// already used by another variant of the component is rejected.
func (s *StagingSession) SetVariantColor(variantID string, choice ColorChoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !isPendingVariantID(variantID) {
		if _, ok := s.persistedVariantLocked(variantID); ok {
			return ErrVariantPersisted
		}
		return ErrVariantNotFound
	}
	variant, ok := s.pending[variantID]
	if !ok {
		return ErrVariantNotFound
	}
	if !choice.valid() {
		return ErrInvalidColorChoice
	}
	if choice.ColorID != nil && s.colorInUseLocked(*choice.ColorID, variantID) {
		return ErrDuplicateColor
	}

	variant.Color = choice
	s.recomputeVariantNamesLocked(variantID)
	return nil
}

// colorInUseLocked scans every other non-deleted variant of the component
// for the given existing color.
func (s *StagingSession) colorInUseLocked(colorID uint, exceptVariantID string) bool {
	for _, id := range s.pendingOrder {
		v := s.pending[id]
		if v.ID == exceptVariantID {
			continue
		}
		if v.Color.ColorID != nil && *v.Color.ColorID == colorID {
			return true
		}
	}
	for i := range s.component.Variants {
		v := &s.component.Variants[i]
		if persistedID(v.ID) == exceptVariantID || s.variantDeletedLocked(v.ID) {
			continue
		}
		if v.ColorID != nil && *v.ColorID == colorID {
			return true
		}
	}
	return false
}

// RemoveVariant removes a pending variant outright (irreversible within the
// session) or flags a persisted one for deletion, reversible via
// UndoVariantDeletion until flush.
func (s *StagingSession) RemoveVariant(variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if isPendingVariantID(variantID) {
		if _, ok := s.pending[variantID]; !ok {
			return ErrVariantNotFound
		}
		delete(s.pending, variantID)
		for i, id := range s.pendingOrder {
			if id == variantID {
				s.pendingOrder = append(s.pendingOrder[:i], s.pendingOrder[i+1:]...)
				break
			}
		}
		logger.Debug("Pending variant removed", map[string]interface{}{"variant_id": variantID})
		return nil
	}

	variant, ok := s.persistedVariantLocked(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	s.stagedChangeLocked(variant.ID).VariantToDelete = true
	logger.Debug("Persisted variant flagged for deletion", map[string]interface{}{"variant_id": variantID})
	return nil
}

// UndoVariantDeletion clears the deletion flag of a persisted variant.
func (s *StagingSession) UndoVariantDeletion(variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	variant, ok := s.persistedVariantLocked(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	change, ok := s.staged[variant.ID]
	if !ok || !change.VariantToDelete {
		return ErrVariantNotFound
	}
	change.VariantToDelete = false
	s.dropChangeIfEmptyLocked(variant.ID)
	return nil
}

// AddPictures stages image files against a variant, continuing the
// variant's contiguous order range. The first picture of a variant becomes
// its primary. Returns the client tokens of the staged pictures.
func (s *StagingSession) AddPictures(variantID string, files []PictureFile) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(files) == 0 {
		return nil, nil
	}

	colorName, err := s.variantColorNameLocked(variantID)
	if err != nil {
		return nil, err
	}

	slots, err := s.variantSlotsLocked(variantID)
	if err != nil {
		return nil, err
	}
	nextOrder := len(slots) + 1
	hasPrimary := s.variantHasPrimaryLocked(variantID)

	prefix := stagedPicturePrefix
	if isPendingVariantID(variantID) {
		prefix = pendingPicturePrefix
	}

	ids := make([]string, 0, len(files))
	for _, file := range files {
		pic := &PendingPicture{
			ID:        prefix + uuid.NewString()[:8],
			FileName:  file.FileName,
			Data:      file.Data,
			Preview:   util.DataURL(file.FileName, file.Data),
			Order:     nextOrder,
			IsPrimary: !hasPrimary,
		}
		pic.DerivedName = DerivePictureName(s.supplierCode, s.productNumber, colorName, pic.Order)
		hasPrimary = true
		nextOrder++

		if isPendingVariantID(variantID) {
			s.pending[variantID].Pictures = append(s.pending[variantID].Pictures, pic)
		} else {
			variant, _ := s.persistedVariantLocked(variantID)
			change := s.stagedChangeLocked(variant.ID)
			change.PicturesToAdd = append(change.PicturesToAdd, pic)
		}
		ids = append(ids, pic.ID)
	}

	logger.Debug("Pictures staged", map[string]interface{}{
		"variant_id": variantID,
		"count":      len(ids),
	})
	return ids, nil
}

// RemovePicture deletes a client-only picture outright or flags a persisted
// one for deletion. Remaining pictures keep their order values.
func (s *StagingSession) RemovePicture(variantID, pictureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if isClientPictureID(pictureID) {
		return s.removeClientPictureLocked(variantID, pictureID)
	}

	variant, ok := s.persistedVariantLocked(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	picID, ok := parsePersistedID(pictureID)
	if !ok || variant.PictureByID(picID) == nil {
		return ErrPictureNotFound
	}
	s.stagedChangeLocked(variant.ID).PicturesToDelete[picID] = true
	return nil
}

func (s *StagingSession) removeClientPictureLocked(variantID, pictureID string) error {
	if isPendingVariantID(variantID) {
		variant, ok := s.pending[variantID]
		if !ok {
			return ErrVariantNotFound
		}
		for i, pic := range variant.Pictures {
			if pic.ID == pictureID {
				variant.Pictures = append(variant.Pictures[:i], variant.Pictures[i+1:]...)
				return nil
			}
		}
		return ErrPictureNotFound
	}

	variant, ok := s.persistedVariantLocked(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	change, ok := s.staged[variant.ID]
	if !ok {
		return ErrPictureNotFound
	}
	for i, pic := range change.PicturesToAdd {
		if pic.ID == pictureID {
			change.PicturesToAdd = append(change.PicturesToAdd[:i], change.PicturesToAdd[i+1:]...)
			s.dropChangeIfEmptyLocked(variant.ID)
			return nil
		}
	}
	return ErrPictureNotFound
}

// UndoPictureDeletion clears the deletion flag of a persisted picture.
func (s *StagingSession) UndoPictureDeletion(variantID, pictureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	variant, ok := s.persistedVariantLocked(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	picID, ok := parsePersistedID(pictureID)
	if !ok {
		return ErrPictureNotFound
	}
	change, exists := s.staged[variant.ID]
	if !exists || !change.PicturesToDelete[picID] {
		return ErrPictureNotFound
	}
	delete(change.PicturesToDelete, picID)
	s.dropChangeIfEmptyLocked(variant.ID)
	return nil
}

// SetPictureOrder moves a picture to newOrder within its variant. Out of
// range orders are rejected so the caller can revert the input; a collision
// resolves by insert-and-push, and every picture whose order changed gets
// its derived name recomputed.
func (s *StagingSession) SetPictureOrder(variantID, pictureID string, newOrder int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.variantSlotsLocked(variantID)
	if err != nil {
		return err
	}
	if newOrder < 1 || newOrder > len(slots) {
		return fmt.Errorf("%w: %d not in 1..%d", ErrOrderOutOfRange, newOrder, len(slots))
	}

	var moved *pictureSlot
	for _, slot := range slots {
		if slot.id == pictureID {
			moved = slot
			break
		}
	}
	if moved == nil {
		return ErrPictureNotFound
	}

	compactOrders(slots)
	moveOrder(slots, moved, newOrder)
	s.recomputeVariantNamesLocked(variantID)

	logger.Debug("Picture order changed", map[string]interface{}{
		"variant_id": variantID,
		"picture_id": pictureID,
		"new_order":  newOrder,
	})
	return nil
}

// SetPrimaryPicture makes the given picture the single primary of its
// variant. Idempotent.
func (s *StagingSession) SetPrimaryPicture(variantID, pictureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.variantSlotsLocked(variantID)
	if err != nil {
		return err
	}

	var target *pictureSlot
	for _, slot := range slots {
		if slot.id == pictureID {
			target = slot
			break
		}
	}
	if target == nil {
		return ErrPictureNotFound
	}

	for _, slot := range slots {
		if slot.persisted != nil {
			slot.persisted.IsPrimary = slot == target
		} else {
			slot.pending.IsPrimary = slot == target
		}
	}

	if !isPendingVariantID(variantID) {
		variant, _ := s.persistedVariantLocked(variantID)
		change := s.stagedChangeLocked(variant.ID)
		change.PrimaryPictureID = nil
		// only a target that differs from the hydrated primary is a delta
		if target.persisted != nil && !s.wasPrimaryAtHydrationLocked(variant.ID, target.persisted.ID) {
			id := target.persisted.ID
			change.PrimaryPictureID = &id
		}
		s.dropChangeIfEmptyLocked(variant.ID)
	}
	return nil
}

func (s *StagingSession) wasPrimaryAtHydrationLocked(variantID, pictureID uint) bool {
	variant := s.baseline.VariantByID(variantID)
	if variant == nil {
		return false
	}
	primary := variant.PrimaryPicture()
	return primary != nil && primary.ID == pictureID
}

// OnComponentFieldChange records a component-level field change and
// recomputes every picture's derived name across all variants.
func (s *StagingSession) OnComponentFieldChange(field ComponentField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case FieldProductNumber:
		s.productNumber = value
		s.component.ProductNumber = value
		v := value
		s.changedProductNumber = &v
	case FieldSupplier:
		if value == "" {
			s.supplierCode = ""
			s.component.SupplierID = nil
			s.component.SupplierCode = ""
			s.changedSupplierID = nil
			s.supplierCleared = true
			break
		}
		supplierID, ok := parsePersistedID(value)
		if !ok {
			return ErrSupplierNotFound
		}
		supplier := s.supplierByIDLocked(supplierID)
		if supplier == nil {
			return ErrSupplierNotFound
		}
		s.supplierCode = supplier.Code
		s.component.SupplierID = &supplier.ID
		s.component.SupplierCode = supplier.Code
		id := supplier.ID
		s.changedSupplierID = &id
		s.supplierCleared = false
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	s.recomputeAllNamesLocked()
	return nil
}

// Validate classifies every variant and reports overall submittability: at
// least one complete variant and no partial one.
func (s *StagingSession) Validate() ValidationReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var statuses []VariantStatus
	for _, id := range s.pendingOrder {
		v := s.pending[id]
		statuses = append(statuses, VariantStatus{
			VariantID:    id,
			Validity:     classifyVariant(v.HasColor(), len(v.Pictures)),
			HasColor:     v.HasColor(),
			PictureCount: len(v.Pictures),
		})
	}
	for i := range s.component.Variants {
		v := &s.component.Variants[i]
		if s.variantDeletedLocked(v.ID) {
			statuses = append(statuses, VariantStatus{
				VariantID: persistedID(v.ID),
				Validity:  ValidityDeleted,
			})
			continue
		}
		count := s.livePictureCountLocked(v)
		hasColor := v.ColorID != nil || v.CustomColorName != ""
		statuses = append(statuses, VariantStatus{
			VariantID:    persistedID(v.ID),
			Validity:     classifyVariant(hasColor, count),
			HasColor:     hasColor,
			PictureCount: count,
		})
	}
	return buildReport(statuses)
}

// internal helpers

func (s *StagingSession) persistedVariantLocked(variantID string) (*model.Variant, bool) {
	id, ok := parsePersistedID(variantID)
	if !ok {
		return nil, false
	}
	v := s.component.VariantByID(id)
	if v == nil {
		return nil, false
	}
	return v, true
}

func (s *StagingSession) stagedChangeLocked(variantID uint) *StagedVariantChange {
	change, ok := s.staged[variantID]
	if !ok {
		change = newStagedVariantChange(variantID)
		s.staged[variantID] = change
	}
	return change
}

func (s *StagingSession) dropChangeIfEmptyLocked(variantID uint) {
	if change, ok := s.staged[variantID]; ok && change.empty() {
		delete(s.staged, variantID)
	}
}

func (s *StagingSession) variantDeletedLocked(variantID uint) bool {
	change, ok := s.staged[variantID]
	return ok && change.VariantToDelete
}

func (s *StagingSession) pictureDeletedLocked(variantID, pictureID uint) bool {
	change, ok := s.staged[variantID]
	return ok && change.PicturesToDelete[pictureID]
}

func (s *StagingSession) livePictureCountLocked(v *model.Variant) int {
	count := 0
	for i := range v.Pictures {
		if !s.pictureDeletedLocked(v.ID, v.Pictures[i].ID) {
			count++
		}
	}
	if change, ok := s.staged[v.ID]; ok {
		count += len(change.PicturesToAdd)
	}
	return count
}

// variantSlotsLocked returns the orderable non-deleted pictures of a
// variant: persisted survivors plus staged additions.
func (s *StagingSession) variantSlotsLocked(variantID string) ([]*pictureSlot, error) {
	if isPendingVariantID(variantID) {
		variant, ok := s.pending[variantID]
		if !ok {
			return nil, ErrVariantNotFound
		}
		slots := make([]*pictureSlot, 0, len(variant.Pictures))
		for _, pic := range variant.Pictures {
			slots = append(slots, &pictureSlot{id: pic.ID, pending: pic})
		}
		return slots, nil
	}

	variant, ok := s.persistedVariantLocked(variantID)
	if !ok {
		return nil, ErrVariantNotFound
	}
	if s.variantDeletedLocked(variant.ID) {
		return nil, ErrVariantDeleted
	}

	var slots []*pictureSlot
	for i := range variant.Pictures {
		pic := &variant.Pictures[i]
		if s.pictureDeletedLocked(variant.ID, pic.ID) {
			continue
		}
		slots = append(slots, &pictureSlot{id: persistedID(pic.ID), persisted: pic})
	}
	if change, ok := s.staged[variant.ID]; ok {
		for _, pic := range change.PicturesToAdd {
			slots = append(slots, &pictureSlot{id: pic.ID, pending: pic})
		}
	}
	return slots, nil
}

func (s *StagingSession) variantHasPrimaryLocked(variantID string) bool {
	slots, err := s.variantSlotsLocked(variantID)
	if err != nil {
		return false
	}
	for _, slot := range slots {
		if slot.persisted != nil && slot.persisted.IsPrimary {
			return true
		}
		if slot.pending != nil && slot.pending.IsPrimary {
			return true
		}
	}
	return false
}

func (s *StagingSession) variantColorNameLocked(variantID string) (string, error) {
	if isPendingVariantID(variantID) {
		variant, ok := s.pending[variantID]
		if !ok {
			return "", ErrVariantNotFound
		}
		if variant.Color.ColorID != nil {
			if color := s.colorByIDLocked(*variant.Color.ColorID); color != nil {
				return color.Name, nil
			}
		}
		return variant.Color.CustomName, nil
	}

	variant, ok := s.persistedVariantLocked(variantID)
	if !ok {
		return "", ErrVariantNotFound
	}
	if s.variantDeletedLocked(variant.ID) {
		return "", ErrVariantDeleted
	}
	return variant.EffectiveColorName(), nil
}

func (s *StagingSession) colorByIDLocked(id uint) *model.Color {
	for i := range s.colors {
		if s.colors[i].ID == id {
			return &s.colors[i]
		}
	}
	return nil
}

func (s *StagingSession) supplierByIDLocked(id uint) *model.Supplier {
	for i := range s.suppliers {
		if s.suppliers[i].ID == id {
			return &s.suppliers[i]
		}
	}
	return nil
}

// recomputeVariantNamesLocked re-derives the name of every non-deleted
// picture of one variant and records renames of persisted pictures against
// their hydration-time names.
func (s *StagingSession) recomputeVariantNamesLocked(variantID string) {
	colorName, err := s.variantColorNameLocked(variantID)
	if err != nil {
		return
	}
	slots, err := s.variantSlotsLocked(variantID)
	if err != nil {
		return
	}

	for _, slot := range slots {
		newName := DerivePictureName(s.supplierCode, s.productNumber, colorName, slot.order())
		if slot.pending != nil {
			slot.pending.DerivedName = newName
			continue
		}
		originalName := s.originalNames[slot.persisted.ID]
		variant, _ := s.persistedVariantLocked(variantID)
		change := s.stagedChangeLocked(variant.ID)
		if newName == originalName {
			delete(change.PictureRenames, originalName)
		} else {
			change.PictureRenames[originalName] = newName
		}
		s.dropChangeIfEmptyLocked(variant.ID)
	}
}

func (s *StagingSession) recomputeAllNamesLocked() {
	for _, id := range s.pendingOrder {
		s.recomputeVariantNamesLocked(id)
	}
	for i := range s.component.Variants {
		v := &s.component.Variants[i]
		if s.variantDeletedLocked(v.ID) {
			continue
		}
		s.recomputeVariantNamesLocked(persistedID(v.ID))
	}
}

func cloneComponent(c model.Component) model.Component {
	clone := c
	clone.CategoryIDs = append([]uint(nil), c.CategoryIDs...)
	clone.Keywords = append([]string(nil), c.Keywords...)
	clone.Variants = make([]model.Variant, len(c.Variants))
	for i, v := range c.Variants {
		cv := v
		cv.Pictures = append([]model.Picture(nil), v.Pictures...)
		clone.Variants[i] = cv
	}
	return clone
}
