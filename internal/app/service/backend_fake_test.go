package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusz58/catalog-staging/internal/app/model"
	"github.com/mateusz58/catalog-staging/pkg/catalogapi"
)

// fakeBackend records every call and can be told to fail specific
// operations, standing in for the catalog REST API.
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	fail      map[string]error
	editData  model.EditData
	variantID uint
	pictureID uint
	created   []catalogapi.CreateVariantRequest
	uploads   map[uint][]catalogapi.PictureUpload
	updates   []catalogapi.UpdateComponentRequest
	deletedV  []uint
	deletedP  [][2]uint
	primaries [][2]uint
}

func newFakeBackend(data model.EditData) *fakeBackend {
	return &fakeBackend{
		fail:      map[string]error{},
		editData:  data,
		variantID: 1000,
		pictureID: 5000,
		uploads:   map[uint][]catalogapi.PictureUpload{},
	}
}

func (f *fakeBackend) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) CreateVariant(_ context.Context, req catalogapi.CreateVariantRequest) (*model.Variant, error) {
	if err := f.record("create_variant"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variantID++
	f.created = append(f.created, req)
	v := &model.Variant{ID: f.variantID, ComponentID: req.ComponentID, ColorID: req.ColorID, CustomColorName: req.CustomColorName}
	return v, nil
}

func (f *fakeBackend) UploadPictures(_ context.Context, variantID uint, uploads []catalogapi.PictureUpload) ([]model.Picture, error) {
	if err := f.record(fmt.Sprintf("upload_pictures:%d", variantID)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[variantID] = append(f.uploads[variantID], uploads...)
	pictures := make([]model.Picture, len(uploads))
	for i, u := range uploads {
		f.pictureID++
		pictures[i] = model.Picture{ID: f.pictureID, VariantID: variantID, Order: u.Order, IsPrimary: u.IsPrimary}
	}
	return pictures, nil
}

func (f *fakeBackend) DeletePicture(_ context.Context, variantID, pictureID uint) error {
	if err := f.record(fmt.Sprintf("delete_picture:%d:%d", variantID, pictureID)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedP = append(f.deletedP, [2]uint{variantID, pictureID})
	return nil
}

func (f *fakeBackend) SetPrimaryPicture(_ context.Context, variantID, pictureID uint) error {
	if err := f.record(fmt.Sprintf("set_primary:%d:%d", variantID, pictureID)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.primaries = append(f.primaries, [2]uint{variantID, pictureID})
	return nil
}

func (f *fakeBackend) DeleteVariant(_ context.Context, variantID uint) error {
	if err := f.record(fmt.Sprintf("delete_variant:%d", variantID)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedV = append(f.deletedV, variantID)
	return nil
}

func (f *fakeBackend) GetEditData(_ context.Context, componentID uint) (*model.EditData, error) {
	if err := f.record("get_edit_data"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data := f.editData
	return &data, nil
}

func (f *fakeBackend) UpdateComponent(_ context.Context, componentID uint, req catalogapi.UpdateComponentRequest) error {
	if err := f.record("update_component"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, req)
	return nil
}

func uintPtr(v uint) *uint { return &v }

// testEditData is a component with two persisted variants: 10 (color Red,
// pictures 100 primary and 101) and 11 (custom color Navy, picture 110).
func testEditData() model.EditData {
	return model.EditData{
		Component: model.Component{
			ID:            7,
			ProductNumber: "ABC",
			SupplierID:    uintPtr(1),
			SupplierCode:  "SUP",
			Variants: []model.Variant{
				{
					ID: 10, ComponentID: 7, ColorID: uintPtr(1), ColorName: "Red",
					Pictures: []model.Picture{
						{ID: 100, VariantID: 10, Name: "sup_abc_red_1", Order: 1, IsPrimary: true},
						{ID: 101, VariantID: 10, Name: "sup_abc_red_2", Order: 2},
					},
				},
				{
					ID: 11, ComponentID: 7, CustomColorName: "Navy",
					Pictures: []model.Picture{
						{ID: 110, VariantID: 11, Name: "sup_abc_navy_1", Order: 1, IsPrimary: true},
					},
				},
			},
		},
		Colors: []model.Color{
			{ID: 1, Name: "Red"},
			{ID: 2, Name: "Blue"},
			{ID: 3, Name: "Forest Green"},
		},
		Suppliers: []model.Supplier{
			{ID: 1, Name: "Supplies Inc", Code: "SUP"},
			{ID: 2, Name: "Other Parts", Code: "OTH"},
		},
	}
}

func setupSessionTest() (*StagingSession, *fakeBackend) {
	backend := newFakeBackend(testEditData())
	session := NewStagingSession(backend, 7, 2)
	if err := session.Hydrate(context.Background()); err != nil {
		panic(err)
	}
	return session, backend
}
