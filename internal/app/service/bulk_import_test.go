package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writePictureFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("image-bytes"), 0o644))
	return path
}

func TestImportXLSX(t *testing.T) {
	session, _ := setupSessionTest()

	blue1 := writePictureFile(t, "blue1.jpg")
	blue2 := writePictureFile(t, "blue2.jpg")
	mint := writePictureFile(t, "mint.jpg")

	path := writeWorkbook(t, [][]interface{}{
		{"color_id", "custom_color_name", "picture_file"},
		{"2", "", blue1},
		{"2", "", blue2},
		{"", "Mint", mint},
	})

	report, err := NewBulkImporter(session).ImportXLSX(path)
	require.NoError(t, err)

	assert.Equal(t, 2, report.VariantsStaged)
	assert.Equal(t, 3, report.PicturesStaged)
	assert.Empty(t, report.RowErrors)

	// consecutive same-color rows land on one variant
	require.Len(t, session.pendingOrder, 2)
	blueVariant := session.pending[session.pendingOrder[0]]
	mintVariant := session.pending[session.pendingOrder[1]]
	assert.Len(t, blueVariant.Pictures, 2)
	assert.Len(t, mintVariant.Pictures, 1)
	assert.Equal(t, "Mint", mintVariant.Color.CustomName)

	assert.True(t, session.Validate().Submittable)
}

func TestImportXLSXCollectsRowErrors(t *testing.T) {
	session, _ := setupSessionTest()

	blue1 := writePictureFile(t, "blue1.jpg")
	missing := filepath.Join(t.TempDir(), "nope.jpg")

	path := writeWorkbook(t, [][]interface{}{
		{"color_id", "custom_color_name", "picture_file"},
		{"2", "", blue1},
		{"2", "", missing},
		{"", "", blue1},
		{"not-a-number", "", blue1},
	})

	report, err := NewBulkImporter(session).ImportXLSX(path)
	require.NoError(t, err)

	assert.Equal(t, 1, report.VariantsStaged)
	assert.Equal(t, 1, report.PicturesStaged)
	require.Len(t, report.RowErrors, 3)
	assert.Equal(t, 3, report.RowErrors[0].Row)
	assert.Equal(t, 4, report.RowErrors[1].Row)
	assert.Equal(t, 5, report.RowErrors[2].Row)
}

func TestImportXLSXDuplicateColorRejected(t *testing.T) {
	session, _ := setupSessionTest()

	pic := writePictureFile(t, "red.jpg")
	// color 1 is already taken by a persisted variant
	path := writeWorkbook(t, [][]interface{}{
		{"color_id", "custom_color_name", "picture_file"},
		{"1", "", pic},
	})

	report, err := NewBulkImporter(session).ImportXLSX(path)
	assert.ErrorIs(t, err, ErrNothingStaged)
	require.Len(t, report.RowErrors, 1)
	assert.ErrorIs(t, report.RowErrors[0].Err, ErrDuplicateColor)
	assert.Empty(t, session.pending, "the unusable variant is dropped again")
}

func TestImportXLSXMissingColumns(t *testing.T) {
	session, _ := setupSessionTest()

	path := writeWorkbook(t, [][]interface{}{
		{"shade", "file"},
		{"Blue", "x.jpg"},
	})

	_, err := NewBulkImporter(session).ImportXLSX(path)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestImportXLSXEmptySheet(t *testing.T) {
	session, _ := setupSessionTest()

	path := writeWorkbook(t, [][]interface{}{
		{"color_id", "custom_color_name", "picture_file"},
	})

	_, err := NewBulkImporter(session).ImportXLSX(path)
	assert.ErrorIs(t, err, ErrNothingStaged)
}
