package service

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mateusz58/catalog-staging/pkg/logger"
)

var (
	ErrNothingStaged  = errors.New("spreadsheet staged no variants")
	ErrMissingColumns = errors.New("spreadsheet is missing required columns")
)

// Spreadsheet columns. One row per picture; consecutive rows with the same
// color become one variant.
const (
	columnColorID     = "color_id"
	columnCustomColor = "custom_color_name"
	columnPictureFile = "picture_file"
)

// RowError is one spreadsheet row the importer had to skip.
type RowError struct {
	Row int // 1-based, as shown in spreadsheet software
	Err error
}

// ImportReport summarizes a bulk staging run.
type ImportReport struct {
	VariantsStaged int
	PicturesStaged int
	RowErrors      []RowError
}

// BulkImporter stages variants and pictures for a component from an XLSX
// sheet. Staged rows land in the session for review; nothing is flushed.
type BulkImporter struct {
	session *StagingSession
}

func NewBulkImporter(session *StagingSession) *BulkImporter {
	return &BulkImporter{session: session}
}

// ImportXLSX reads the first sheet of the workbook and stages its rows.
// Broken rows are collected per row number and skipped; a sheet that stages
// nothing at all is an error.
func (b *BulkImporter) ImportXLSX(path string) (*ImportReport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrNothingStaged
	}

	columns, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	currentKey := ""
	currentVariant := ""

	for i, row := range rows[1:] {
		rowNum := i + 2
		colorID, customName, picturePath := cellValue(row, columns[columnColorID]),
			cellValue(row, columns[columnCustomColor]),
			cellValue(row, columns[columnPictureFile])

		choice, key, err := parseColorCells(colorID, customName)
		if err != nil {
			report.RowErrors = append(report.RowErrors, RowError{Row: rowNum, Err: err})
			continue
		}

		if key != currentKey || currentVariant == "" {
			variantID := b.session.AddVariant()
			if err := b.session.SetVariantColor(variantID, choice); err != nil {
				report.RowErrors = append(report.RowErrors, RowError{Row: rowNum, Err: err})
				// drop the unusable empty variant again
				_ = b.session.RemoveVariant(variantID)
				currentKey, currentVariant = "", ""
				continue
			}
			currentKey, currentVariant = key, variantID
			report.VariantsStaged++
		}

		data, err := os.ReadFile(picturePath)
		if err != nil {
			report.RowErrors = append(report.RowErrors, RowError{Row: rowNum, Err: fmt.Errorf("read picture: %w", err)})
			continue
		}
		if _, err := b.session.AddPictures(currentVariant, []PictureFile{{
			FileName: picturePath,
			Data:     data,
		}}); err != nil {
			report.RowErrors = append(report.RowErrors, RowError{Row: rowNum, Err: err})
			continue
		}
		report.PicturesStaged++
	}

	if report.VariantsStaged == 0 {
		return report, ErrNothingStaged
	}

	logger.Info("Bulk import staged", map[string]interface{}{
		"component_id": b.session.ComponentID(),
		"variants":     report.VariantsStaged,
		"pictures":     report.PicturesStaged,
		"row_errors":   len(report.RowErrors),
	})
	return report, nil
}

func headerIndex(header []string) (map[string]int, error) {
	columns := map[string]int{
		columnColorID:     -1,
		columnCustomColor: -1,
		columnPictureFile: -1,
	}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := columns[key]; ok {
			columns[key] = i
		}
	}
	if columns[columnPictureFile] < 0 || (columns[columnColorID] < 0 && columns[columnCustomColor] < 0) {
		return nil, ErrMissingColumns
	}
	return columns, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseColorCells(colorID, customName string) (ColorChoice, string, error) {
	if colorID != "" {
		id, err := strconv.ParseUint(colorID, 10, 64)
		if err != nil {
			return ColorChoice{}, "", fmt.Errorf("invalid color_id %q", colorID)
		}
		cid := uint(id)
		return ColorChoice{ColorID: &cid}, "id:" + colorID, nil
	}
	if customName != "" {
		return ColorChoice{CustomName: customName}, "name:" + strings.ToLower(customName), nil
	}
	return ColorChoice{}, "", ErrInvalidColorChoice
}
