package sheet

import (
	"github.com/xuri/excelize/v2"

	"github.com/agenthands/estima/internal/core/model"
)

const (
	DataStartRow = 26

	// Safety stop: no supplier file legitimately has this many product rows.
	maxDataRow = 500
)

// Fallback columns tried for the product name before giving up and reusing
// the code cell.
var nameFallbackColumns = []string{"C", "D"}

// RowIterator walks product rows from the fixed start offset until the first
// empty code cell. It is single-pass: Next advances, there is no reset.
type RowIterator struct {
	f       *excelize.File
	sheet   string
	mapping model.ColumnMapping
	row     int
	done    bool
}

func NewRowIterator(f *excelize.File, sheetName string, mapping model.ColumnMapping) *RowIterator {
	return &RowIterator{
		f:       f,
		sheet:   sheetName,
		mapping: mapping,
		row:     DataStartRow,
	}
}

func (it *RowIterator) Next() (model.ExtractedRow, bool) {
	if it.done || it.row > maxDataRow {
		it.done = true
		return model.ExtractedRow{}, false
	}

	code := cellValue(it.f, it.sheet, it.mapping.CodeColumn, it.row)
	if code == "" {
		it.done = true
		return model.ExtractedRow{}, false
	}

	name := cellValue(it.f, it.sheet, it.mapping.NameColumn, it.row)
	if name == "" {
		for _, col := range nameFallbackColumns {
			if col == it.mapping.NameColumn {
				continue
			}
			if name = cellValue(it.f, it.sheet, col, it.row); name != "" {
				break
			}
		}
	}
	if name == "" {
		name = code
	}

	description := cellValue(it.f, it.sheet, it.mapping.DescriptionColumn, it.row)
	if description == "" {
		for _, col := range it.mapping.AlternateDescriptionColumns {
			if description = cellValue(it.f, it.sheet, col, it.row); description != "" {
				break
			}
		}
	}

	row := model.ExtractedRow{
		Code:        code,
		Name:        name,
		Description: description,
		SourceRow:   it.row,
	}
	it.row++
	return row, true
}

// ExtractRows drains the iterator into a slice.
func ExtractRows(f *excelize.File, sheetName string, mapping model.ColumnMapping) []model.ExtractedRow {
	var rows []model.ExtractedRow
	it := NewRowIterator(f, sheetName, mapping)
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	return rows
}

// PreviewRows returns the first limit rows plus the total row count, for
// user-facing confirmation before an import is committed.
func PreviewRows(f *excelize.File, sheetName string, mapping model.ColumnMapping, limit int) ([]model.ExtractedRow, int) {
	var preview []model.ExtractedRow
	total := 0
	it := NewRowIterator(f, sheetName, mapping)
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		total++
		if len(preview) < limit {
			preview = append(preview, row)
		}
	}
	return preview, total
}
