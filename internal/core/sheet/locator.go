package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Layout constants for supplier estimation workbooks. Column letters and row
// offsets follow the canonical template; everything else is detected
// heuristically because suppliers rearrange the rest freely.
const (
	canonicalSheetName = "Samata"
	anchorCell         = "B26"

	codeColumn = "B"
	nameColumn = "C"

	scanStartRow = 26
	scanEndRow   = 99
)

var ErrNoUsableSheet = errors.New("no usable worksheet")

func cellValue(f *excelize.File, sheet, col string, row int) string {
	v, err := f.GetCellValue(sheet, fmt.Sprintf("%s%d", col, row))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// LocateWorksheet picks the worksheet most likely to hold product rows.
// The canonical sheet wins if its anchor cell is filled; otherwise every
// sheet is scored by how many rows in the scan window have both a code and a
// name cell filled. First sheet wins ties.
func LocateWorksheet(f *excelize.File) (string, error) {
	for _, name := range f.GetSheetList() {
		if !strings.EqualFold(name, canonicalSheetName) {
			continue
		}
		v, err := f.GetCellValue(name, anchorCell)
		if err == nil && strings.TrimSpace(v) != "" {
			return name, nil
		}
	}

	bestSheet := ""
	bestCount := 0
	for _, name := range f.GetSheetList() {
		count := 0
		for row := scanStartRow; row <= scanEndRow; row++ {
			if cellValue(f, name, codeColumn, row) != "" && cellValue(f, name, nameColumn, row) != "" {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestSheet = name
		}
	}

	if bestSheet == "" {
		return "", fmt.Errorf("%w: no sheet has rows %d-%d with both column %s and column %s filled (checked %d sheets)",
			ErrNoUsableSheet, scanStartRow, scanEndRow, codeColumn, nameColumn, len(f.GetSheetList()))
	}

	return bestSheet, nil
}
