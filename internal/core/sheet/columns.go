package sheet

import (
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/agenthands/estima/internal/core/model"
)

const (
	headerRow = 25

	sampleStartRow = 26
	sampleRowCount = 10

	keywordScore       = 5
	minAlternateScore  = 3
	highConfidenceMin  = 10
	mediumConfidenceMin = 5

	fallbackDescriptionColumn = "D"
)

// Columns adjacent to the fixed code/name pair that may carry the product
// description, in preference order.
var descriptionCandidates = []string{"D", "E", "F", "G", "H", "I"}

// Header keywords across the languages seen in supplier files. Substring
// match, case-insensitive.
var descriptionKeywords = []string{
	"description",
	"specification",
	"aprasymas",
	"aprašymas",
	"specifikacija",
	"pastabos",
	"notes",
	"описание",
	"техническое",
}

// DetectColumns scores each candidate column by header text and content shape
// and returns the resulting mapping. It never fails: when nothing scores, the
// fallback column is used at low confidence.
func DetectColumns(f *excelize.File, sheetName string) model.ColumnMapping {
	type scored struct {
		column string
		score  int
	}

	var candidates []scored
	for _, col := range descriptionCandidates {
		score := 0

		header := strings.ToLower(cellValue(f, sheetName, col, headerRow))
		for _, kw := range descriptionKeywords {
			if header != "" && strings.Contains(header, kw) {
				score += keywordScore
			}
		}

		filled := 0
		totalLen := 0
		for i := 0; i < sampleRowCount; i++ {
			v := cellValue(f, sheetName, col, sampleStartRow+i)
			if v == "" {
				continue
			}
			filled++
			// Rune count, not bytes: Lithuanian and Cyrillic text would
			// otherwise inflate the average against the length thresholds.
			totalLen += utf8.RuneCountInString(v)
		}

		if filled > 0 {
			avgLen := totalLen / filled
			if avgLen > 50 {
				score += 2
			}
			if avgLen > 100 {
				score += 2
			}
		}
		if filled >= 5 {
			score += 3
		}

		candidates = append(candidates, scored{column: col, score: score})
	}

	best := scored{}
	for _, c := range candidates {
		if c.score > best.score {
			best = c
		}
	}

	mapping := model.ColumnMapping{
		CodeColumn: codeColumn,
		NameColumn: nameColumn,
	}

	if best.score <= 0 {
		mapping.DescriptionColumn = fallbackDescriptionColumn
		mapping.Confidence = model.ConfidenceLow
		return mapping
	}

	mapping.DescriptionColumn = best.column
	switch {
	case best.score >= highConfidenceMin:
		mapping.Confidence = model.ConfidenceHigh
	case best.score >= mediumConfidenceMin:
		mapping.Confidence = model.ConfidenceMedium
	default:
		mapping.Confidence = model.ConfidenceLow
	}

	for _, c := range candidates {
		if c.column == best.column {
			continue
		}
		if c.score >= minAlternateScore && c.score*10 >= best.score*7 {
			mapping.AlternateDescriptionColumns = append(mapping.AlternateDescriptionColumns, c.column)
		}
	}

	return mapping
}
