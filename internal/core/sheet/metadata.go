package sheet

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agenthands/estima/internal/core/model"
)

const (
	projectCodeCell   = "C4"
	projectNameCell   = "C5"
	projectClientCell = "C6"
)

// Project codes look like "ABC123456": 2-3 letters then 6 digits.
var projectCodePattern = regexp.MustCompile(`[A-Za-z]{2,3}[0-9]{6}`)

// Spreadsheets sometimes render stray date cells into the metadata block.
// Values containing these tokens are treated as artifacts, not real text.
var timestampTokens = []string{
	"GMT", "UTC",
	"Mon,", "Tue,", "Wed,", "Thu,", "Fri,", "Sat,", "Sun,",
	"Jan ", "Feb ", "Mar ", "Apr ", "May ", "Jun ",
	"Jul ", "Aug ", "Sep ", "Oct ", "Nov ", "Dec ",
}

func looksLikeTimestamp(v string) bool {
	for _, tok := range timestampTokens {
		if strings.Contains(v, tok) {
			return true
		}
	}
	return false
}

// ExtractMetadata reads the fixed metadata cells, falling back to the
// filename and finally to a synthesized temporary code. It never fails.
func ExtractMetadata(f *excelize.File, sheetName, filename string) model.ProjectMetadata {
	meta := model.ProjectMetadata{}

	code, _ := f.GetCellValue(sheetName, projectCodeCell)
	name, _ := f.GetCellValue(sheetName, projectNameCell)
	client, _ := f.GetCellValue(sheetName, projectClientCell)

	meta.Code = strings.TrimSpace(code)
	if meta.Code == "" {
		if m := projectCodePattern.FindString(filename); m != "" {
			meta.Code = strings.ToUpper(m)
		} else {
			meta.Code = fmt.Sprintf("TMP%s", time.Now().Format("060102150405"))
		}
	}

	meta.Name = strings.TrimSpace(name)
	if meta.Name == "" || looksLikeTimestamp(meta.Name) {
		meta.Name = meta.Code
	}

	meta.Client = strings.TrimSpace(client)
	if looksLikeTimestamp(meta.Client) {
		meta.Client = ""
	}

	return meta
}
