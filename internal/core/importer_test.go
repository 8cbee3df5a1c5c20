package core

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agenthands/estima/internal/config"
	"github.com/agenthands/estima/internal/store"
)

type testRow struct {
	code        string
	name        string
	description string
}

// buildWorkbook renders an estimation workbook in the canonical layout.
func buildWorkbook(t *testing.T, rows []testRow) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Samata"))

	require.NoError(t, f.SetCellValue("Samata", "C4", "AB123456"))
	require.NoError(t, f.SetCellValue("Samata", "C5", "Hotel lobby"))
	require.NoError(t, f.SetCellValue("Samata", "C6", "Acme Interiors"))
	require.NoError(t, f.SetCellValue("Samata", "E25", "Description"))

	for i, row := range rows {
		r := 26 + i
		require.NoError(t, f.SetCellValue("Samata", fmt.Sprintf("B%d", r), row.code))
		require.NoError(t, f.SetCellValue("Samata", fmt.Sprintf("C%d", r), row.name))
		require.NoError(t, f.SetCellValue("Samata", fmt.Sprintf("E%d", r), row.description))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func defaultRows() []testRow {
	return []testRow{
		{"F001", "Stalas apvalus", "Marble-top table with brushed steel legs"},
		{"F002", "Vitrina", "Glass display cabinet with LED strip"},
		{"F003", "Pakaba", "Chrome coat hook"},
	}
}

func newTestStore() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.AddType("type-stalas", "Stalas", "stalas", "table")
	s.AddType("type-vitrina", "Vitrina", "vitrina", "display cabinet")
	s.AddType("type-kita", "Kita")
	return s
}

func newTestImporter(s store.Store, llm *MockLLM) *Importer {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return NewImporter(s, llm, cfg)
}

func TestImportCreatesProductsAndComponents(t *testing.T) {
	file := buildWorkbook(t, defaultRows())
	s := newTestStore()
	mockLLM := &MockLLM{Response: `[{"name": "Tabletop", "material": "oak"}]`}
	imp := newTestImporter(s, mockLLM)

	result, err := imp.Import(context.Background(), file, "AB123456.xlsx", nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "AB123456", result.ProjectCode)
	assert.Equal(t, 3, result.ProductsCreated)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, 1, result.Rows[0].ComponentsFound)

	require.Len(t, s.Products, 3)
	assert.Equal(t, "type-stalas", s.Products[0].TypeID)
	assert.Equal(t, "type-vitrina", s.Products[1].TypeID)
	assert.Equal(t, "type-kita", s.Products[2].TypeID)
	assert.Len(t, s.Reviews, 3)
	assert.Len(t, s.Components, 3)
}

func TestReimportSkipsDuplicates(t *testing.T) {
	file := buildWorkbook(t, defaultRows())
	s := newTestStore()
	mockLLM := &MockLLM{Response: `[{"name": "Tabletop"}]`}
	imp := newTestImporter(s, mockLLM)

	first, err := imp.Import(context.Background(), file, "AB123456.xlsx", nil)
	require.NoError(t, err)
	require.Equal(t, 3, first.ProductsCreated)

	second, err := imp.Import(context.Background(), file, "AB123456.xlsx", nil)
	require.NoError(t, err)

	assert.True(t, second.Success)
	assert.Equal(t, 0, second.ProductsCreated)
	assert.Len(t, s.Products, 3)

	skipped := 0
	for _, w := range second.Warnings {
		if strings.Contains(w, "already exists") {
			skipped++
		}
	}
	assert.Equal(t, 3, skipped)
}

func TestImportSurvivesInvalidModelResponse(t *testing.T) {
	file := buildWorkbook(t, defaultRows())
	s := newTestStore()
	mockLLM := &MockLLM{Response: "I am not JSON"}
	imp := newTestImporter(s, mockLLM)

	result, err := imp.Import(context.Background(), file, "AB123456.xlsx", nil)
	require.NoError(t, err)

	// Products are still created; the failed analysis is only a warning.
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.ProductsCreated)
	assert.NotEmpty(t, result.Warnings)
	assert.Empty(t, s.Components)
}

func TestImportManualOverrideBypassesClassifier(t *testing.T) {
	file := buildWorkbook(t, []testRow{
		{"F001", "Pakaba", "Chrome coat hook"},
	})
	s := newTestStore()
	mockLLM := &MockLLM{Response: `[]`}
	imp := newTestImporter(s, mockLLM)

	overrides := map[string]string{"F001": "type-vitrina"}
	result, err := imp.Import(context.Background(), file, "AB123456.xlsx", overrides)
	require.NoError(t, err)

	require.Equal(t, 1, result.ProductsCreated)
	require.Len(t, s.Products, 1)
	assert.Equal(t, "type-vitrina", s.Products[0].TypeID)
	assert.Empty(t, s.Products[0].MatchedPhrase)
}

func TestImportEmptyDescriptionSkipsAnalysis(t *testing.T) {
	file := buildWorkbook(t, []testRow{
		{"F001", "Stalas", ""},
	})
	s := newTestStore()
	mockLLM := &MockLLM{Response: `[]`}
	imp := newTestImporter(s, mockLLM)

	result, err := imp.Import(context.Background(), file, "AB123456.xlsx", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ProductsCreated)
	assert.Equal(t, 0, mockLLM.Calls)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "component analysis skipped")
}

func TestImportFailsWithoutUsableSheet(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	imp := newTestImporter(newTestStore(), &MockLLM{})
	_, err = imp.Import(context.Background(), buf.Bytes(), "empty.xlsx", nil)
	require.Error(t, err)
}

func TestImportFailsOnGarbageFile(t *testing.T) {
	imp := newTestImporter(newTestStore(), &MockLLM{})
	_, err := imp.Import(context.Background(), []byte("not a workbook"), "bad.xlsx", nil)
	require.Error(t, err)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	file := buildWorkbook(t, defaultRows())
	s := newTestStore()
	imp := newTestImporter(s, &MockLLM{})

	result, err := imp.Preview(context.Background(), file, "AB123456.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "AB123456", result.ProjectCode)
	assert.Equal(t, "Samata", result.SheetName)
	assert.Equal(t, "E", result.ColumnMapping.DescriptionColumn)
	assert.Equal(t, 3, result.TotalRows)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "Stalas", result.Rows[0].DetectedType)
	assert.Equal(t, "stalas", result.Rows[0].MatchedPhrase)

	assert.Empty(t, s.Projects)
	assert.Empty(t, s.Products)
}

func TestReanalyzeRerunsReconciliation(t *testing.T) {
	file := buildWorkbook(t, []testRow{
		{"F001", "Stalas", "Oak table"},
	})
	s := newTestStore()
	mockLLM := &MockLLM{ResponseQueue: []string{
		`[{"name": "Tabletop", "material": "oak"}]`,
		`[{"name": "tabletop", "finish": "lacquered"}]`,
	}}
	imp := newTestImporter(s, mockLLM)

	_, err := imp.Import(context.Background(), file, "AB123456.xlsx", nil)
	require.NoError(t, err)
	require.Len(t, s.Products, 1)
	require.Len(t, s.Components, 1)

	result, err := imp.Reanalyze(context.Background(), s.Products[0].ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ComponentsFound)
	// The re-run merged onto the existing component instead of duplicating it.
	require.Len(t, s.Components, 1)
	assert.Equal(t, "oak", s.Components[0].Material)
	assert.Equal(t, "lacquered", s.Components[0].Finish)
}

func TestReanalyzeUnknownProduct(t *testing.T) {
	imp := newTestImporter(newTestStore(), &MockLLM{})
	_, err := imp.Reanalyze(context.Background(), "missing-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
