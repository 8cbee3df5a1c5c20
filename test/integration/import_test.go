//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agenthands/estima/internal/config"
	"github.com/agenthands/estima/internal/core"
	"github.com/agenthands/estima/internal/llm"
	"github.com/agenthands/estima/internal/store"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Samata"))

	require.NoError(t, f.SetCellValue("Samata", "C4", "IT990001"))
	require.NoError(t, f.SetCellValue("Samata", "C5", "Integration suite"))
	require.NoError(t, f.SetCellValue("Samata", "C6", "Test client"))
	require.NoError(t, f.SetCellValue("Samata", "E25", "Description"))

	rows := []struct{ code, name, desc string }{
		{"F001", "Stalas", "Round table with an oak veneer top and four powder-coated steel legs"},
		{"F002", "Vitrina", "Glass display cabinet with LED lighting and a lockable door"},
	}
	for i, row := range rows {
		r := 26 + i
		require.NoError(t, f.SetCellValue("Samata", fmt.Sprintf("B%d", r), row.code))
		require.NoError(t, f.SetCellValue("Samata", fmt.Sprintf("C%d", r), row.name))
		require.NoError(t, f.SetCellValue("Samata", fmt.Sprintf("E%d", r), row.desc))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestFullImportFlow(t *testing.T) {
	// Load environment if present
	_ = godotenv.Load("../../.env")

	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		t.Skip("Skipping integration test: LLM_PROVIDER not set")
	}

	cfg := &config.Config{}
	cfg.LLM.Provider = provider
	cfg.LLM.Model = os.Getenv("LLM_MODEL")
	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	cfg.LLM.BaseURL = os.Getenv("LLM_BASE_URL")
	cfg.ApplyDefaults()
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-oss:latest"
	}

	ctx := context.Background()

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "estima.db")
	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SeedDefaults(ctx))

	imp := core.NewImporter(s, llmClient, cfg)
	file := buildWorkbook(t)

	// Step 1: import the workbook.
	result, err := imp.Import(ctx, file, "IT990001.xlsx", nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "IT990001", result.ProjectCode)
	assert.Equal(t, 2, result.ProductsCreated)
	t.Logf("Import warnings: %v", result.Warnings)

	project, err := s.ProjectByCode(ctx, "IT990001")
	require.NoError(t, err)
	require.NotNil(t, project)

	product, err := s.ProductByCode(ctx, project.ID, "F001")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.NotEmpty(t, product.TypeID)

	// LLM dependent, so loose check: the table description should yield at
	// least one component when analysis succeeded.
	review, err := s.ReviewByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, review)
	components, err := s.ComponentsByReview(ctx, review.ID)
	require.NoError(t, err)
	t.Logf("Components for F001: %v", components)

	// Step 2: re-import must be a no-op.
	second, err := imp.Import(ctx, file, "IT990001.xlsx", nil)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.ProductsCreated)

	// Step 3: reanalyze the product through the sanctioned path.
	re, err := imp.Reanalyze(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, re.ProductID)
	t.Logf("Reanalyze found %d components", re.ComponentsFound)

	// Step 4: preview stays read-only.
	preview, err := imp.Preview(ctx, file, "IT990001.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, preview.TotalRows)
}
