package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/agenthands/estima/internal/config"
	"github.com/agenthands/estima/internal/core/classify"
	"github.com/agenthands/estima/internal/core/model"
	"github.com/agenthands/estima/internal/core/reconcile"
	"github.com/agenthands/estima/internal/core/sheet"
	"github.com/agenthands/estima/internal/llm"
	"github.com/agenthands/estima/internal/store"
)

// ErrProductNotFound marks reanalyze requests for unknown product ids, so
// the HTTP layer can tell them apart from internal failures.
var ErrProductNotFound = errors.New("product not found")

// Importer runs the full workbook pipeline: locate sheet, extract metadata,
// detect columns, walk rows, classify, persist, reconcile components.
// Rows are processed strictly in order because later rows may match taxonomy
// parts created by earlier ones.
type Importer struct {
	Store store.Store
	LLM   llm.LLMClient

	prompt      string
	timeout     time.Duration
	previewRows int
}

func NewImporter(s store.Store, llmClient llm.LLMClient, cfg *config.Config) *Importer {
	return &Importer{
		Store:       s,
		LLM:         llmClient,
		prompt:      cfg.Reconcile.Decompose,
		timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		previewRows: cfg.Import.PreviewRows,
	}
}

func (imp *Importer) open(file []byte, filename string) (*excelize.File, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read workbook '%s': %w", filename, err)
	}

	sheetName, err := sheet.LocateWorksheet(f)
	if err != nil {
		f.Close()
		return nil, "", err
	}

	return f, sheetName, nil
}

// Import runs a full import. Structural failures (unreadable file, no usable
// sheet, zero rows) return an error; every per-row failure is converted into
// a warning and the remaining rows are still processed. Overrides map row
// codes to manually chosen type ids and bypass the classifier for those rows.
func (imp *Importer) Import(ctx context.Context, file []byte, filename string, overrides map[string]string) (*model.ImportResult, error) {
	f, sheetName, err := imp.open(file, filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	warnings := &model.Warnings{}

	meta := sheet.ExtractMetadata(f, sheetName, filename)
	mapping := sheet.DetectColumns(f, sheetName)
	if mapping.Confidence == model.ConfidenceLow {
		warnings.Addf("description column %s detected with low confidence; verify the result", mapping.DescriptionColumn)
	}

	rows := sheet.ExtractRows(f, sheetName, mapping)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no product rows found on sheet '%s': cell %s%d is empty", sheetName, mapping.CodeColumn, sheet.DataStartRow)
	}

	project, err := imp.Store.ProjectByCode(ctx, meta.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up project '%s': %w", meta.Code, err)
	}
	if project == nil {
		project = &store.Project{
			ID:     uuid.New().String(),
			Code:   meta.Code,
			Name:   meta.Name,
			Client: meta.Client,
		}
		if err := imp.Store.CreateProject(ctx, project); err != nil {
			return nil, fmt.Errorf("failed to create project '%s': %w", meta.Code, err)
		}
	}

	classifier := classify.NewClassifier(imp.Store)
	reconciler := reconcile.NewReconciler(imp.Store, imp.LLM, imp.prompt, imp.timeout)

	result := &model.ImportResult{
		Success:     true,
		ProjectCode: meta.Code,
		ProjectName: meta.Name,
	}

	for _, row := range rows {
		debug := model.RowDebug{
			RowCode:     row.Code,
			ProductName: row.Name,
			Description: row.Description,
		}

		created, err := imp.importRow(ctx, project, row, overrides, classifier, reconciler, warnings, &debug)
		if err != nil {
			// One bad row never aborts the batch.
			warnings.Addf("row %s: %v", row.Code, err)
			debug.Error = err.Error()
		}
		if created {
			result.ProductsCreated++
		}
		result.Rows = append(result.Rows, debug)
	}

	log.Printf("Import of '%s' finished: %d products created, %d warnings",
		filename, result.ProductsCreated, warnings.Len())

	result.Warnings = warnings.List()
	return result, nil
}

func (imp *Importer) importRow(
	ctx context.Context,
	project *store.Project,
	row model.ExtractedRow,
	overrides map[string]string,
	classifier *classify.Classifier,
	reconciler *reconcile.Reconciler,
	warnings *model.Warnings,
	debug *model.RowDebug,
) (bool, error) {
	existing, err := imp.Store.ProductByCode(ctx, project.ID, row.Code)
	if err != nil {
		return false, fmt.Errorf("duplicate check failed: %w", err)
	}
	if existing != nil {
		warnings.Addf("row %s: product already exists, skipped", row.Code)
		return false, nil
	}

	var cls model.Classification
	if typeID, ok := overrides[row.Code]; ok {
		cls = model.Classification{TypeID: typeID}
		if t, err := imp.Store.ProductTypeByID(ctx, typeID); err == nil && t != nil {
			cls.TypeName = t.Name
		}
	} else {
		cls, err = classifier.Classify(ctx, row.Name, row.Description)
		if err != nil {
			return false, fmt.Errorf("classification failed: %w", err)
		}
	}

	product := &store.Product{
		ID:            uuid.New().String(),
		ProjectID:     project.ID,
		Code:          row.Code,
		Name:          row.Name,
		Description:   row.Description,
		TypeID:        cls.TypeID,
		MatchedPhrase: cls.MatchedPhrase,
	}
	if err := imp.Store.CreateProduct(ctx, product); err != nil {
		return false, fmt.Errorf("failed to persist product: %w", err)
	}

	review := &store.Review{ID: uuid.New().String(), ProductID: product.ID}
	if err := imp.Store.CreateReview(ctx, review); err != nil {
		return true, fmt.Errorf("failed to create review: %w", err)
	}

	if row.Description == "" {
		warnings.Addf("row %s: empty description, component analysis skipped", row.Code)
		return true, nil
	}

	found, raw, err := reconciler.Reconcile(ctx, review.ID, cls.TypeID, cls.TypeName, row.Description, warnings)
	debug.ComponentsFound = found
	debug.RawResponse = raw
	if err != nil {
		return true, fmt.Errorf("component reconciliation failed: %w", err)
	}

	return true, nil
}

// Preview extracts the first rows of a workbook with detected types, without
// writing anything, so a user can confirm the mapping before importing.
func (imp *Importer) Preview(ctx context.Context, file []byte, filename string) (*model.PreviewResult, error) {
	f, sheetName, err := imp.open(file, filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	warnings := &model.Warnings{}

	meta := sheet.ExtractMetadata(f, sheetName, filename)
	mapping := sheet.DetectColumns(f, sheetName)
	if mapping.Confidence == model.ConfidenceLow {
		warnings.Addf("description column %s detected with low confidence; verify the result", mapping.DescriptionColumn)
	}

	rows, total := sheet.PreviewRows(f, sheetName, mapping, imp.previewRows)

	classifier := classify.NewClassifier(imp.Store)

	result := &model.PreviewResult{
		ProjectCode:   meta.Code,
		ProjectName:   meta.Name,
		ClientName:    meta.Client,
		SheetName:     sheetName,
		ColumnMapping: mapping,
		TotalRows:     total,
	}

	for _, row := range rows {
		preview := model.PreviewRow{
			Code:        row.Code,
			Name:        row.Name,
			Description: row.Description,
			RowIndex:    row.SourceRow,
		}
		cls, err := classifier.Classify(ctx, row.Name, row.Description)
		if err != nil {
			warnings.Addf("row %s: classification failed: %v", row.Code, err)
		} else {
			preview.DetectedType = cls.TypeName
			preview.DetectedTypeID = cls.TypeID
			preview.MatchedPhrase = cls.MatchedPhrase
		}
		result.Rows = append(result.Rows, preview)
	}

	result.Warnings = warnings.List()
	return result, nil
}

// Reanalyze re-runs component reconciliation for one existing product. This
// is the sanctioned way to redo decomposition; bulk import is create-only and
// skips existing products.
func (imp *Importer) Reanalyze(ctx context.Context, productID string) (*model.ReanalyzeResult, error) {
	product, err := imp.Store.ProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product '%s': %w", productID, ErrProductNotFound)
	}

	review, err := imp.Store.ReviewByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up review: %w", err)
	}
	if review == nil {
		review = &store.Review{ID: uuid.New().String(), ProductID: product.ID}
		if err := imp.Store.CreateReview(ctx, review); err != nil {
			return nil, fmt.Errorf("failed to create review: %w", err)
		}
	}

	typeName := classify.CatchAllTypeName
	if product.TypeID != "" {
		if t, err := imp.Store.ProductTypeByID(ctx, product.TypeID); err == nil && t != nil {
			typeName = t.Name
		}
	}

	warnings := &model.Warnings{}
	reconciler := reconcile.NewReconciler(imp.Store, imp.LLM, imp.prompt, imp.timeout)

	found, raw, err := reconciler.Reconcile(ctx, review.ID, product.TypeID, typeName, product.Description, warnings)
	if err != nil {
		return nil, err
	}
	if product.Description == "" {
		warnings.Addf("product %s has no description, component analysis skipped", product.Code)
	}

	return &model.ReanalyzeResult{
		ProductID:       product.ID,
		ProductName:     product.Name,
		ComponentsFound: found,
		RawResponse:     raw,
		Warnings:        warnings.List(),
	}, nil
}
