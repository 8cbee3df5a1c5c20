package model

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ColumnMapping describes which worksheet columns hold the product fields.
// It is computed once per import and not modified afterwards.
type ColumnMapping struct {
	CodeColumn        string     `json:"code_column"`
	NameColumn        string     `json:"name_column"`
	DescriptionColumn string     `json:"description_column"`
	Confidence        Confidence `json:"confidence"`

	// AlternateDescriptionColumns are tried in order when the primary
	// description cell is empty for a given row.
	AlternateDescriptionColumns []string `json:"alternate_description_columns,omitempty"`
}

// ExtractedRow is one product row pulled out of the worksheet.
type ExtractedRow struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SourceRow   int    `json:"row_index"`
}

type ProjectMetadata struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Client string `json:"client"`
}
