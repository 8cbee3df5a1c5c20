package model

// RowDebug is the per-row trace attached to an import result.
type RowDebug struct {
	RowCode         string `json:"row_code"`
	ProductName     string `json:"product_name"`
	Description     string `json:"description"`
	ComponentsFound int    `json:"components_found"`
	RawResponse     string `json:"raw_model_response,omitempty"`
	Error           string `json:"error,omitempty"`
}

type ImportResult struct {
	Success         bool       `json:"success"`
	ProjectCode     string     `json:"project_code"`
	ProjectName     string     `json:"project_name"`
	ProductsCreated int        `json:"products_created"`
	Warnings        []string   `json:"warnings"`
	Rows            []RowDebug `json:"rows"`
}

type ReanalyzeResult struct {
	ProductID       string   `json:"product_id"`
	ProductName     string   `json:"product_name"`
	ComponentsFound int      `json:"components_found"`
	RawResponse     string   `json:"raw_model_response,omitempty"`
	Warnings        []string `json:"warnings"`
}

type PreviewRow struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	RowIndex       int    `json:"row_index"`
	DetectedType   string `json:"detected_type"`
	DetectedTypeID string `json:"detected_type_id"`
	MatchedPhrase  string `json:"matched_phrase,omitempty"`
}

type PreviewResult struct {
	ProjectCode   string        `json:"project_code"`
	ProjectName   string        `json:"project_name"`
	ClientName    string        `json:"client_name"`
	SheetName     string        `json:"sheet_name"`
	ColumnMapping ColumnMapping `json:"column_mapping"`
	Rows          []PreviewRow  `json:"preview_rows"`
	TotalRows     int           `json:"total_rows_found"`
	Warnings      []string      `json:"warnings"`
}
