package model

type ProductType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TypeSynonym maps a free-text phrase to a product type. Classification
// sorts synonyms by phrase length so more specific phrases win.
type TypeSynonym struct {
	Phrase   string `json:"phrase"`
	TypeID   string `json:"type_id"`
	TypeName string `json:"type_name"`
}

// TaxonomyPart is a named sub-component template under a product type
// (e.g. "Tabletop" under "Stalas"). New parts may be created mid-import.
type TaxonomyPart struct {
	ID        string `json:"id"`
	TypeID    string `json:"type_id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Classification is the outcome of matching a product against the synonym
// table. MatchedPhrase is empty when the catch-all type was applied.
type Classification struct {
	TypeID        string `json:"type_id"`
	TypeName      string `json:"type_name"`
	MatchedPhrase string `json:"matched_phrase,omitempty"`
}
