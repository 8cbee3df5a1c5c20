package model

// ParsedComponent is one component decomposed from a product description by
// the LLM. It only exists during reconciliation; the reconciler folds it into
// component-part records.
type ParsedComponent struct {
	Name           string   `json:"name"`
	Material       string   `json:"material,omitempty"`
	Finish         string   `json:"finish,omitempty"`
	Other          string   `json:"other,omitempty"`
	UncertainTerms []string `json:"uncertain_terms,omitempty"`
}
