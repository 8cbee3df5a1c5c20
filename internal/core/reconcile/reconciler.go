package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/estima/internal/core/common"
	"github.com/agenthands/estima/internal/core/model"
	"github.com/agenthands/estima/internal/llm"
	"github.com/agenthands/estima/internal/store"
)

const defaultDecomposePrompt = `You are decomposing a furniture product description into its physical components.
Product type: %s
Description: %s

Return ONLY a JSON array. Each element is an object with these fields:
- "name": component name (string, required)
- "material": main material if stated (string, optional)
- "finish": surface finish if stated (string, optional)
- "other": any other notes about the component (string, optional)
- "uncertain_terms": terms you could not interpret (array of strings, optional)

Do not output any text outside the JSON array.`

// Reconciler decomposes a product description into components via the LLM
// and folds them into taxonomy parts and per-review component records.
// LLM and parsing failures degrade to zero components plus a warning; only
// store failures propagate.
type Reconciler struct {
	Store   store.Store
	LLM     llm.LLMClient
	Prompt  string
	Timeout time.Duration

	// In-memory taxonomy cache for the lifetime of one import, so each row
	// does not re-query the part table. Parts created mid-import are added
	// here so later rows can match them.
	parts     map[string][]model.TaxonomyPart
	partIndex map[string]*model.TaxonomyPart
}

func NewReconciler(s store.Store, llmClient llm.LLMClient, prompt string, timeout time.Duration) *Reconciler {
	if prompt == "" {
		prompt = defaultDecomposePrompt
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Reconciler{
		Store:     s,
		LLM:       llmClient,
		Prompt:    prompt,
		Timeout:   timeout,
		parts:     make(map[string][]model.TaxonomyPart),
		partIndex: make(map[string]*model.TaxonomyPart),
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func partKey(typeID, name string) string {
	return typeID + "\x00" + normalizeName(name)
}

// Decompose sends the description to the LLM and parses the component array
// out of the response. The raw response text is returned for debug traces.
func (r *Reconciler) Decompose(ctx context.Context, typeName, description string) ([]model.ParsedComponent, string, error) {
	prompt := fmt.Sprintf(r.Prompt, typeName, description)

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	response, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate component decomposition: %w", err)
	}

	components, err := common.ParseJSONArray[model.ParsedComponent](response)
	if err != nil {
		return nil, response, fmt.Errorf("failed to parse component decomposition: %w", err)
	}

	return components, response, nil
}

func (r *Reconciler) loadParts(ctx context.Context, typeID string) error {
	if _, ok := r.parts[typeID]; ok {
		return nil
	}
	parts, err := r.Store.PartsByType(ctx, typeID)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy parts: %w", err)
	}
	r.parts[typeID] = parts
	for i := range parts {
		r.partIndex[partKey(typeID, parts[i].Name)] = &parts[i]
	}
	return nil
}

// findOrCreatePart resolves a parsed component name to a taxonomy part under
// the given type, creating one (next sort order, fresh id) when no part with
// the same normalized name exists.
func (r *Reconciler) findOrCreatePart(ctx context.Context, typeID, name string) (*model.TaxonomyPart, bool, error) {
	if err := r.loadParts(ctx, typeID); err != nil {
		return nil, false, err
	}

	if part, ok := r.partIndex[partKey(typeID, name)]; ok {
		return part, false, nil
	}

	maxOrder := 0
	for _, p := range r.parts[typeID] {
		if p.SortOrder > maxOrder {
			maxOrder = p.SortOrder
		}
	}

	part := model.TaxonomyPart{
		ID:        uuid.New().String(),
		TypeID:    typeID,
		Name:      strings.TrimSpace(name),
		SortOrder: maxOrder + 1,
	}
	if err := r.Store.CreatePart(ctx, &part); err != nil {
		return nil, false, fmt.Errorf("failed to create taxonomy part '%s': %w", name, err)
	}

	r.parts[typeID] = append(r.parts[typeID], part)
	r.partIndex[partKey(typeID, part.Name)] = &r.parts[typeID][len(r.parts[typeID])-1]

	return &part, true, nil
}

// matches reports whether an existing component and a parsed component refer
// to the same thing: case-insensitive substring containment in either
// direction.
func matches(existingName, parsedName string) bool {
	a := normalizeName(existingName)
	b := normalizeName(parsedName)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Reconcile decomposes the description and updates or creates component-part
// records under the review. It returns the number of parsed components and
// the raw model response for the debug trace.
func (r *Reconciler) Reconcile(ctx context.Context, reviewID, typeID, typeName, description string, warnings *model.Warnings) (int, string, error) {
	if strings.TrimSpace(description) == "" {
		return 0, "", nil
	}

	components, raw, err := r.Decompose(ctx, typeName, description)
	if err != nil {
		warnings.Addf("component analysis failed: %v", err)
		return 0, raw, nil
	}

	existing, err := r.Store.ComponentsByReview(ctx, reviewID)
	if err != nil {
		return 0, raw, fmt.Errorf("failed to load review components: %w", err)
	}

	for _, comp := range components {
		if strings.TrimSpace(comp.Name) == "" {
			continue
		}

		if len(comp.UncertainTerms) > 0 {
			warnings.Addf("component '%s': uncertain terms: %s",
				comp.Name, strings.Join(comp.UncertainTerms, ", "))
		}

		matched := false
		for i := range existing {
			if !matches(existing[i].Name, comp.Name) {
				continue
			}
			// Merge, overwriting only the fields the parser supplied.
			if comp.Material != "" {
				existing[i].Material = comp.Material
			}
			if comp.Finish != "" {
				existing[i].Finish = comp.Finish
			}
			if comp.Other != "" {
				existing[i].Notes = comp.Other
			}
			if err := r.Store.UpdateComponent(ctx, &existing[i]); err != nil {
				return 0, raw, fmt.Errorf("failed to update component '%s': %w", existing[i].Name, err)
			}
			matched = true
			break
		}
		if matched {
			continue
		}

		part, created, err := r.findOrCreatePart(ctx, typeID, comp.Name)
		if err != nil {
			return 0, raw, err
		}
		if created {
			warnings.Addf("component '%s' did not match any known part; new taxonomy part created under type '%s'",
				comp.Name, typeName)
		}

		component := store.ComponentPart{
			ID:       uuid.New().String(),
			ReviewID: reviewID,
			PartID:   part.ID,
			Name:     part.Name,
			Material: comp.Material,
			Finish:   comp.Finish,
			Notes:    comp.Other,
		}
		if err := r.Store.CreateComponent(ctx, &component); err != nil {
			return 0, raw, fmt.Errorf("failed to create component '%s': %w", comp.Name, err)
		}
		existing = append(existing, component)
	}

	return len(components), raw, nil
}
