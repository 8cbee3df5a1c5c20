package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/estima/internal/core/model"
)

// MemoryStore is an in-memory Store used in tests and for dry runs. It
// mirrors the sqlite store's behavior, including the (type, normalized name)
// uniqueness rule for taxonomy parts.
type MemoryStore struct {
	Types      []model.ProductType
	Synonyms   []model.TypeSynonym
	Parts      []model.TaxonomyPart
	Projects   []Project
	Products   []Product
	Reviews    []Review
	Components []ComponentPart

	// PartQueries counts PartsByType calls, so tests can verify the
	// reconciler caches instead of re-querying per row.
	PartQueries int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AddType registers a product type with its synonyms and returns the type id.
func (m *MemoryStore) AddType(id, name string, phrases ...string) string {
	m.Types = append(m.Types, model.ProductType{ID: id, Name: name})
	for _, phrase := range phrases {
		m.Synonyms = append(m.Synonyms, model.TypeSynonym{Phrase: phrase, TypeID: id, TypeName: name})
	}
	return id
}

func (m *MemoryStore) TypeSynonyms(ctx context.Context) ([]model.TypeSynonym, error) {
	return append([]model.TypeSynonym(nil), m.Synonyms...), nil
}

func (m *MemoryStore) ProductTypeByName(ctx context.Context, name string) (*model.ProductType, error) {
	for _, t := range m.Types {
		if strings.EqualFold(t.Name, name) {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ProductTypeByID(ctx context.Context, id string) (*model.ProductType, error) {
	for _, t := range m.Types {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) PartsByType(ctx context.Context, typeID string) ([]model.TaxonomyPart, error) {
	m.PartQueries++
	var parts []model.TaxonomyPart
	for _, p := range m.Parts {
		if p.TypeID == typeID {
			parts = append(parts, p)
		}
	}
	return parts, nil
}

func (m *MemoryStore) CreatePart(ctx context.Context, part *model.TaxonomyPart) error {
	key := strings.ToLower(strings.TrimSpace(part.Name))
	for _, p := range m.Parts {
		if p.TypeID == part.TypeID && strings.ToLower(strings.TrimSpace(p.Name)) == key {
			return fmt.Errorf("taxonomy part '%s' already exists under type %s", part.Name, part.TypeID)
		}
	}
	m.Parts = append(m.Parts, *part)
	return nil
}

func (m *MemoryStore) ProjectByCode(ctx context.Context, code string) (*Project, error) {
	for _, p := range m.Projects {
		if p.Code == code {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateProject(ctx context.Context, project *Project) error {
	m.Projects = append(m.Projects, *project)
	return nil
}

func (m *MemoryStore) ProductByCode(ctx context.Context, projectID, code string) (*Product, error) {
	for _, p := range m.Products {
		if p.ProjectID == projectID && p.Code == code {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ProductByID(ctx context.Context, id string) (*Product, error) {
	for _, p := range m.Products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateProduct(ctx context.Context, product *Product) error {
	m.Products = append(m.Products, *product)
	return nil
}

func (m *MemoryStore) ReviewByProduct(ctx context.Context, productID string) (*Review, error) {
	for _, r := range m.Reviews {
		if r.ProductID == productID {
			found := r
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateReview(ctx context.Context, review *Review) error {
	m.Reviews = append(m.Reviews, *review)
	return nil
}

func (m *MemoryStore) ComponentsByReview(ctx context.Context, reviewID string) ([]ComponentPart, error) {
	var components []ComponentPart
	for _, c := range m.Components {
		if c.ReviewID == reviewID {
			components = append(components, c)
		}
	}
	return components, nil
}

func (m *MemoryStore) CreateComponent(ctx context.Context, component *ComponentPart) error {
	m.Components = append(m.Components, *component)
	return nil
}

func (m *MemoryStore) UpdateComponent(ctx context.Context, component *ComponentPart) error {
	for i := range m.Components {
		if m.Components[i].ID == component.ID {
			m.Components[i] = *component
			return nil
		}
	}
	return fmt.Errorf("component '%s' not found", component.ID)
}

func (m *MemoryStore) Close() error {
	return nil
}
