package store

import (
	"context"

	"github.com/agenthands/estima/internal/core/model"
)

type Project struct {
	ID     string
	Code   string
	Name   string
	Client string
}

type Product struct {
	ID            string
	ProjectID     string
	Code          string
	Name          string
	Description   string
	TypeID        string
	MatchedPhrase string
}

// Review is the per-product record component parts hang off.
type Review struct {
	ID        string
	ProductID string
}

// ComponentPart is a component instance under a review, derived from a
// taxonomy part and carrying product-specific material/finish/notes.
type ComponentPart struct {
	ID       string
	ReviewID string
	PartID   string
	Name     string
	Material string
	Finish   string
	Notes    string
}

// Store is the persistence collaborator consumed by the import pipeline.
// Lookup methods return (nil, nil) when no record matches.
type Store interface {
	TypeSynonyms(ctx context.Context) ([]model.TypeSynonym, error)
	ProductTypeByName(ctx context.Context, name string) (*model.ProductType, error)
	ProductTypeByID(ctx context.Context, id string) (*model.ProductType, error)

	PartsByType(ctx context.Context, typeID string) ([]model.TaxonomyPart, error)
	CreatePart(ctx context.Context, part *model.TaxonomyPart) error

	ProjectByCode(ctx context.Context, code string) (*Project, error)
	CreateProject(ctx context.Context, project *Project) error

	ProductByCode(ctx context.Context, projectID, code string) (*Product, error)
	ProductByID(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) error

	ReviewByProduct(ctx context.Context, productID string) (*Review, error)
	CreateReview(ctx context.Context, review *Review) error

	ComponentsByReview(ctx context.Context, reviewID string) ([]ComponentPart, error)
	CreateComponent(ctx context.Context, component *ComponentPart) error
	UpdateComponent(ctx context.Context, component *ComponentPart) error

	Close() error
}
