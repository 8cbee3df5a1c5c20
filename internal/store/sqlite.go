package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/agenthands/estima/internal/core/model"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// normalizeName is the soft-unique key for taxonomy parts. The sqlite schema
// backs it with UNIQUE(type_id, normalized_name) so concurrent imports cannot
// double-insert a part.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *SQLiteStore) TypeSynonyms(ctx context.Context) ([]model.TypeSynonym, error) {
	rows, err := s.db.QueryContext(ctx, selectTypeSynonymsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var synonyms []model.TypeSynonym
	for rows.Next() {
		var syn model.TypeSynonym
		if err := rows.Scan(&syn.Phrase, &syn.TypeID, &syn.TypeName); err != nil {
			return nil, err
		}
		synonyms = append(synonyms, syn)
	}
	return synonyms, rows.Err()
}

func (s *SQLiteStore) ProductTypeByName(ctx context.Context, name string) (*model.ProductType, error) {
	var t model.ProductType
	err := s.db.QueryRowContext(ctx, selectProductTypeByNameQuery, name).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) ProductTypeByID(ctx context.Context, id string) (*model.ProductType, error) {
	var t model.ProductType
	err := s.db.QueryRowContext(ctx, selectProductTypeByIDQuery, id).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) PartsByType(ctx context.Context, typeID string) ([]model.TaxonomyPart, error) {
	rows, err := s.db.QueryContext(ctx, selectPartsByTypeQuery, typeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []model.TaxonomyPart
	for rows.Next() {
		var p model.TaxonomyPart
		if err := rows.Scan(&p.ID, &p.TypeID, &p.Name, &p.SortOrder); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (s *SQLiteStore) CreatePart(ctx context.Context, part *model.TaxonomyPart) error {
	_, err := s.db.ExecContext(ctx, insertPartQuery,
		part.ID, part.TypeID, part.Name, normalizeName(part.Name), part.SortOrder)
	return err
}

func (s *SQLiteStore) ProjectByCode(ctx context.Context, code string) (*Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx, selectProjectByCodeQuery, code).
		Scan(&p.ID, &p.Code, &p.Name, &p.Client)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) CreateProject(ctx context.Context, project *Project) error {
	_, err := s.db.ExecContext(ctx, insertProjectQuery,
		project.ID, project.Code, project.Name, project.Client)
	return err
}

func (s *SQLiteStore) ProductByCode(ctx context.Context, projectID, code string) (*Product, error) {
	return s.scanProduct(s.db.QueryRowContext(ctx, selectProductByCodeQuery, projectID, code))
}

func (s *SQLiteStore) ProductByID(ctx context.Context, id string) (*Product, error) {
	return s.scanProduct(s.db.QueryRowContext(ctx, selectProductByIDQuery, id))
}

func (s *SQLiteStore) scanProduct(row *sql.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.ProjectID, &p.Code, &p.Name, &p.Description, &p.TypeID, &p.MatchedPhrase)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) CreateProduct(ctx context.Context, product *Product) error {
	_, err := s.db.ExecContext(ctx, insertProductQuery,
		product.ID, product.ProjectID, product.Code, product.Name,
		product.Description, product.TypeID, product.MatchedPhrase)
	return err
}

func (s *SQLiteStore) ReviewByProduct(ctx context.Context, productID string) (*Review, error) {
	var r Review
	err := s.db.QueryRowContext(ctx, selectReviewByProductQuery, productID).Scan(&r.ID, &r.ProductID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) CreateReview(ctx context.Context, review *Review) error {
	_, err := s.db.ExecContext(ctx, insertReviewQuery, review.ID, review.ProductID)
	return err
}

func (s *SQLiteStore) ComponentsByReview(ctx context.Context, reviewID string) ([]ComponentPart, error) {
	rows, err := s.db.QueryContext(ctx, selectComponentsByReviewQuery, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []ComponentPart
	for rows.Next() {
		var c ComponentPart
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.PartID, &c.Name, &c.Material, &c.Finish, &c.Notes); err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func (s *SQLiteStore) CreateComponent(ctx context.Context, component *ComponentPart) error {
	_, err := s.db.ExecContext(ctx, insertComponentQuery,
		component.ID, component.ReviewID, component.PartID, component.Name,
		component.Material, component.Finish, component.Notes)
	return err
}

func (s *SQLiteStore) UpdateComponent(ctx context.Context, component *ComponentPart) error {
	_, err := s.db.ExecContext(ctx, updateComponentQuery,
		component.Material, component.Finish, component.Notes, component.ID)
	return err
}

// SeedDefaults loads a starter taxonomy when the type table is empty, so a
// fresh database can classify something out of the box.
func (s *SQLiteStore) SeedDefaults(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product_types`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	types := map[string][]string{
		"Stalas":  {"stalas", "table", "desk", "staliukas"},
		"Kede":    {"kede", "chair", "stool", "taburete"},
		"Lentyna": {"lentyna", "shelf", "corner shelf", "bookcase"},
		"Vitrina": {"vitrina", "display cabinet", "showcase"},
		"Spinta":  {"spinta", "wardrobe", "cabinet", "cupboard"},
		"Kita":    {},
	}

	for name, phrases := range types {
		id := uuid.New().String()
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO product_types (id, name) VALUES (?, ?)`, id, name); err != nil {
			return err
		}
		for _, phrase := range phrases {
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO type_synonyms (phrase, type_id) VALUES (?, ?)`, phrase, id); err != nil {
				return err
			}
		}
	}

	log.Printf("Seeded %d default product types", len(types))
	return nil
}
