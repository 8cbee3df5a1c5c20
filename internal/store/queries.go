package store

const schema = `
CREATE TABLE IF NOT EXISTS product_types (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS type_synonyms (
	phrase  TEXT NOT NULL,
	type_id TEXT NOT NULL REFERENCES product_types(id),
	PRIMARY KEY (phrase, type_id)
);

CREATE TABLE IF NOT EXISTS taxonomy_parts (
	id              TEXT PRIMARY KEY,
	type_id         TEXT NOT NULL REFERENCES product_types(id),
	name            TEXT NOT NULL,
	normalized_name TEXT NOT NULL,
	sort_order      INTEGER NOT NULL DEFAULT 0,
	UNIQUE (type_id, normalized_name)
);

CREATE TABLE IF NOT EXISTS projects (
	id     TEXT PRIMARY KEY,
	code   TEXT NOT NULL UNIQUE,
	name   TEXT NOT NULL DEFAULT '',
	client TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL REFERENCES projects(id),
	code           TEXT NOT NULL,
	name           TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	type_id        TEXT NOT NULL DEFAULT '',
	matched_phrase TEXT NOT NULL DEFAULT '',
	UNIQUE (project_id, code)
);

CREATE TABLE IF NOT EXISTS reviews (
	id         TEXT PRIMARY KEY,
	product_id TEXT NOT NULL UNIQUE REFERENCES products(id)
);

CREATE TABLE IF NOT EXISTS component_parts (
	id        TEXT PRIMARY KEY,
	review_id TEXT NOT NULL REFERENCES reviews(id),
	part_id   TEXT NOT NULL DEFAULT '',
	name      TEXT NOT NULL,
	material  TEXT NOT NULL DEFAULT '',
	finish    TEXT NOT NULL DEFAULT '',
	notes     TEXT NOT NULL DEFAULT ''
);
`

const (
	selectTypeSynonymsQuery = `
		SELECT s.phrase, s.type_id, t.name
		FROM type_synonyms s
		JOIN product_types t ON t.id = s.type_id`

	selectProductTypeByNameQuery = `
		SELECT id, name FROM product_types WHERE name = ? COLLATE NOCASE`

	selectProductTypeByIDQuery = `
		SELECT id, name FROM product_types WHERE id = ?`

	selectPartsByTypeQuery = `
		SELECT id, type_id, name, sort_order
		FROM taxonomy_parts WHERE type_id = ? ORDER BY sort_order`

	insertPartQuery = `
		INSERT INTO taxonomy_parts (id, type_id, name, normalized_name, sort_order)
		VALUES (?, ?, ?, ?, ?)`

	selectProjectByCodeQuery = `
		SELECT id, code, name, client FROM projects WHERE code = ?`

	insertProjectQuery = `
		INSERT INTO projects (id, code, name, client) VALUES (?, ?, ?, ?)`

	selectProductByCodeQuery = `
		SELECT id, project_id, code, name, description, type_id, matched_phrase
		FROM products WHERE project_id = ? AND code = ?`

	selectProductByIDQuery = `
		SELECT id, project_id, code, name, description, type_id, matched_phrase
		FROM products WHERE id = ?`

	insertProductQuery = `
		INSERT INTO products (id, project_id, code, name, description, type_id, matched_phrase)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectReviewByProductQuery = `
		SELECT id, product_id FROM reviews WHERE product_id = ?`

	insertReviewQuery = `
		INSERT INTO reviews (id, product_id) VALUES (?, ?)`

	selectComponentsByReviewQuery = `
		SELECT id, review_id, part_id, name, material, finish, notes
		FROM component_parts WHERE review_id = ?`

	insertComponentQuery = `
		INSERT INTO component_parts (id, review_id, part_id, name, material, finish, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	updateComponentQuery = `
		UPDATE component_parts SET material = ?, finish = ?, notes = ? WHERE id = ?`
)
