package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, category, price, image_url, description, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.ImageURL, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const listProducts = `
SELECT ` + productColumns + `
FROM products
WHERE is_active = true
ORDER BY category, name
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const getProduct = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const createProduct = `
INSERT INTO products (name, category, price, image_url, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + productColumns + `
`

type CreateProductParams struct {
	Name        string
	Category    string
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
	Description pgtype.Text
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct, arg.Name, arg.Category, arg.Price, arg.ImageURL, arg.Description)
	return scanProduct(row)
}

const updateProduct = `
UPDATE products
SET name = $1, category = $2, price = $3, image_url = $4, description = $5, updated_at = now()
WHERE id = $6 AND is_active = true
RETURNING ` + productColumns + `
`

type UpdateProductParams struct {
	Name        string
	Category    string
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
	Description pgtype.Text
	ID          uuid.UUID
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct, arg.Name, arg.Category, arg.Price, arg.ImageURL, arg.Description, arg.ID)
	return scanProduct(row)
}

const softDeleteProduct = `
UPDATE products
SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteProduct, id).Scan(&deleted)
	return deleted, err
}
