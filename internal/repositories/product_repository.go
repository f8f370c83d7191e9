package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/malaura/storefront/internal/models"
)

type ProductRepository interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), stock,
	       COALESCE(category, ''), COALESCE(colors, '{}'), COALESCE(finishes, '{}'), created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Stock,
		&p.Category, pq.Array(&p.Colors), pq.Array(&p.Finishes), &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = $1`

	p, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		return nil, fmt.Errorf("querying product %d: %w", id, err)
	}

	return p, nil
}

func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}

	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)`

	rows, err := r.DB.QueryContext(dbCtx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("querying products by ids: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, len(ids))

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}
