package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, onlyAvailable bool) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, price, category_id, image_url, description, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		nullUUID(product.CategoryID),
		nullString(product.ImageURL),
		nullString(product.Description),
		product.IsAvailable,
		product.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces the full row of an existing product. Historical order items
// keep their copied price_at_time regardless.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, price = $2, category_id = $3, image_url = $4,
		    description = $5, is_available = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.Name,
		product.Price,
		nullUUID(product.CategoryID),
		nullString(product.ImageURL),
		nullString(product.Description),
		product.IsAvailable,
		product.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, price, category_id, image_url, description, is_available, created_at
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products ordered by name; onlyAvailable filters to the ones
// visible on the POS surface.
func (r *productRepository) List(ctx context.Context, onlyAvailable bool) ([]*domain.Product, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if onlyAvailable {
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, name, price, category_id, image_url, description, is_available, created_at
			FROM products
			WHERE is_available = $1
			ORDER BY name ASC
		`, true)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, name, price, category_id, image_url, description, is_available, created_at
			FROM products
			ORDER BY name ASC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var (
		categoryID  uuid.NullUUID
		imageURL    sql.NullString
		description sql.NullString
	)
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&categoryID,
		&imageURL,
		&description,
		&product.IsAvailable,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := categoryID.UUID
		product.CategoryID = &id
	}
	product.ImageURL = imageURL.String
	product.Description = description.String
	return product, nil
}

// nullUUID maps a nil pointer to SQL NULL for optional foreign keys.
func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
