package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for the POS browsing surface.
type Category struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Product represents a sellable item in the catalog. CategoryID is nil for
// uncategorized products. IsAvailable governs catalog visibility, not
// existence: unavailable products stay referenced by historical order items.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Price       float64    `json:"price" db:"price"`
	CategoryID  *uuid.UUID `json:"category_id" db:"category_id"`
	ImageURL    string     `json:"image_url" db:"image_url"`
	Description string     `json:"description" db:"description"`
	IsAvailable bool       `json:"is_available" db:"is_available"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
