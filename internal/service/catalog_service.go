package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrProductNameRequired  = errors.New("product name is required")
	ErrNegativePrice        = errors.New("product price must not be negative")
)

// CategoryInput carries the mutable fields of a category for create/update.
type CategoryInput struct {
	Name         string
	Description  string
	DisplayOrder int
	IsActive     bool
}

// ProductInput carries the mutable fields of a product for create/update.
type ProductInput struct {
	Name        string
	Price       float64
	CategoryID  *uuid.UUID
	ImageURL    string
	Description string
	IsAvailable bool
}

// CatalogService defines the business logic for the catalog: the read views
// backing the POS surface plus the management CRUD.
type CatalogService interface {
	// ListActiveCategories returns active categories by display order, the
	// view the POS category tabs render.
	ListActiveCategories(ctx context.Context) ([]*domain.Category, error)
	ListAllCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*domain.Category, error)
	// DeleteCategory fails with repository.ErrCategoryHasProducts while any
	// product still references the category.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// ListAvailableProducts returns available products by name, the view the
	// POS product grid renders.
	ListAvailableProducts(ctx context.Context) ([]*domain.Product, error)
	ListAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogService) ListActiveCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx, true)
}

func (s *catalogService) ListAllCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx, false)
}

func (s *catalogService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCategoryNameRequired
	}

	category := &domain.Category{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.IsActive,
		CreatedAt:    time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCategoryNameRequired
	}

	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.DisplayOrder = input.DisplayOrder
	existing.IsActive = input.IsActive

	if err := s.categoryRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *catalogService) ListAvailableProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, true)
}

func (s *catalogService) ListAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, false)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("invalid category: %w", err)
		}
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Price:       domain.RoundCents(input.Price),
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		Description: input.Description,
		IsAvailable: input.IsAvailable,
		CreatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("invalid category: %w", err)
		}
	}

	existing.Name = input.Name
	existing.Price = domain.RoundCents(input.Price)
	existing.CategoryID = input.CategoryID
	existing.ImageURL = input.ImageURL
	existing.Description = input.Description
	existing.IsAvailable = input.IsAvailable

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteProduct removes a product from the catalog. Historical order items
// keep their product_id and price_at_time untouched.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrProductNameRequired
	}
	if input.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}
