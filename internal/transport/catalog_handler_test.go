package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type catalogFixture struct {
	router       chi.Router
	categoryRepo *mockCategoryRepository
	productRepo  *mockProductRepository
}

func newCatalogFixture() *catalogFixture {
	categoryRepo := newMockCategoryRepository()
	productRepo := newMockProductRepository()
	categoryRepo.products = productRepo

	handler := NewCatalogHandler(service.NewCatalogService(categoryRepo, productRepo), zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return &catalogFixture{
		router:       router,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (f *catalogFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateCategoryEndpoint(t *testing.T) {
	f := newCatalogFixture()

	w := f.do("POST", "/api/categories", CategoryRequest{Name: "Drinks", DisplayOrder: 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var category domain.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))
	assert.Equal(t, "Drinks", category.Name)
	assert.True(t, category.IsActive, "is_active defaults to true when omitted")
	assert.NotEqual(t, uuid.Nil, category.ID)
}

func TestCreateCategoryWithoutNameIsValidationError(t *testing.T) {
	f := newCatalogFixture()

	w := f.do("POST", "/api/categories", map[string]interface{}{"display_order": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.categoryRepo.categories)
}

func TestListCategoriesFiltersInactiveByDefault(t *testing.T) {
	f := newCatalogFixture()

	inactive := false
	require.Equal(t, http.StatusCreated, f.do("POST", "/api/categories", CategoryRequest{Name: "Drinks"}).Code)
	require.Equal(t, http.StatusCreated, f.do("POST", "/api/categories", CategoryRequest{Name: "Retired", IsActive: &inactive}).Code)

	w := f.do("GET", "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []domain.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	assert.Len(t, categories, 1)

	w = f.do("GET", "/api/categories?all=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	assert.Len(t, categories, 2)
}

func TestCreateProductEndpoint(t *testing.T) {
	f := newCatalogFixture()

	w := f.do("POST", "/api/categories", CategoryRequest{Name: "Drinks"})
	require.Equal(t, http.StatusCreated, w.Code)
	var category domain.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))

	categoryID := category.ID.String()
	w = f.do("POST", "/api/products", ProductRequest{
		Name:       "Latte",
		Price:      4.255,
		CategoryID: &categoryID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var product domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, 4.26, product.Price, "prices are normalized to cents")
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, category.ID, *product.CategoryID)
	assert.True(t, product.IsAvailable)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	f := newCatalogFixture()

	w := f.do("POST", "/api/products", ProductRequest{Name: "Latte", Price: -1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.productRepo.products)
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	f := newCatalogFixture()
	missing := uuid.NewString()

	w := f.do("POST", "/api/products", ProductRequest{
		Name:       "Latte",
		Price:      4.25,
		CategoryID: &missing,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCategoryConflictsWhileReferenced(t *testing.T) {
	f := newCatalogFixture()

	w := f.do("POST", "/api/categories", CategoryRequest{Name: "Drinks"})
	require.Equal(t, http.StatusCreated, w.Code)
	var category domain.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))

	categoryID := category.ID.String()
	w = f.do("POST", "/api/products", ProductRequest{Name: "Latte", Price: 4.25, CategoryID: &categoryID})
	require.Equal(t, http.StatusCreated, w.Code)
	var product domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))

	w = f.do("DELETE", "/api/categories/"+categoryID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusNoContent, f.do("DELETE", "/api/products/"+product.ID.String(), nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do("DELETE", "/api/categories/"+categoryID, nil).Code)
}

func TestUpdateProductUnknownIDIs404(t *testing.T) {
	f := newCatalogFixture()

	w := f.do("PUT", "/api/products/"+uuid.NewString(), ProductRequest{Name: "Latte", Price: 4.25})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDuplicateCategoryNameIs409(t *testing.T) {
	f := newCatalogFixture()

	require.Equal(t, http.StatusCreated, f.do("POST", "/api/categories", CategoryRequest{Name: "Drinks"}).Code)
	w := f.do("POST", "/api/categories", CategoryRequest{Name: "Drinks"})

	assert.Equal(t, http.StatusConflict, w.Code)
}
