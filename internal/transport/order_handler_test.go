package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/cart"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/repository"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock repositories for testing

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	// products lets Delete mirror the store's referential-integrity check.
	products *mockProductRepository
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	if m.products != nil {
		for _, product := range m.products.products {
			if product.CategoryID != nil && *product.CategoryID == id {
				return repository.ErrCategoryHasProducts
			}
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) List(ctx context.Context, onlyActive bool) ([]*domain.Category, error) {
	out := []*domain.Category{}
	for _, category := range m.categories {
		if onlyActive && !category.IsActive {
			continue
		}
		out = append(out, category)
	}
	return out, nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context, onlyAvailable bool) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, product := range m.products {
		if onlyAvailable && !product.IsAvailable {
			continue
		}
		out = append(out, product)
	}
	return out, nil
}

type mockOrderRepository struct {
	orders map[uuid.UUID]*domain.Order
	items  map[uuid.UUID][]*domain.OrderItem
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[uuid.UUID]*domain.Order),
		items:  make(map[uuid.UUID][]*domain.OrderItem),
	}
}

func (m *mockOrderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	stored := *order
	m.orders[order.ID] = &stored
	for _, item := range items {
		copied := *item
		m.items[order.ID] = append(m.items[order.ID], &copied)
	}
	return nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, completedAt *time.Time) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	order.CompletedAt = completedAt
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	delete(m.items, id)
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.OrderWithItems, error) {
	out := []*domain.OrderWithItems{}
	for _, order := range m.orders {
		if len(out) == limit {
			break
		}
		withItems := &domain.OrderWithItems{Order: *order}
		for _, item := range m.items[order.ID] {
			withItems.Items = append(withItems.Items, *item)
		}
		out = append(out, withItems)
	}
	return out, nil
}

func (m *mockOrderRepository) ListCompletedBetween(ctx context.Context, start, end time.Time) ([]*domain.OrderWithItems, error) {
	out := []*domain.OrderWithItems{}
	for _, order := range m.orders {
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		if order.CreatedAt.Before(start) || order.CreatedAt.After(end) {
			continue
		}
		withItems := &domain.OrderWithItems{Order: *order}
		for _, item := range m.items[order.ID] {
			withItems.Items = append(withItems.Items, *item)
		}
		out = append(out, withItems)
	}
	return out, nil
}

type handlerFixture struct {
	router      chi.Router
	productRepo *mockProductRepository
	orderRepo   *mockOrderRepository
}

func newHandlerFixture() *handlerFixture {
	categoryRepo := newMockCategoryRepository()
	productRepo := newMockProductRepository()
	orderRepo := newMockOrderRepository()

	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	orderService := service.NewOrderService(orderRepo)

	handler := NewOrderHandler(cart.NewStore(), catalogService, orderService, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return &handlerFixture{
		router:      router,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (f *handlerFixture) seedProduct(name string, price float64, available bool) *domain.Product {
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		IsAvailable: available,
		CreatedAt:   time.Now(),
	}
	f.productRepo.products[product.ID] = product
	return product
}

func (f *handlerFixture) do(method, path, session string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAddItemBuildsCart(t *testing.T) {
	f := newHandlerFixture()
	tea := f.seedProduct("Iced Tea", 3.50, true)
	sandwich := f.seedProduct("Club Sandwich", 5.00, true)

	w := f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: tea.ID.String()})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: tea.ID.String()})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: sandwich.ID.String()})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeCart(t, w)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, 3, resp.TotalItems)
	assert.Equal(t, 12.00, resp.TotalAmount)
}

func TestAddItemUnknownProductIs404(t *testing.T) {
	f := newHandlerFixture()

	w := f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: uuid.NewString()})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddItemUnavailableProductIs409(t *testing.T) {
	f := newHandlerFixture()
	product := f.seedProduct("Seasonal Latte", 4.50, false)

	w := f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: product.ID.String()})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	f := newHandlerFixture()
	product := f.seedProduct("Espresso", 2.75, true)

	w := f.do("POST", "/api/cart/items", "till-1", AddItemRequest{ProductID: product.ID.String()})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do("GET", "/api/cart", "till-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Items)

	w = f.do("GET", "/api/cart", "till-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeCart(t, w).Items, 1)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	f := newHandlerFixture()
	product := f.seedProduct("Mocha", 4.75, true)

	f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: product.ID.String()})
	w := f.do("PUT", "/api/cart/items/"+product.ID.String(), "", SetQuantityRequest{Quantity: 0})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Items)
}

func TestSubmitOrderHappyPath(t *testing.T) {
	f := newHandlerFixture()
	tea := f.seedProduct("Iced Tea", 3.50, true)

	f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: tea.ID.String()})
	f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: tea.ID.String()})
	f.do("PUT", "/api/cart/notes", "", SetNotesRequest{Notes: "table 4"})

	w := f.do("POST", "/api/orders", "", SubmitOrderRequest{PaymentMethod: "cash"})
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, 7.00, order.TotalAmount)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "table 4", order.CustomerName)
	assert.Contains(t, order.OrderNumber, "ORD-")

	// The cart is cleared once the order is persisted.
	w = f.do("GET", "/api/cart", "", nil)
	assert.Empty(t, decodeCart(t, w).Items)

	assert.Len(t, f.orderRepo.orders, 1)
	assert.Len(t, f.orderRepo.items[order.ID], 1)
}

func TestSubmitEmptyCartIs422(t *testing.T) {
	f := newHandlerFixture()

	w := f.do("POST", "/api/orders", "", SubmitOrderRequest{PaymentMethod: "cash"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, f.orderRepo.orders)
}

func TestSubmitRejectsUnknownPaymentMethod(t *testing.T) {
	f := newHandlerFixture()
	product := f.seedProduct("Latte", 4.25, true)
	f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: product.ID.String()})

	w := f.do("POST", "/api/orders", "", SubmitOrderRequest{PaymentMethod: "card"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.orderRepo.orders)

	// A rejected submission leaves the cart alone.
	w = f.do("GET", "/api/cart", "", nil)
	assert.Len(t, decodeCart(t, w).Items, 1)
}

func TestSetStatusTransitions(t *testing.T) {
	f := newHandlerFixture()
	product := f.seedProduct("Latte", 4.25, true)
	f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: product.ID.String()})

	w := f.do("POST", "/api/orders", "", SubmitOrderRequest{PaymentMethod: "gcash"})
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	w = f.do("PATCH", "/api/orders/"+order.ID.String()+"/status", "", SetStatusRequest{Status: "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
}

func TestSetStatusUnknownOrderIs404(t *testing.T) {
	f := newHandlerFixture()

	w := f.do("PATCH", "/api/orders/"+uuid.NewString()+"/status", "", SetStatusRequest{Status: "completed"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	f := newHandlerFixture()

	w := f.do("PATCH", "/api/orders/"+uuid.NewString()+"/status", "", SetStatusRequest{Status: "refunded"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteOrder(t *testing.T) {
	f := newHandlerFixture()
	product := f.seedProduct("Latte", 4.25, true)
	f.do("POST", "/api/cart/items", "", AddItemRequest{ProductID: product.ID.String()})

	w := f.do("POST", "/api/orders", "", SubmitOrderRequest{PaymentMethod: "cash"})
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	w = f.do("DELETE", "/api/orders/"+order.ID.String(), "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, f.orderRepo.orders)

	w = f.do("DELETE", "/api/orders/"+order.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrdersRejectsInvalidLimit(t *testing.T) {
	f := newHandlerFixture()

	w := f.do("GET", "/api/orders?limit=abc", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
