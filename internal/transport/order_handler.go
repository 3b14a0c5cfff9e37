package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/cart"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/middleware"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/repository"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionHeader  = "X-Session-ID"
	defaultSession = "pos-terminal"
)

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// SetQuantityRequest represents the set-quantity payload; zero or negative
// removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetNotesRequest represents the cart notes payload
type SetNotesRequest struct {
	Notes string `json:"notes"`
}

// SubmitOrderRequest represents the order submission payload
type SubmitOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash gcash"`
	Notes         string `json:"notes"`
}

// SetStatusRequest represents the order status transition payload
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

// CartResponse is the cart view with derived totals
type CartResponse struct {
	Items       []cart.Line `json:"items"`
	Notes       string      `json:"notes"`
	TotalItems  int         `json:"total_items"`
	TotalAmount float64     `json:"total_amount"`
}

// OrderHandler handles HTTP requests for carts and orders
type OrderHandler struct {
	carts          *cart.Store
	catalogService service.CatalogService
	orderService   service.OrderService
	logger         *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(carts *cart.Store, catalogService service.CatalogService, orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		carts:          carts,
		catalogService: catalogService,
		orderService:   orderService,
		logger:         logger,
	}
}

// RegisterRoutes registers all cart and order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.SetQuantity)
		r.Delete("/items/{productID}", h.RemoveItem)
		r.Put("/notes", h.SetNotes)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.SubmitOrder)
		r.Patch("/{id}/status", h.SetStatus)
		r.Delete("/{id}", h.DeleteOrder)
	})
}

func sessionID(r *http.Request) string {
	if id := r.Header.Get(sessionHeader); id != "" {
		return id
	}
	return defaultSession
}

func cartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Items:       c.Lines(),
		Notes:       c.Notes(),
		TotalItems:  c.TotalItems(),
		TotalAmount: c.TotalAmount(),
	}
}

// GetCart returns the session's cart with derived totals
func (h *OrderHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	var resp CartResponse
	h.carts.WithCart(sessionID(r), func(c *cart.Cart) {
		resp = cartResponse(c)
	})
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// AddItem adds one unit of a product to the session's cart, merging with an
// existing line for the same product.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load product for cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product")
		return
	}

	if !product.IsAvailable {
		middleware.RespondWithError(w, http.StatusConflict, "product is not available")
		return
	}

	var resp CartResponse
	h.carts.WithCart(sessionID(r), func(c *cart.Cart) {
		c.AddProduct(product)
		resp = cartResponse(c)
	})

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// SetQuantity replaces a line's quantity; zero or negative removes the line
func (h *OrderHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req SetQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var resp CartResponse
	h.carts.WithCart(sessionID(r), func(c *cart.Cart) {
		c.SetQuantity(productID, req.Quantity)
		resp = cartResponse(c)
	})

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// RemoveItem deletes a line from the session's cart
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var resp CartResponse
	h.carts.WithCart(sessionID(r), func(c *cart.Cart) {
		c.RemoveProduct(productID)
		resp = cartResponse(c)
	})

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// SetNotes replaces the cart-wide notes
func (h *OrderHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req SetNotesRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var resp CartResponse
	h.carts.WithCart(sessionID(r), func(c *cart.Cart) {
		c.SetNotes(req.Notes)
		resp = cartResponse(c)
	})

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// ClearCart empties the session's cart explicitly
func (h *OrderHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	var resp CartResponse
	h.carts.WithCart(sessionID(r), func(c *cart.Cart) {
		c.Clear()
		resp = cartResponse(c)
	})

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// SubmitOrder converts the session's cart into a persisted order. The cart
// lock is held for the duration so no mutation can interleave with the write.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		order     *domain.Order
		submitErr error
	)
	h.carts.WithCart(sessionID(r), func(c *cart.Cart) {
		order, submitErr = h.orderService.Submit(r.Context(), c, domain.PaymentMethod(req.PaymentMethod), req.Notes)
	})

	if submitErr != nil {
		switch {
		case errors.Is(submitErr, service.ErrEmptyOrder):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, submitErr.Error())
		case errors.Is(submitErr, service.ErrInvalidPaymentMethod):
			middleware.RespondWithError(w, http.StatusBadRequest, submitErr.Error())
		default:
			h.logger.Error("Order submission failed", zap.Error(submitErr))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit order")
		}
		return
	}

	h.logger.Info("Order submitted",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total_amount", order.TotalAmount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// ListOrders returns the most recent orders with embedded items
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultRecentOrderLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	orders, err := h.orderService.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// SetStatus transitions an order's status
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req SetStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.SetStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// DeleteOrder removes an order and all its items
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to delete order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
