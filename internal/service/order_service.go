package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/cart"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/repository"

	"github.com/google/uuid"
)

const (
	// DefaultRecentOrderLimit caps the order listing for the orders view.
	DefaultRecentOrderLimit = 50
)

var (
	ErrEmptyOrder           = errors.New("cannot submit an order with an empty cart")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
)

// OrderService defines the business logic for order submission and lifecycle.
type OrderService interface {
	// Submit converts a non-empty cart into one persisted order plus one item
	// per cart line, all in a single transaction. The order total is frozen
	// at submission time. The cart is cleared only after the write succeeds;
	// on failure it is left intact so the user can retry.
	Submit(ctx context.Context, c *cart.Cart, payment domain.PaymentMethod, notesOverride string) (*domain.Order, error)

	// SetStatus sets the order status. Transitions are deliberately
	// permissive (any status to any other), matching the terminal's manual
	// correction workflow. Completing stamps completed_at; every other
	// target clears it.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)

	// Delete removes an order and all of its items.
	Delete(ctx context.Context, id uuid.UUID) error

	ListRecent(ctx context.Context, limit int) ([]*domain.OrderWithItems, error)
}

type orderService struct {
	orderRepo repository.OrderRepository

	// Guards order number generation so two submissions landing on the same
	// millisecond still get distinct numbers.
	numberMu   sync.Mutex
	lastNumber int64
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) Submit(ctx context.Context, c *cart.Cart, payment domain.PaymentMethod, notesOverride string) (*domain.Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyOrder
	}
	if !payment.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	now := time.Now()
	notes := c.Notes()
	if notesOverride != "" {
		notes = notesOverride
	}

	order := &domain.Order{
		ID:            uuid.New(),
		OrderNumber:   s.nextOrderNumber(now),
		CustomerName:  notes,
		TotalAmount:   c.TotalAmount(),
		Status:        domain.OrderStatusPending,
		PaymentMethod: payment,
		CreatedAt:     now,
	}

	lines := c.Lines()
	items := make([]*domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, &domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			PriceAtTime: line.Price,
			Notes:       line.Notes,
			CreatedAt:   now,
		})
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	// Only a confirmed write clears the cart.
	c.Clear()

	return order, nil
}

func (s *orderService) SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	var completedAt *time.Time
	if status == domain.OrderStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status, completedAt); err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orderRepo.Delete(ctx, id)
}

func (s *orderService) ListRecent(ctx context.Context, limit int) ([]*domain.OrderWithItems, error) {
	if limit <= 0 {
		limit = DefaultRecentOrderLimit
	}
	return s.orderRepo.ListRecent(ctx, limit)
}

// nextOrderNumber derives a human-facing order number from the submission
// timestamp, bumping forward when the clock has not advanced since the last
// submission.
func (s *orderService) nextOrderNumber(now time.Time) string {
	s.numberMu.Lock()
	defer s.numberMu.Unlock()

	millis := now.UnixMilli()
	if millis <= s.lastNumber {
		millis = s.lastNumber + 1
	}
	s.lastNumber = millis

	return fmt.Sprintf("ORD-%d", millis)
}
