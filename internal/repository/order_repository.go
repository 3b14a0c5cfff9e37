package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// CreateWithItems persists the order header and all its items in a single
	// transaction; either everything lands or nothing does.
	CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, completedAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.OrderWithItems, error)
	ListCompletedBetween(ctx context.Context, start, end time.Time) ([]*domain.OrderWithItems, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, customer_name, total_amount, status, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		order.ID,
		order.OrderNumber,
		nullString(order.CustomerName),
		order.TotalAmount,
		string(order.Status),
		string(order.PaymentMethod),
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price_at_time, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.PriceAtTime,
			nullString(item.Notes),
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// UpdateStatus sets the order status. completedAt is stamped on completion
// and nil clears the column for every other target status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, completedAt *time.Time) error {
	query := `
		UPDATE orders
		SET status = $1, completed_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, string(status), completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete removes an order and its items, items first, in one transaction.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order delete: %w", err)
	}

	return nil
}

// FindByID retrieves an order header by ID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, order_number, customer_name, total_amount, status, payment_method, created_at, completed_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// ListRecent retrieves the most recent orders with their items and product
// names embedded, newest first.
func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.OrderWithItems, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_number, customer_name, total_amount, status, payment_method, created_at, completed_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	return r.attachItems(ctx, orders)
}

// ListCompletedBetween retrieves completed orders in the closed interval
// [start, end], oldest first, with items embedded for reporting.
func (r *orderRepository) ListCompletedBetween(ctx context.Context, start, end time.Time) ([]*domain.OrderWithItems, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_number, customer_name, total_amount, status, payment_method, created_at, completed_at
		FROM orders
		WHERE status = 'completed' AND created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	return r.attachItems(ctx, orders)
}

// attachItems loads items for each order. LEFT JOIN keeps items whose product
// has since been deleted; their product name comes back empty.
func (r *orderRepository) attachItems(ctx context.Context, orders []*domain.OrderWithItems) ([]*domain.OrderWithItems, error) {
	for _, order := range orders {
		rows, err := r.db.QueryContext(ctx, `
			SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_time, oi.notes, oi.created_at, p.name
			FROM order_items oi
			LEFT JOIN products p ON oi.product_id = p.id
			WHERE oi.order_id = $1
			ORDER BY oi.created_at ASC
		`, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list order items: %w", err)
		}

		items := []domain.OrderItem{}
		for rows.Next() {
			item := domain.OrderItem{}
			var (
				notes       sql.NullString
				productName sql.NullString
			)
			err := rows.Scan(
				&item.ID,
				&item.OrderID,
				&item.ProductID,
				&item.Quantity,
				&item.PriceAtTime,
				&notes,
				&item.CreatedAt,
				&productName,
			)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan order item: %w", err)
			}
			item.Notes = notes.String
			item.ProductName = productName.String
			items = append(items, item)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error iterating order items: %w", err)
		}
		rows.Close()

		order.Items = items
	}

	return orders, nil
}

func collectOrders(rows *sql.Rows) ([]*domain.OrderWithItems, error) {
	orders := []*domain.OrderWithItems{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &domain.OrderWithItems{Order: *order})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var (
		customerName sql.NullString
		status       string
		payment      sql.NullString
		completedAt  sql.NullTime
	)
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&customerName,
		&order.TotalAmount,
		&status,
		&payment,
		&order.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	order.CustomerName = customerName.String
	order.Status = domain.OrderStatus(status)
	order.PaymentMethod = domain.PaymentMethod(payment.String)
	if completedAt.Valid {
		t := completedAt.Time
		order.CompletedAt = &t
	}
	return order, nil
}
