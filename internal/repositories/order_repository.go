package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/malaura/storefront/internal/models"
)

type OrderRepository interface {
	// CreateOrder inserts the order and its items unless an order with the same
	// payment intent already exists. It reports whether a row was inserted.
	CreateOrder(ctx context.Context, order *models.Order) (bool, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	MarkOrderPaid(ctx context.Context, paymentIntentID string) (bool, error)
	CountPaidOrdersByEmail(ctx context.Context, email string) (int, error)
	CountPaidOrdersByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, user_id, customer_name, customer_email, shipping_address, delivery_method,
	       subtotal, shipping_cost, total_amount, stripe_payment_intent_id, status, created_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	o := &models.Order{}

	err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.ShippingAddress, &o.DeliveryMethod,
		&o.Subtotal, &o.ShippingCost, &o.TotalAmount, &o.PaymentIntentID, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (bool, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO orders (user_id, customer_name, customer_email, shipping_address, delivery_method,
		                    subtotal, shipping_cost, total_amount, stripe_payment_intent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (stripe_payment_intent_id) DO NOTHING
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(dbCtx, query, order.UserID, order.CustomerName, order.CustomerEmail, order.ShippingAddress,
		order.DeliveryMethod, order.Subtotal, order.ShippingCost, order.TotalAmount, order.PaymentIntentID, order.Status).
		Scan(&order.ID, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price_per_unit, color, finish)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		err := tx.QueryRowContext(dbCtx, itemQuery, order.ID, item.ProductID, item.Quantity, item.PricePerUnit, item.Color, item.Finish).
			Scan(&item.ID)
		if err != nil {
			return false, fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit order: %w", err)
	}

	return true, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.getOrder(ctx, `WHERE id = $1`, id)
}

func (r *orderRepository) GetOrderByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return r.getOrder(ctx, `WHERE stripe_payment_intent_id = $1`, paymentIntentID)
}

func (r *orderRepository) getOrder(ctx context.Context, where string, arg any) (*models.Order, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + `
		FROM orders
		` + where

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, arg))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := r.itemsFor(dbCtx, []int64{order.ID})
	if err != nil {
		return nil, err
	}

	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}

	return order, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''), COALESCE(p.image_url, ''),
		       oi.quantity, oi.price_per_unit, COALESCE(oi.color, ''), COALESCE(oi.finish, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]models.OrderItem, len(orderIDs))

	for rows.Next() {
		var item models.OrderItem

		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ImageURL,
			&item.Quantity, &item.PricePerUnit, &item.Color, &item.Finish)
		if err != nil {
			return nil, fmt.Errorf("failed to scan an order item: %w", err)
		}

		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	ids := []int64{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := r.itemsFor(dbCtx, ids)
	if err != nil {
		return nil, 0, err
	}

	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
	}

	return orders, total, nil
}

func (r *orderRepository) MarkOrderPaid(ctx context.Context, paymentIntentID string) (bool, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	query := `
		UPDATE orders SET status = $1
		WHERE stripe_payment_intent_id = $2 AND status = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, models.OrderStatusPaid, paymentIntentID, models.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *orderRepository) CountPaidOrdersByEmail(ctx context.Context, email string) (int, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	var count int

	query := `SELECT COUNT(*) FROM orders WHERE lower(customer_email) = lower($1) AND status = $2`

	if err := r.DB.QueryRowContext(dbCtx, query, email, models.OrderStatusPaid).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count paid orders: %w", err)
	}

	return count, nil
}

func (r *orderRepository) CountPaidOrdersByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	var count int

	query := `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = $2`

	if err := r.DB.QueryRowContext(dbCtx, query, userID, models.OrderStatusPaid).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count paid orders: %w", err)
	}

	return count, nil
}
