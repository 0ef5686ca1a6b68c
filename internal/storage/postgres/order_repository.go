package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
)

const opTimeout = 5 * time.Second

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// OrderExists выполняет точечную проверку дубликата по request_id.
func (r *orderRepository) OrderExists(ctx context.Context, requestID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1
		FROM orders
		WHERE request_id = $1
	`, requestID).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

// CreateOrder выполняет upsert клиента, вставку заказа и вставку позиций
// в одной транзакции. Любой сбой откатывает все три шага, поэтому
// заказа без позиций или позиций без заказа в базе не бывает.
func (r *orderRepository) CreateOrder(ctx context.Context, order domain.NewOrder) (domain.CreatedOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.CreatedOrder{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	customerID, err := upsertCustomer(ctx, tx, order.Customer)
	if err != nil {
		return domain.CreatedOrder{}, err
	}

	orderID, err := insertOrder(ctx, tx, customerID, order.RequestID, order.TotalAmount)
	if err != nil {
		return domain.CreatedOrder{}, err
	}

	if err = insertOrderItems(ctx, tx, orderID, order.Items); err != nil {
		return domain.CreatedOrder{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.CreatedOrder{}, fmt.Errorf("commit create order: %w", err)
	}

	return domain.CreatedOrder{
		OrderID:     orderID,
		CustomerID:  customerID,
		TotalAmount: order.TotalAmount,
	}, nil
}

// upsertCustomer возвращает customer_id по email, создавая запись при
// первом обращении. DO UPDATE нужен только чтобы RETURNING сработал и
// для существующей строки; имя существующего клиента не перезаписывается.
func upsertCustomer(ctx context.Context, tx *sql.Tx, customer domain.CustomerInfo) (int64, error) {
	var customerID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO customers (name, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING customer_id
	`, customer.Name, customer.Email).Scan(&customerID)
	if err != nil {
		return 0, fmt.Errorf("upsert customer: %w", err)
	}
	return customerID, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, customerID int64, requestID uuid.UUID, totalAmount float64) (int64, error) {
	var orderID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, request_id, total_amount)
		VALUES ($1, $2, $3)
		RETURNING order_id
	`, customerID, requestID, totalAmount).Scan(&orderID)
	if err != nil {
		if isUniqueViolation(err) {
			// Конкурентный запрос с тем же request_id успел раньше.
			return 0, domain.ErrDuplicateRequest
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return orderID, nil
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, orderID int64, items []domain.LineItem) error {
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
		`, orderID, item.ProductName, item.Quantity, item.UnitPrice); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
