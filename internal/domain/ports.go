package domain

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository описывает требования к гейтвею персистентности заказов.
type OrderRepository interface {
	// OrderExists выполняет точечную проверку по уникальному request_id.
	OrderExists(ctx context.Context, requestID uuid.UUID) (bool, error)
	// CreateOrder атомарно выполняет upsert клиента по email, вставку
	// заказа и вставку всех позиций. Повторный request_id возвращает
	// ErrDuplicateRequest, частичных записей не остаётся.
	CreateOrder(ctx context.Context, order NewOrder) (CreatedOrder, error)
}

// LogisticsService — порт уведомления внешней логистики о новом заказе.
// Вызывается в режиме fire-and-forget: обработчик не ждёт завершения и
// не наблюдает результат.
type LogisticsService interface {
	NotifyOrder(ctx context.Context, orderID int64) error
}
