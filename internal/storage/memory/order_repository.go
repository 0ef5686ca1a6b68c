package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository для
// локальной разработки и тестов. Суррогатные идентификаторы выдаются
// монотонно, как последовательности в PostgreSQL.
type orderRepositoryInMemory struct {
	mu sync.Mutex

	nextCustomerID int64
	nextOrderID    int64

	customersByEmail map[string]domain.Customer
	ordersByRequest  map[uuid.UUID]domain.Order
	itemsByOrder     map[int64][]domain.OrderItem
}

// NewOrderRepository возвращает пустой in-memory репозиторий.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		nextCustomerID:   1,
		nextOrderID:      1,
		customersByEmail: make(map[string]domain.Customer),
		ordersByRequest:  make(map[uuid.UUID]domain.Order),
		itemsByOrder:     make(map[int64][]domain.OrderItem),
	}
}

func (r *orderRepositoryInMemory) OrderExists(_ context.Context, requestID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.ordersByRequest[requestID]
	return exists, nil
}

// CreateOrder повторяет транзакционную семантику PostgreSQL-реализации:
// под одной блокировкой либо появляются клиент, заказ и все позиции,
// либо не меняется ничего.
func (r *orderRepositoryInMemory) CreateOrder(_ context.Context, order domain.NewOrder) (domain.CreatedOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ordersByRequest[order.RequestID]; exists {
		return domain.CreatedOrder{}, domain.ErrDuplicateRequest
	}

	customer, ok := r.customersByEmail[order.Customer.Email]
	if !ok {
		// Имя фиксируется при первом заказе и дальше не обновляется.
		customer = domain.Customer{
			CustomerID: r.nextCustomerID,
			Name:       order.Customer.Name,
			Email:      order.Customer.Email,
		}
		r.nextCustomerID++
		r.customersByEmail[order.Customer.Email] = customer
	}

	created := domain.Order{
		OrderID:     r.nextOrderID,
		CustomerID:  customer.CustomerID,
		RequestID:   order.RequestID,
		TotalAmount: order.TotalAmount,
	}
	r.nextOrderID++
	r.ordersByRequest[order.RequestID] = created

	items := make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.OrderItem{
			OrderID:     created.OrderID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	r.itemsByOrder[created.OrderID] = items

	return domain.CreatedOrder{
		OrderID:     created.OrderID,
		CustomerID:  customer.CustomerID,
		TotalAmount: order.TotalAmount,
	}, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
