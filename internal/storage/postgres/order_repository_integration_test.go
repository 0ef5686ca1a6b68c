package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
)

func integrationOrder(requestID, email string) domain.NewOrder {
	return domain.NewOrder{
		RequestID: uuid.MustParse(requestID),
		Customer:  domain.CustomerInfo{Name: "Ann", Email: email},
		Items: []domain.LineItem{
			{ProductName: "Widget", Quantity: 2, UnitPrice: 5.00},
			{ProductName: "Gadget", Quantity: 1, UnitPrice: 3.25},
		},
		TotalAmount: 13.25,
	}
}

func TestOrderRepositoryIntegration_CreateOrder(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := repo.CreateOrder(ctx, integrationOrder("11111111-1111-1111-1111-111111111111", "ann@example.com"))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.OrderID == 0 || created.CustomerID == 0 {
		t.Fatalf("expected generated ids, got %+v", created)
	}

	if got := countRowsForIntegrationTest(t, store, "customers"); got != 1 {
		t.Fatalf("expected 1 customer row, got %d", got)
	}
	if got := countRowsForIntegrationTest(t, store, "orders"); got != 1 {
		t.Fatalf("expected 1 order row, got %d", got)
	}
	if got := countRowsForIntegrationTest(t, store, "order_items"); got != 2 {
		t.Fatalf("expected 2 order_items rows, got %d", got)
	}

	var totalAmount float64
	err = store.DB().QueryRowContext(ctx, `
		SELECT total_amount FROM orders WHERE order_id = $1
	`, created.OrderID).Scan(&totalAmount)
	if err != nil {
		t.Fatalf("select total_amount: %v", err)
	}
	if totalAmount != 13.25 {
		t.Fatalf("expected total 13.25, got %v", totalAmount)
	}
}

func TestOrderRepositoryIntegration_OrderExists(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	requestID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	exists, err := repo.OrderExists(ctx, requestID)
	if err != nil {
		t.Fatalf("order exists: %v", err)
	}
	if exists {
		t.Fatal("expected no order yet")
	}

	if _, err := repo.CreateOrder(ctx, integrationOrder(requestID.String(), "ann@example.com")); err != nil {
		t.Fatalf("create order: %v", err)
	}

	exists, err = repo.OrderExists(ctx, requestID)
	if err != nil {
		t.Fatalf("order exists: %v", err)
	}
	if !exists {
		t.Fatal("expected order to exist")
	}
}

func TestOrderRepositoryIntegration_DuplicateRequestID(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order := integrationOrder("11111111-1111-1111-1111-111111111111", "ann@example.com")
	if _, err := repo.CreateOrder(ctx, order); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Повторная вставка упирается в уникальный индекс request_id;
	// транзакция откатывается целиком, новых строк не появляется.
	if _, err := repo.CreateOrder(ctx, order); !domain.IsDuplicateRequest(err) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}

	if got := countRowsForIntegrationTest(t, store, "orders"); got != 1 {
		t.Fatalf("expected 1 order row, got %d", got)
	}
	if got := countRowsForIntegrationTest(t, store, "order_items"); got != 2 {
		t.Fatalf("expected 2 order_items rows, got %d", got)
	}
	if got := countRowsForIntegrationTest(t, store, "customers"); got != 1 {
		t.Fatalf("expected 1 customer row, got %d", got)
	}
}

func TestOrderRepositoryIntegration_CustomerReuse(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	first, err := repo.CreateOrder(ctx, integrationOrder("11111111-1111-1111-1111-111111111111", "ann@example.com"))
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second, err := repo.CreateOrder(ctx, integrationOrder("22222222-2222-2222-2222-222222222222", "ann@example.com"))
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if first.CustomerID != second.CustomerID {
		t.Fatalf("expected shared customer, got %d and %d", first.CustomerID, second.CustomerID)
	}
	if got := countRowsForIntegrationTest(t, store, "customers"); got != 1 {
		t.Fatalf("expected 1 customer row, got %d", got)
	}

	third, err := repo.CreateOrder(ctx, integrationOrder("33333333-3333-3333-3333-333333333333", "bob@example.com"))
	if err != nil {
		t.Fatalf("third create: %v", err)
	}
	if third.CustomerID == first.CustomerID {
		t.Fatal("expected a new customer for a new email")
	}
	if got := countRowsForIntegrationTest(t, store, "customers"); got != 2 {
		t.Fatalf("expected 2 customer rows, got %d", got)
	}
}

func TestOrderRepositoryIntegration_CustomerNameNotRewritten(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	first := integrationOrder("11111111-1111-1111-1111-111111111111", "ann@example.com")
	if _, err := repo.CreateOrder(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	renamed := integrationOrder("22222222-2222-2222-2222-222222222222", "ann@example.com")
	renamed.Customer.Name = "Ann Jr."
	if _, err := repo.CreateOrder(ctx, renamed); err != nil {
		t.Fatalf("second create: %v", err)
	}

	var name string
	err := store.DB().QueryRowContext(ctx, `
		SELECT name FROM customers WHERE email = $1
	`, "ann@example.com").Scan(&name)
	if err != nil {
		t.Fatalf("select customer name: %v", err)
	}
	// Имя фиксируется при первом заказе; повторные заказы его не меняют.
	if name != "Ann" {
		t.Fatalf("expected original name Ann, got %q", name)
	}
}
