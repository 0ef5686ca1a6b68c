package intake_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
	"github.com/vladislavdragonenkov/order-intake/internal/service/intake"
	"github.com/vladislavdragonenkov/order-intake/internal/service/logistics"
	"github.com/vladislavdragonenkov/order-intake/internal/storage/memory"
)

// stubRepo позволяет подменить поведение отдельных операций репозитория.
type stubRepo struct {
	orderExists func(ctx context.Context, requestID uuid.UUID) (bool, error)
	createOrder func(ctx context.Context, order domain.NewOrder) (domain.CreatedOrder, error)

	existsCalls int
	createCalls int
}

func (r *stubRepo) OrderExists(ctx context.Context, requestID uuid.UUID) (bool, error) {
	r.existsCalls++
	if r.orderExists == nil {
		return false, nil
	}
	return r.orderExists(ctx, requestID)
}

func (r *stubRepo) CreateOrder(ctx context.Context, order domain.NewOrder) (domain.CreatedOrder, error) {
	r.createCalls++
	if r.createOrder == nil {
		return domain.CreatedOrder{OrderID: 1, CustomerID: 1, TotalAmount: order.TotalAmount}, nil
	}
	return r.createOrder(ctx, order)
}

func exampleRequest() domain.OrderRequest {
	return domain.OrderRequest{
		RequestID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Customer:  &domain.CustomerInfo{Name: "Ann", Email: "ann@example.com"},
		Items: []domain.LineItem{
			{ProductName: "Widget", Quantity: 2, UnitPrice: 5.00},
		},
	}
}

func waitForNotifications(t *testing.T, svc *intake.Service) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))
}

func TestCreateOrder_Success(t *testing.T) {
	repo := memory.NewOrderRepository()
	mock := logistics.NewMockServiceWithDelay(0)
	svc := intake.NewService(repo, mock, nil)

	created, err := svc.CreateOrder(context.Background(), exampleRequest())
	require.NoError(t, err)
	require.NotZero(t, created.OrderID)
	require.NotZero(t, created.CustomerID)
	require.Equal(t, 10.00, created.TotalAmount)

	waitForNotifications(t, svc)
	require.Equal(t, []int64{created.OrderID}, mock.NotifiedOrders())
}

func TestCreateOrder_ValidationRejectsBeforePersistence(t *testing.T) {
	repo := &stubRepo{}
	svc := intake.NewService(repo, logistics.NewMockServiceWithDelay(0), nil)

	req := exampleRequest()
	req.Customer = nil
	req.Items = nil

	_, err := svc.CreateOrder(context.Background(), req)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, []string{
		"Customer info is required.",
		"Customer name is required.",
		"Invalid customer email.",
		"At least one order item is required.",
	}, vErr.Messages())

	// До гейтвея персистентности невалидный запрос не доходит.
	require.Zero(t, repo.existsCalls)
	require.Zero(t, repo.createCalls)
}

func TestCreateOrder_DuplicateRequest(t *testing.T) {
	repo := memory.NewOrderRepository()
	mock := logistics.NewMockServiceWithDelay(0)
	svc := intake.NewService(repo, mock, nil)

	req := exampleRequest()
	_, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrDuplicateRequest)

	// Дубликат не порождает повторного уведомления.
	waitForNotifications(t, svc)
	require.Len(t, mock.NotifiedOrders(), 1)
}

func TestCreateOrder_DuplicateRaceAtInsert(t *testing.T) {
	// Конкурентный повтор: предварительная проверка промахивается, а
	// вставка упирается в уникальный индекс request_id.
	repo := &stubRepo{
		createOrder: func(context.Context, domain.NewOrder) (domain.CreatedOrder, error) {
			return domain.CreatedOrder{}, domain.ErrDuplicateRequest
		},
	}
	svc := intake.NewService(repo, logistics.NewMockServiceWithDelay(0), nil)

	_, err := svc.CreateOrder(context.Background(), exampleRequest())
	require.ErrorIs(t, err, domain.ErrDuplicateRequest)
}

func TestCreateOrder_PersistenceFaultPropagates(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo := &stubRepo{
		createOrder: func(context.Context, domain.NewOrder) (domain.CreatedOrder, error) {
			return domain.CreatedOrder{}, storeErr
		},
	}
	mock := logistics.NewMockServiceWithDelay(0)
	svc := intake.NewService(repo, mock, nil)

	_, err := svc.CreateOrder(context.Background(), exampleRequest())
	require.ErrorIs(t, err, storeErr)

	waitForNotifications(t, svc)
	require.Empty(t, mock.NotifiedOrders())
}

func TestCreateOrder_NotificationFailureIsSwallowed(t *testing.T) {
	repo := memory.NewOrderRepository()
	mock := logistics.NewMockServiceWithDelay(0)
	mock.NotifyErr = errors.New("logistics unavailable")
	svc := intake.NewService(repo, mock, nil)

	created, err := svc.CreateOrder(context.Background(), exampleRequest())
	require.NoError(t, err)
	require.NotZero(t, created.OrderID)

	// Сбой уведомления не виден вызывающей стороне.
	waitForNotifications(t, svc)
	require.Empty(t, mock.NotifiedOrders())
}

func TestCreateOrder_CustomerReuse(t *testing.T) {
	repo := memory.NewOrderRepository()
	svc := intake.NewService(repo, logistics.NewMockServiceWithDelay(0), nil)

	first := exampleRequest()
	firstCreated, err := svc.CreateOrder(context.Background(), first)
	require.NoError(t, err)

	second := exampleRequest()
	second.RequestID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	secondCreated, err := svc.CreateOrder(context.Background(), second)
	require.NoError(t, err)

	require.NotEqual(t, firstCreated.OrderID, secondCreated.OrderID)
	require.Equal(t, firstCreated.CustomerID, secondCreated.CustomerID)

	third := exampleRequest()
	third.RequestID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	third.Customer = &domain.CustomerInfo{Name: "Bob", Email: "bob@example.com"}
	thirdCreated, err := svc.CreateOrder(context.Background(), third)
	require.NoError(t, err)
	require.NotEqual(t, firstCreated.CustomerID, thirdCreated.CustomerID)
}

func TestShutdown_SkipsNewNotifications(t *testing.T) {
	repo := memory.NewOrderRepository()
	mock := logistics.NewMockServiceWithDelay(0)
	svc := intake.NewService(repo, mock, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))

	// Запись по-прежнему работает, но уведомление уже не запускается.
	created, err := svc.CreateOrder(context.Background(), exampleRequest())
	require.NoError(t, err)
	require.NotZero(t, created.OrderID)
	require.Empty(t, mock.NotifiedOrders())
}
