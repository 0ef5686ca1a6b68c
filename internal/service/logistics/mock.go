package logistics

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
)

// defaultNotifyDelay имитирует латентность внешнего логистического API.
const defaultNotifyDelay = 2 * time.Second

// MockService — заглушка LogisticsService: выдерживает паузу внешнего
// вызова и пишет факт уведомления в лог. Используется в dev-режиме и в
// тестах; в production её заменяет Kafka-реализация.
type MockService struct {
	// NotifyErr позволяет тестам смоделировать сбой уведомления.
	NotifyErr error

	delay  time.Duration
	logger *log.Entry

	mu       sync.Mutex
	notified []int64
}

// NewMockService возвращает mock с задержкой внешнего вызова по умолчанию.
func NewMockService() *MockService {
	return NewMockServiceWithDelay(defaultNotifyDelay)
}

// NewMockServiceWithDelay возвращает mock с заданной задержкой
// (в тестах её сводят к нулю).
func NewMockServiceWithDelay(delay time.Duration) *MockService {
	return &MockService{
		delay:  delay,
		logger: log.WithField("component", "logistics-mock"),
	}
}

// NotifyOrder ждёт имитированную латентность, затем логирует уведомление.
func (m *MockService) NotifyOrder(ctx context.Context, orderID int64) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if m.NotifyErr != nil {
		return m.NotifyErr
	}

	m.mu.Lock()
	m.notified = append(m.notified, orderID)
	m.mu.Unlock()

	m.logger.WithField("order_id", orderID).Info("order sent to logistics")
	return nil
}

// NotifiedOrders возвращает копию списка уведомлённых заказов (для тестов).
func (m *MockService) NotifiedOrders() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.notified...)
}

var _ domain.LogisticsService = (*MockService)(nil)
