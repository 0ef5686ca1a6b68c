package intake

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
	"github.com/vladislavdragonenkov/order-intake/internal/metrics"
)

// notifyTimeout ограничивает жизнь фонового уведомления: оно переживает
// HTTP-ответ, но не висит бесконечно при недоступной логистике.
const notifyTimeout = 30 * time.Second

// Service — обработчик приёма заказа: валидация → проверка дубликата →
// транзакционная запись → фоновое уведомление логистики.
type Service struct {
	repo      domain.OrderRepository
	logistics domain.LogisticsService
	logger    *log.Entry
	metrics   *metrics.IntakeMetrics

	notifyMu     sync.Mutex
	notifyClosed bool
	notifyWG     sync.WaitGroup
}

// NewService конструирует сервис без метрик (для тестов).
func NewService(
	repo domain.OrderRepository,
	logistics domain.LogisticsService,
	logger *log.Entry,
) *Service {
	return NewServiceWithMetrics(repo, logistics, nil, logger)
}

// NewServiceWithMetrics конструирует сервис с Prometheus-метриками.
func NewServiceWithMetrics(
	repo domain.OrderRepository,
	logistics domain.LogisticsService,
	m *metrics.IntakeMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "intake")
	}
	return &Service{
		repo:      repo,
		logistics: logistics,
		logger:    logger,
		metrics:   m,
	}
}

// CreateOrder проводит запрос через линейную цепочку состояний приёма.
// Терминальные исходы: ValidationError, ErrDuplicateRequest, ошибка
// персистентности или успешно созданный заказ.
func (s *Service) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.CreatedOrder, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordIntakeDuration(time.Since(start))
		}
	}()

	if violations := req.Validate(); len(violations) > 0 {
		if s.metrics != nil {
			s.metrics.RecordOrderRejected(metrics.RejectReasonValidation)
		}
		return domain.CreatedOrder{}, &domain.ValidationError{Violations: violations}
	}

	exists, err := s.repo.OrderExists(ctx, req.RequestID)
	if err != nil {
		s.logger.WithError(err).WithField("request_id", req.RequestID).Error("idempotency check failed")
		return domain.CreatedOrder{}, err
	}
	if exists {
		if s.metrics != nil {
			s.metrics.RecordOrderRejected(metrics.RejectReasonDuplicate)
		}
		return domain.CreatedOrder{}, domain.ErrDuplicateRequest
	}

	// Сумма фиксируется до записи; после вставки она не пересчитывается.
	order := domain.NewOrder{
		RequestID:   req.RequestID,
		Customer:    *req.Customer,
		Items:       req.Items,
		TotalAmount: req.TotalAmount(),
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if domain.IsDuplicateRequest(err) {
			// Конкурентный повтор проскочил предварительную проверку и
			// упёрся в уникальный индекс request_id.
			if s.metrics != nil {
				s.metrics.RecordOrderRejected(metrics.RejectReasonDuplicate)
			}
			return domain.CreatedOrder{}, err
		}
		s.logger.WithError(err).WithFields(log.Fields{
			"request_id":     req.RequestID,
			"customer_email": order.Customer.Email,
		}).Error("failed to persist order")
		return domain.CreatedOrder{}, err
	}

	s.notifyAsync(created.OrderID)

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}

	s.logger.WithFields(log.Fields{
		"request_id":  req.RequestID,
		"order_id":    created.OrderID,
		"customer_id": created.CustomerID,
	}).Info("order created")

	return created, nil
}

// notifyAsync запускает fire-and-forget уведомление логистики: вызывающая
// сторона не ждёт завершения и не видит результат, сбой только логируется.
func (s *Service) notifyAsync(orderID int64) {
	s.notifyMu.Lock()
	if s.notifyClosed {
		s.notifyMu.Unlock()
		s.logger.WithField("order_id", orderID).Warn("notification skipped during shutdown")
		return
	}
	s.notifyWG.Add(1)
	s.notifyMu.Unlock()

	go func() {
		defer s.notifyWG.Done()

		if s.metrics != nil {
			s.metrics.RecordNotificationStarted()
			defer s.metrics.RecordNotificationFinished()
		}

		// Уведомление живёт дольше HTTP-запроса, поэтому получает свой
		// контекст с собственным дедлайном.
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.logistics.NotifyOrder(ctx, orderID); err != nil {
			if s.metrics != nil {
				s.metrics.RecordNotificationFailure()
			}
			s.logger.WithError(err).WithField("order_id", orderID).Warn("logistics notification failed")
		}
	}()
}

// Shutdown ждёт завершения фоновых уведомлений; новые после вызова не
// принимаются. При шатдауне процесса незавершённые уведомления теряются —
// durable-очереди у интейка нет.
func (s *Service) Shutdown(ctx context.Context) error {
	s.notifyMu.Lock()
	s.notifyClosed = true
	s.notifyMu.Unlock()

	waitDone := make(chan struct{})
	go func() {
		s.notifyWG.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
