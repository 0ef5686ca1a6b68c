package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
	"github.com/vladislavdragonenkov/order-intake/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/order-intake/internal/service/logistics"
	"github.com/vladislavdragonenkov/order-intake/internal/storage/memory"
	"github.com/vladislavdragonenkov/order-intake/internal/storage/postgres"
)

// Dependencies содержит собранные зависимости приложения.
type Dependencies struct {
	Repo      domain.OrderRepository
	Logistics domain.LogisticsService
	Logger    *log.Entry

	// Store не nil только при postgres-драйвере; используется health-чеком.
	Store *postgres.Store
	// Producer не nil только при настроенной Kafka.
	Producer *kafka.Producer
}

// NewDependencies инициализирует хранилище и канал уведомления логистики
// согласно конфигурации. Kafka опциональна: при ошибке подключения сервис
// продолжает работу на mock-логистике.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if cfg.AutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		deps.Store = store
		deps.Repo = postgres.NewOrderRepository(store)
		logger.Info("using postgres order storage")
	case StorageDriverMemory:
		deps.Repo = memory.NewOrderRepository()
		logger.Info("using in-memory order storage")
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, falling back to mock logistics")
		} else {
			deps.Producer = producer
			deps.Logistics = logistics.NewKafkaService(producer, cfg.KafkaTopic, logger.WithField("component", "logistics"))
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka logistics notifications enabled")
		}
	}
	if deps.Logistics == nil {
		deps.Logistics = logistics.NewMockServiceWithDelay(cfg.NotifyDelay)
		logger.Info("using mock logistics service")
	}

	return deps, nil
}

// Close освобождает внешние ресурсы в обратном порядке инициализации.
func (d *Dependencies) Close() {
	if d.Producer != nil {
		if err := d.Producer.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			d.Logger.Info("kafka producer closed")
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
