package logistics

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
	"github.com/vladislavdragonenkov/order-intake/internal/messaging/kafka"
)

// KafkaService уведомляет логистику публикацией события order.created.
// Партиционирование по orderId сохраняет порядок событий одного заказа.
type KafkaService struct {
	producer *kafka.Producer
	topic    string
	logger   *log.Entry
}

// NewKafkaService создаёт Kafka-реализацию LogisticsService.
func NewKafkaService(producer *kafka.Producer, topic string, logger *log.Entry) *KafkaService {
	if topic == "" {
		topic = kafka.TopicOrderEvents
	}
	if logger == nil {
		logger = log.WithField("component", "logistics-kafka")
	}
	return &KafkaService{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// NotifyOrder публикует событие о созданном заказе.
func (s *KafkaService) NotifyOrder(_ context.Context, orderID int64) error {
	event := kafka.NewOrderCreatedEvent(orderID)
	if err := s.producer.PublishEvent(s.topic, strconv.FormatInt(orderID, 10), event); err != nil {
		return err
	}

	s.logger.WithField("order_id", orderID).Debug("order event published")
	return nil
}

var _ domain.LogisticsService = (*KafkaService)(nil)
