package kafka

import "time"

// EventType определяет тип события.
type EventType string

const (
	// EventTypeOrderCreated публикуется после успешной записи заказа.
	EventTypeOrderCreated EventType = "order.created"
)

// TopicOrderEvents — topic по умолчанию для событий интейка заказов.
const TopicOrderEvents = "intake.order.events"

// OrderCreatedEvent — уведомление логистики о новом заказе. Получатель
// видит только суррогатный orderId, остальное он запрашивает сам.
type OrderCreatedEvent struct {
	EventType EventType `json:"event_type"`
	OrderID   int64     `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderCreatedEvent создаёт событие о созданном заказе.
func NewOrderCreatedEvent(orderID int64) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		EventType: EventTypeOrderCreated,
		OrderID:   orderID,
		Timestamp: time.Now(),
	}
}
