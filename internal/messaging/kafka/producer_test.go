package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(raw []byte) error {
		var event OrderCreatedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeOrderCreated {
			t.Errorf("unexpected event type: %s", event.EventType)
		}
		if event.OrderID != 42 {
			t.Errorf("unexpected order id: %d", event.OrderID)
		}
		return nil
	})

	event := NewOrderCreatedEvent(42)
	if err := producer.PublishEvent(TopicOrderEvents, "42", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewOrderCreatedEvent(42)
	if err := producer.PublishEvent(TopicOrderEvents, "42", event); err == nil {
		t.Fatal("expected error from failed send")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
