// Package kafka publishes order ledger entries to a Kafka topic. Messages are
// keyed by order id so every event of one order lands on the same partition
// and consumers see them in ledger order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cardorders/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderChanged is the message value written for every ledger entry.
type OrderChanged struct {
	EventID   string    `json:"eventId"`
	OrderID   string    `json:"orderId"`
	State     string    `json:"state"`
	Trigger   string    `json:"trigger,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewWriter returns a synchronous writer that hashes message keys onto partitions
// and waits for all in-sync replicas.
func NewWriter(brokers string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// OrderEventPublisher implements ports.OrderEventPublisher.
type OrderEventPublisher struct {
	writer MessageWriter
}

// NewOrderEventPublisher wraps writer.
func NewOrderEventPublisher(writer MessageWriter) *OrderEventPublisher {
	return &OrderEventPublisher{writer: writer}
}

// Publish writes one message per event in the given order. Either all
// messages are acknowledged or an error is returned.
func (p *OrderEventPublisher) Publish(ctx context.Context, events []*order.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		msg, err := toMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(event *order.Event) (kafka.Message, error) {
	if err := event.Validate(); err != nil {
		return kafka.Message{}, err
	}

	value, err := json.Marshal(OrderChanged{
		EventID:   event.ID().String(),
		OrderID:   event.OrderID().String(),
		State:     event.State().String(),
		Trigger:   event.Trigger().String(),
		CreatedAt: event.CreatedAt(),
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal order event %s: %w", event.ID(), err)
	}

	return kafka.Message{
		Key:   []byte(event.OrderID().String()),
		Value: value,
		Time:  event.CreatedAt(),
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.ID().String())},
		},
	}, nil
}
