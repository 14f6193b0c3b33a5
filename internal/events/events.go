package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	SaleCreated       = "sale.created"
	SaleCompleted     = "sale.completed"
	SaleCanceled      = "sale.canceled"
	PaymentRegistered = "payment.registered"
	SalePaidOff       = "sale.paid_off"
	VehicleStatus     = "vehicle.status_changed"
)

// Topic suffixes, prefixed by KAFKA_TOPIC_PREFIX.
const (
	TopicSales    = "sales"
	TopicPayments = "payments"
	TopicVehicles = "vehicles"
)

// Event is the envelope written to every topic
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Key        string    `json:"-"`
	Payload    any       `json:"payload"`
}

// New builds an event with a fresh id
func New(eventType, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Key:        key,
		Payload:    payload,
	}
}

// Publisher delivers domain events
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
