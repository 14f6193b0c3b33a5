package services

import (
	"context"
	"strconv"
	"time"

	"github.com/sjperalta/dealership-api/internal/events"
	"github.com/sjperalta/dealership-api/internal/jobs"
)

// EventBus publishes domain events in the background so request latency
// never depends on the broker.
type EventBus struct {
	publisher events.Publisher
	worker    *jobs.Worker
}

func NewEventBus(publisher events.Publisher, worker *jobs.Worker) *EventBus {
	return &EventBus{publisher: publisher, worker: worker}
}

// Publish enqueues the event; delivery errors are logged by the worker.
func (b *EventBus) Publish(topic, eventType string, key uint, payload any) {
	if b == nil || b.publisher == nil {
		return
	}
	event := events.New(eventType, uintString(key), payload)
	job := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return b.publisher.Publish(ctx, topic, event)
	}
	if b.worker == nil {
		_ = job(context.Background())
		return
	}
	b.worker.EnqueueAsync("publish "+eventType, job)
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
