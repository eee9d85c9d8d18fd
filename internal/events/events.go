package events

import (
	"context"
	"time"

	"gymclass/internal/logger"
	"gymclass/internal/metrics"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingCancelled Type = "booking.cancelled"
	ScheduleCreated  Type = "schedule.created"
	ScheduleDeleted  Type = "schedule.deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// New stamps an event with a fresh id. key selects the partition, so events
// about the same schedule stay ordered.
func New(t Type, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher implementations must not block on the broker; Publish runs on
// the request path.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit hands e to the publisher and only logs when it is rejected. Domain
// operations never fail because the event bus is unavailable. Delivery
// outcomes are recorded by the publisher.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		metrics.RecordEvent(string(e.Type), "failed")
		logger.WithError(err).Warn("failed to publish event", "type", e.Type, "event_id", e.ID)
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
