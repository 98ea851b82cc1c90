// Package events publishes record lifecycle events to an optional message broker.
package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/metrics"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
)

const (
	TypeStatusCheckCreated = "status_check.created"
	TypeGardenCreated      = "garden.created"
	TypeGardenDeleted      = "garden.deleted"

	ResourceStatusCheck = "status_check"
	ResourceGarden      = "garden"
)

// Event is the message body sent to the broker.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	Timestamp  time.Time `json:"timestamp"`
	TraceID    string    `json:"trace_id,omitempty"`
	Data       any       `json:"data,omitempty"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, evt Event) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(ctx context.Context, evt Event) error {
	return nil
}

// Emitter builds events and hands them to a Publisher. Publishing failures are logged
// and never returned, so a broker outage cannot fail the request that caused the event.
type Emitter struct {
	publisher Publisher
	broker    string
	timeout   time.Duration
	logger    ectologger.Logger
}

func NewEmitter(publisher Publisher, broker string, logger ectologger.Logger) *Emitter {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Emitter{
		publisher: publisher,
		broker:    broker,
		timeout:   5 * time.Second,
		logger:    logger,
	}
}

// Emit publishes one event. The publish outlives a cancelled request context but is
// bounded by the emitter timeout.
func (e *Emitter) Emit(ctx context.Context, eventType, resource, resourceID string, data any) {
	if _, noop := e.publisher.(NoopPublisher); noop {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "Events.Emit")
	defer span.End()

	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Resource:   resource,
		ResourceID: resourceID,
		Timestamp:  time.Now().UTC(),
		TraceID:    tracing.GetTraceID(ctx),
		Data:       data,
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	err := e.publisher.PublishEvent(pubCtx, evt)
	metrics.RecordEventPublished(e.broker, eventType, err)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]interface{}{
			"event_type":  eventType,
			"resource_id": resourceID,
		}).Warn("Failed to publish event")
		return
	}

	e.logger.WithContext(ctx).WithField("event_type", eventType).Debugf("Published %s event for %s", eventType, resourceID)
}
