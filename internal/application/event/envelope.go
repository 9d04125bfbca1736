package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	appctx "github.com/baechuer/real-time-ressys/services/organizer-service/internal/pkg/context"
	"github.com/google/uuid"
)

const (
	EventVersion  = 1
	EventProducer = "organizer-service"

	RoutingEventCreated = "event.created"
	RoutingEventUpdated = "event.updated"
	RoutingEventDeleted = "event.deleted"
)

// DomainEventEnvelope is the contract for every message this service emits.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// EventChangedPayload is sent for event.created and event.updated.
type EventChangedPayload struct {
	EventID     string    `json:"event_id"`
	OrganizerID string    `json:"organizer_id"`
	Title       string    `json:"title"`
	EventDate   time.Time `json:"event_date"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Capacity    int       `json:"capacity"`
	Status      string    `json:"status"`
	IsPaid      bool      `json:"is_paid"`
	Price       *float64  `json:"price,omitempty"`
}

type EventDeletedPayload struct {
	EventID     string `json:"event_id"`
	OrganizerID string `json:"organizer_id"`
}

func changedPayload(e *domain.Event) EventChangedPayload {
	return EventChangedPayload{
		EventID:     e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		EventDate:   e.EventDate,
		City:        e.City,
		State:       e.State,
		Capacity:    e.Capacity,
		Status:      string(e.Status),
		IsPaid:      e.IsPaid,
		Price:       e.Price,
	}
}

// newOutboxMessage wraps payload in an envelope stamped with the request id.
func newOutboxMessage[T any](ctx context.Context, routingKey string, payload T, now time.Time) (OutboxMessage, error) {
	messageID := uuid.NewString()
	env := DomainEventEnvelope[T]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  messageID,
		TraceID:    appctx.GetRequestID(ctx),
		OccurredAt: now,
		Payload:    payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return OutboxMessage{}, err
	}
	return OutboxMessage{
		MessageID:  messageID,
		RoutingKey: routingKey,
		Body:       body,
		CreatedAt:  now,
	}, nil
}
