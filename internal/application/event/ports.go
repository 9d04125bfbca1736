package event

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type ListOrder int

const (
	OrderEventDateAsc ListOrder = iota // organizer index
	OrderCreatedDesc                   // dashboard
)

type EventRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string, f ListFilter, order ListOrder) ([]*domain.Event, error)

	// ActiveRegistrations loads the registered (not cancelled) registrations
	// for all ids in one round trip, keyed by event id.
	ActiveRegistrations(ctx context.Context, eventIDs []string) (map[string][]domain.Registration, error)

	WithTx(ctx context.Context, fn func(r TxEventRepo) error) error
}

// TxEventRepo is the transactional view used for every mutation.
type TxEventRepo interface {
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error)
	Create(ctx context.Context, e *domain.Event) error
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, id string) error
	InsertOutbox(ctx context.Context, msg OutboxMessage) error
}

// ImageStore holds event images under opaque keys.
type ImageStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// EventPublisher is what the outbox relay pushes to.
type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type OutboxMessage struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	CreatedAt  time.Time
}
