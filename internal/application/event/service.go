package event

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

type Service struct {
	repo   EventRepo
	images ImageStore
	clock  Clock
	input  *validator.Validate

	maxImageBytes int64
}

func New(repo EventRepo, images ImageStore, clock Clock, maxImageBytes int64) *Service {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &Service{
		repo:          repo,
		images:        images,
		clock:         clock,
		input:         newValidator(),
		maxImageBytes: maxImageBytes,
	}
}

// authorizeOwner is the ownership gate. There is no role override.
func authorizeOwner(e *domain.Event, p domain.Principal) error {
	if !p.Owns(e) {
		return domain.ErrForbidden("You are not authorized to manage this event.")
	}
	return nil
}

func requireAuth(p domain.Principal) error {
	if !p.Authenticated() {
		return domain.ErrForbidden("authentication required")
	}
	return nil
}

// withRegistrations attaches active registrations to each event with a
// single batched lookup.
func (s *Service) withRegistrations(ctx context.Context, events []*domain.Event) ([]domain.EventWithRegistrations, error) {
	out := make([]domain.EventWithRegistrations, 0, len(events))
	if len(events) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	regs, err := s.repo.ActiveRegistrations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		out = append(out, domain.EventWithRegistrations{Event: e, Registrations: regs[e.ID]})
	}
	return out, nil
}
