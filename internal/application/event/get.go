package event

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

func (s *Service) Get(ctx context.Context, p domain.Principal, eventID string) (*domain.Event, error) {
	ev, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ev, p); err != nil {
		return nil, err
	}
	return ev, nil
}

// AuthorizeOwner fails with not_found or forbidden unless p owns the event.
// It takes no lock; writers re-check under FOR UPDATE.
func (s *Service) AuthorizeOwner(ctx context.Context, p domain.Principal, eventID string) error {
	_, err := s.Get(ctx, p, eventID)
	return err
}

type EditForm struct {
	Event *domain.Event
	Form  FormSchema
}

func (s *Service) GetForEdit(ctx context.Context, p domain.Principal, eventID string) (EditForm, error) {
	ev, err := s.Get(ctx, p, eventID)
	if err != nil {
		return EditForm{}, err
	}
	return EditForm{Event: ev, Form: s.CreateForm()}, nil
}

// Registrations returns the event with its registered attendees.
func (s *Service) Registrations(ctx context.Context, p domain.Principal, eventID string) (domain.EventWithRegistrations, error) {
	ev, err := s.Get(ctx, p, eventID)
	if err != nil {
		return domain.EventWithRegistrations{}, err
	}
	regs, err := s.repo.ActiveRegistrations(ctx, []string{ev.ID})
	if err != nil {
		return domain.EventWithRegistrations{}, err
	}
	return domain.EventWithRegistrations{Event: ev, Registrations: regs[ev.ID]}, nil
}
