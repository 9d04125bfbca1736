package event

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

// Create stores a new draft owned by p. The image is uploaded before the
// insert and removed again if the insert fails.
func (s *Service) Create(ctx context.Context, p domain.Principal, in CreateInput) (*domain.Event, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	if err := s.check(&in, &in.EventInput); err != nil {
		return nil, err
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	ev, err := domain.NewDraft(p.UserID, fields, image, now)
	if err != nil {
		s.dropImage(ctx, image)
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(r TxEventRepo) error {
		if err := r.Create(ctx, ev); err != nil {
			return err
		}
		msg, err := newOutboxMessage(ctx, RoutingEventCreated, changedPayload(ev), now)
		if err != nil {
			return err
		}
		return r.InsertOutbox(ctx, msg)
	})
	if err != nil {
		s.dropImage(ctx, image)
		return nil, err
	}
	return ev, nil
}
