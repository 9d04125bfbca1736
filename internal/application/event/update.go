package event

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

// Update replaces every editable field of an owned event. Input and image
// are handled before the row lock; ownership is re-checked under it.
func (s *Service) Update(ctx context.Context, p domain.Principal, eventID string, in UpdateInput) (*domain.Event, error) {
	if err := s.AuthorizeOwner(ctx, p, eventID); err != nil {
		return nil, err
	}
	if err := s.check(&in, &in.EventInput); err != nil {
		return nil, err
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}

	newImage, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	var (
		out      *domain.Event
		oldImage *string
	)
	err = s.repo.WithTx(ctx, func(r TxEventRepo) error {
		ev, err := r.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if err := authorizeOwner(ev, p); err != nil {
			return err
		}
		if newImage != nil {
			oldImage = ev.Image
		}

		now := s.clock.Now().UTC()
		if err := ev.Replace(fields, domain.EventStatus(in.Status), newImage, now); err != nil {
			return err
		}
		if err := r.Update(ctx, ev); err != nil {
			return err
		}

		msg, err := newOutboxMessage(ctx, RoutingEventUpdated, changedPayload(ev), now)
		if err != nil {
			return err
		}
		if err := r.InsertOutbox(ctx, msg); err != nil {
			return err
		}

		out = ev
		return nil
	})
	if err != nil {
		s.dropImage(ctx, newImage)
		return nil, err
	}

	s.dropImage(ctx, oldImage)
	return out, nil
}
