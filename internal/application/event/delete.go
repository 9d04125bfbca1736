package event

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

// Delete hard-deletes an owned event. Registrations go with it via the
// foreign key; the stored image is removed after commit.
func (s *Service) Delete(ctx context.Context, p domain.Principal, eventID string) error {
	var image *string

	err := s.repo.WithTx(ctx, func(r TxEventRepo) error {
		ev, err := r.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if err := authorizeOwner(ev, p); err != nil {
			return err
		}
		if err := r.Delete(ctx, ev.ID); err != nil {
			return err
		}

		msg, err := newOutboxMessage(ctx, RoutingEventDeleted, EventDeletedPayload{
			EventID:     ev.ID,
			OrganizerID: ev.OrganizerID,
		}, s.clock.Now().UTC())
		if err != nil {
			return err
		}
		if err := r.InsertOutbox(ctx, msg); err != nil {
			return err
		}

		image = ev.Image
		return nil
	})
	if err != nil {
		return err
	}

	s.dropImage(ctx, image)
	return nil
}
