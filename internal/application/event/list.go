package event

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// ListFilter holds the optional organizer index filters. A nil field was not
// supplied; a non-nil field is applied even when empty.
type ListFilter struct {
	DateFrom *time.Time // inclusive, date part only
	DateTo   *time.Time // inclusive, date part only
	Location *string    // substring of location, city or state
	Status   *domain.EventStatus
	MinPrice *float64
	MaxPrice *float64
}

func (f ListFilter) Validate() error {
	meta := map[string]string{}
	if f.Status != nil && !f.Status.Valid() {
		meta["status"] = "status must be one of: draft, active, inactive"
	}
	if f.DateFrom != nil && f.DateTo != nil && dateOnly(*f.DateTo).Before(dateOnly(*f.DateFrom)) {
		meta["date_to"] = "date_to must be on or after date_from"
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MaxPrice < *f.MinPrice {
		meta["max_price"] = "max_price must be greater than or equal to min_price"
	}
	if len(meta) > 0 {
		return domain.ErrValidationMeta("invalid query param", meta)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type ListResult struct {
	Items []domain.EventWithRegistrations
}

// List returns the caller's events matching every supplied filter, soonest
// first, each with its active registrations.
func (s *Service) List(ctx context.Context, p domain.Principal, f ListFilter) (ListResult, error) {
	if err := requireAuth(p); err != nil {
		return ListResult{}, err
	}
	if err := f.Validate(); err != nil {
		return ListResult{}, err
	}
	if f.Location != nil && *f.Location == "" {
		zlog.Debug().Str("organizer_id", p.UserID).Msg("empty location filter matches every event")
	}

	events, err := s.repo.ListByOrganizer(ctx, p.UserID, f, OrderEventDateAsc)
	if err != nil {
		return ListResult{}, err
	}
	items, err := s.withRegistrations(ctx, events)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items}, nil
}
