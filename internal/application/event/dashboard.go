package event

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

type DashboardStats struct {
	TotalEvents        int
	ByStatus           map[domain.EventStatus]int
	TotalRegistrations int
	PaidEvents         int
}

type DashboardResult struct {
	Events []domain.EventWithRegistrations
	Stats  DashboardStats
}

// Dashboard lists every event of p, newest first, with summary counts.
func (s *Service) Dashboard(ctx context.Context, p domain.Principal) (DashboardResult, error) {
	if err := requireAuth(p); err != nil {
		return DashboardResult{}, err
	}
	events, err := s.repo.ListByOrganizer(ctx, p.UserID, ListFilter{}, OrderCreatedDesc)
	if err != nil {
		return DashboardResult{}, err
	}
	items, err := s.withRegistrations(ctx, events)
	if err != nil {
		return DashboardResult{}, err
	}
	return DashboardResult{Events: items, Stats: computeStats(items)}, nil
}

func computeStats(items []domain.EventWithRegistrations) DashboardStats {
	st := DashboardStats{ByStatus: map[domain.EventStatus]int{}}
	for _, s := range domain.EventStatuses {
		st.ByStatus[s] = 0
	}
	for _, it := range items {
		st.TotalEvents++
		st.ByStatus[it.Event.Status]++
		st.TotalRegistrations += it.RegisteredCount()
		if it.Event.IsPaid {
			st.PaidEvents++
		}
	}
	return st
}
