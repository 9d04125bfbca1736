package dto

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

// ImageURLFunc resolves a stored image key.
type ImageURLFunc func(key *string) string

func ToEventResp(e *domain.Event, now time.Time, imageURL ImageURLFunc) EventResp {
	resp := EventResp{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		Location:    e.Location,
		City:        e.City,
		State:       e.State,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		Capacity:    e.Capacity,
		Status:      string(e.Status),
		IsPaid:      e.IsPaid,
		Price:       e.Price,
		Image:       e.Image,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Past:        e.IsPast(now),
	}
	if imageURL != nil {
		resp.ImageURL = imageURL(e.Image)
	}
	return resp
}

func ToEventWithRegistrationsResp(a domain.EventWithRegistrations, now time.Time, imageURL ImageURLFunc) EventWithRegistrationsResp {
	regs := make([]RegistrationResp, 0, len(a.Registrations))
	for _, r := range a.Registrations {
		regs = append(regs, RegistrationResp{
			ID:        r.ID,
			UserID:    r.UserID,
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt,
			User:      UserResp{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email},
		})
	}
	return EventWithRegistrationsResp{
		EventResp:       ToEventResp(a.Event, now, imageURL),
		Registrations:   regs,
		RegisteredCount: a.RegisteredCount(),
		Occupancy:       a.Occupancy(),
	}
}

func ToEventList(items []domain.EventWithRegistrations, now time.Time, imageURL ImageURLFunc) []EventWithRegistrationsResp {
	out := make([]EventWithRegistrationsResp, 0, len(items))
	for _, it := range items {
		out = append(out, ToEventWithRegistrationsResp(it, now, imageURL))
	}
	return out
}

func ToStatsResp(s event.DashboardStats) StatsResp {
	by := make(map[string]int, len(s.ByStatus))
	for k, v := range s.ByStatus {
		by[string(k)] = v
	}
	return StatsResp{
		TotalEvents:        s.TotalEvents,
		ByStatus:           by,
		TotalRegistrations: s.TotalRegistrations,
		PaidEvents:         s.PaidEvents,
	}
}

func ToFormResp(f event.FormSchema) FormResp {
	statuses := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}
	return FormResp{
		Statuses:      statuses,
		DefaultStatus: string(f.DefaultStatus),
		MaxImageBytes: f.MaxImageBytes,
		ImageTypes:    f.ImageTypes,
	}
}
