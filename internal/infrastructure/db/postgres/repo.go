package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	"github.com/lib/pq"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ event.EventRepo = (*Repo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	var status string
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.EventDate,
		&e.Location, &e.City, &e.State, &e.Latitude, &e.Longitude, &e.Capacity,
		&status, &e.IsPaid, &e.Price, &e.Image, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = domain.EventStatus(status)
	if !e.Status.Valid() {
		return nil, domain.ErrInvalidState("invalid status in db")
	}
	e.EventDate = e.EventDate.UTC()
	return &e, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, getEventSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, err
}

func (r *Repo) ListByOrganizer(ctx context.Context, organizerID string, f event.ListFilter, order event.ListOrder) ([]*domain.Event, error) {
	query, args := buildOrganizerListQuery(organizerID, f, order)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) ActiveRegistrations(ctx context.Context, eventIDs []string) (map[string][]domain.Registration, error) {
	out := make(map[string][]domain.Registration, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, selectActiveRegistrationsSQL,
		pq.Array(eventIDs), string(domain.RegistrationRegistered))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var reg domain.Registration
		var status string
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID, &status, &reg.CreatedAt,
			&reg.User.ID, &reg.User.Name, &reg.User.Email,
		); err != nil {
			return nil, err
		}
		reg.Status = domain.RegistrationStatus(status)
		out[reg.EventID] = append(out[reg.EventID], reg)
	}
	return out, rows.Err()
}
