package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

func (r *Repo) WithTx(ctx context.Context, fn func(tr event.TxEventRepo) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  false,
	})
	if err != nil {
		return err
	}

	tr := &txRepo{tx: tx}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tr); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

var _ event.TxEventRepo = (*txRepo)(nil)

func (r *txRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.tx.QueryRowContext(ctx, selectEventForUpdateSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, err
}

func (r *txRepo) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.tx.ExecContext(ctx, insertEventSQL,
		e.ID, e.OrganizerID, e.Title, e.Description, e.EventDate,
		e.Location, e.City, e.State, e.Latitude, e.Longitude, e.Capacity,
		string(e.Status), e.IsPaid, e.Price, e.Image, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *txRepo) Update(ctx context.Context, e *domain.Event) error {
	res, err := r.tx.ExecContext(ctx, updateEventSQL,
		e.ID,
		e.Title, e.Description, e.EventDate,
		e.Location, e.City, e.State, e.Latitude, e.Longitude, e.Capacity,
		string(e.Status), e.IsPaid, e.Price, e.Image, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Delete removes the event; registrations follow via ON DELETE CASCADE.
func (r *txRepo) Delete(ctx context.Context, id string) error {
	res, err := r.tx.ExecContext(ctx, deleteEventSQL, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("event not found")
	}
	return nil
}
