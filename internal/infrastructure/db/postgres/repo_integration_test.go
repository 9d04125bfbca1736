//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17"),
		postgres.WithDatabase("organizer"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../../../migrations/0001_init.sql")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, string(schema))
	require.NoError(t, err)
	return db
}

func insertUser(t *testing.T, db *sql.DB, name, email string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO users (id, name, email) VALUES ($1, $2, $3)`, id, name, email)
	require.NoError(t, err)
	return id
}

func createEvent(t *testing.T, repo *Repo, organizerID string, mutate func(f *domain.EventFields), created time.Time) *domain.Event {
	t.Helper()
	f := domain.EventFields{
		Title: "Event", Description: "d", EventDate: created.Add(24 * time.Hour),
		Location: "Hall", Capacity: 3,
	}
	if mutate != nil {
		mutate(&f)
	}
	e, err := domain.NewDraft(organizerID, f, nil, created)
	require.NoError(t, err)
	require.NoError(t, repo.WithTx(context.Background(), func(tr event.TxEventRepo) error {
		return tr.Create(context.Background(), e)
	}))
	return e
}

func TestRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := startPostgres(t)
	repo := New(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	org := insertUser(t, db, "Olga", "olga@example.com")
	other := insertUser(t, db, "Omar", "omar@example.com")
	ann := insertUser(t, db, "Ann", "ann@example.com")
	bob := insertUser(t, db, "Bob", "bob@example.com")

	price := 25.0
	austin := createEvent(t, repo, org, func(f *domain.EventFields) {
		f.Title, f.City, f.State = "Austin gig", "Austin", "TX"
		f.EventDate = base.Add(10 * 24 * time.Hour)
		f.IsPaid, f.Price = true, &price
	}, base)
	denver := createEvent(t, repo, org, func(f *domain.EventFields) {
		f.Title, f.City, f.State = "Denver gig", "Denver", "CO"
		f.EventDate = base.Add(2 * 24 * time.Hour)
	}, base.Add(time.Hour))
	createEvent(t, repo, other, nil, base)

	for _, u := range []string{ann, bob} {
		_, err := db.Exec(`INSERT INTO registrations (event_id, user_id, status) VALUES ($1, $2, 'registered')`, austin.ID, u)
		require.NoError(t, err)
	}
	_, err := db.Exec(`INSERT INTO registrations (event_id, user_id, status) VALUES ($1, $2, 'cancelled')`, denver.ID, ann)
	require.NoError(t, err)

	t.Run("list_orders_by_event_date", func(t *testing.T) {
		got, err := repo.ListByOrganizer(ctx, org, event.ListFilter{}, event.OrderEventDateAsc)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, denver.ID, got[0].ID)
		assert.Equal(t, austin.ID, got[1].ID)
	})

	t.Run("dashboard_orders_by_created_desc", func(t *testing.T) {
		got, err := repo.ListByOrganizer(ctx, org, event.ListFilter{}, event.OrderCreatedDesc)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, denver.ID, got[0].ID)
	})

	t.Run("location_matches_state_case_insensitive", func(t *testing.T) {
		loc := "tx"
		got, err := repo.ListByOrganizer(ctx, org, event.ListFilter{Location: &loc}, event.OrderEventDateAsc)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, austin.ID, got[0].ID)
	})

	t.Run("empty_location_matches_all", func(t *testing.T) {
		loc := ""
		got, err := repo.ListByOrganizer(ctx, org, event.ListFilter{Location: &loc}, event.OrderEventDateAsc)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("date_bounds_inclusive_on_date", func(t *testing.T) {
		day := austin.EventDate.Truncate(24 * time.Hour)
		got, err := repo.ListByOrganizer(ctx, org, event.ListFilter{DateFrom: &day, DateTo: &day}, event.OrderEventDateAsc)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, austin.ID, got[0].ID)
	})

	t.Run("price_bounds_skip_free_events", func(t *testing.T) {
		minP := 0.0
		got, err := repo.ListByOrganizer(ctx, org, event.ListFilter{MinPrice: &minP}, event.OrderEventDateAsc)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 25.0, *got[0].Price)
	})

	t.Run("active_registrations_with_users", func(t *testing.T) {
		regs, err := repo.ActiveRegistrations(ctx, []string{austin.ID, denver.ID})
		require.NoError(t, err)
		assert.Len(t, regs[austin.ID], 2)
		assert.Empty(t, regs[denver.ID])
		assert.Equal(t, "Ann", regs[austin.ID][0].User.Name)
	})

	t.Run("update_keeps_organizer", func(t *testing.T) {
		err := repo.WithTx(ctx, func(tr event.TxEventRepo) error {
			ev, err := tr.GetByIDForUpdate(ctx, denver.ID)
			if err != nil {
				return err
			}
			ev.Title = "Denver show"
			ev.Status = domain.StatusActive
			return tr.Update(ctx, ev)
		})
		require.NoError(t, err)

		ev, err := repo.GetByID(ctx, denver.ID)
		require.NoError(t, err)
		assert.Equal(t, "Denver show", ev.Title)
		assert.Equal(t, org, ev.OrganizerID)
	})

	t.Run("delete_cascades_registrations_and_writes_outbox", func(t *testing.T) {
		err := repo.WithTx(ctx, func(tr event.TxEventRepo) error {
			if err := tr.Delete(ctx, austin.ID); err != nil {
				return err
			}
			return tr.InsertOutbox(ctx, event.OutboxMessage{
				MessageID: uuid.NewString(), RoutingKey: event.RoutingEventDeleted,
				Body: []byte(`{"event_id":"` + austin.ID + `"}`), CreatedAt: time.Now().UTC(),
			})
		})
		require.NoError(t, err)

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, austin.ID).Scan(&n))
		assert.Zero(t, n)
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM event_outbox WHERE status = 'pending'`).Scan(&n))
		assert.Equal(t, 1, n)

		_, err = repo.GetByID(ctx, austin.ID)
		assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
	})
}
