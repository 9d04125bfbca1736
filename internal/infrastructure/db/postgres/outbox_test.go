package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	err  error
	keys []string
}

func (p *stubPublisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	p.keys = append(p.keys, routingKey)
	return p.err
}

func expectClaim(mock sqlmock.Sqlmock, attempts int) {
	mock.ExpectExec("UPDATE event_outbox SET status = 'pending' WHERE status = 'processing'").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, message_id, routing_key, body, attempts FROM event_outbox").
		WithArgs(claimBatchSize).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message_id", "routing_key", "body", "attempts"}).
			AddRow(int64(7), "msg-7", "event.updated", []byte(`{}`), attempts))
	mock.ExpectExec("SET next_retry_at = \\$2, status = 'processing'").
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestOutbox_ProcessBatch(t *testing.T) {
	t.Run("published_row_marked_sent", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectClaim(mock, 0)
		mock.ExpectExec("SET status = 'sent'").
			WithArgs(int64(7), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		pub := &stubPublisher{}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, claimBatchSize))
		assert.Equal(t, []string{"event.updated"}, pub.keys)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed_publish_rescheduled", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectClaim(mock, 1)
		mock.ExpectExec("SET status = 'pending', attempts = attempts \\+ 1").
			WithArgs(int64(7), sqlmock.AnyArg(), "broker down").
			WillReturnResult(sqlmock.NewResult(0, 1))

		pub := &stubPublisher{err: errors.New("broker down")}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, claimBatchSize))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exhausted_row_marked_dead", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectClaim(mock, maxAttempts-1)
		mock.ExpectExec("SET status = 'dead'").
			WithArgs(int64(7), "broker down").
			WillReturnResult(sqlmock.NewResult(0, 1))

		pub := &stubPublisher{err: errors.New("broker down")}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, claimBatchSize))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty_claim_publishes_nothing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE event_outbox SET status = 'pending' WHERE status = 'processing'").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectBegin()
		mock.ExpectQuery("FROM event_outbox").
			WithArgs(claimBatchSize).
			WillReturnRows(sqlmock.NewRows([]string{"id", "message_id", "routing_key", "body", "attempts"}))
		mock.ExpectCommit()

		pub := &stubPublisher{}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, claimBatchSize))
		assert.Empty(t, pub.keys)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
