package postgres

import (
	"context"
	"database/sql"
	"math"
	"math/rand"
	"time"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
	zlog "github.com/rs/zerolog/log"
)

const insertOutboxSQL = `
INSERT INTO event_outbox (
  message_id, routing_key, body, created_at, status, next_retry_at
) VALUES ($1, $2, $3::jsonb, $4, 'pending', $4)
`

func (r *txRepo) InsertOutbox(ctx context.Context, msg event.OutboxMessage) error {
	// JSON goes over the wire as text and is cast to jsonb.
	_, err := r.tx.ExecContext(ctx, insertOutboxSQL,
		msg.MessageID,
		msg.RoutingKey,
		string(msg.Body),
		msg.CreatedAt.UTC(),
	)
	return err
}

type outboxRow struct {
	ID         int64
	MessageID  string
	RoutingKey string
	Body       []byte
	Attempts   int
}

const selectOutboxClaimsSQL = `
SELECT id, message_id, routing_key, body, attempts
FROM event_outbox
WHERE status = 'pending'
  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY next_retry_at ASC, created_at ASC
LIMIT $1
FOR UPDATE SKIP LOCKED
`

const updateOutboxClaimSQL = `
UPDATE event_outbox
SET next_retry_at = $2,
    status = 'processing'
WHERE id = $1
`

const markOutboxSentSQL = `
UPDATE event_outbox
SET status = 'sent',
    sent_at = $2,
    last_error = NULL
WHERE id = $1
`

const markOutboxFailedSQL = `
UPDATE event_outbox
SET status = 'pending',
    attempts = attempts + 1,
    next_retry_at = $2,
    last_error = $3
WHERE id = $1
`

const markOutboxDeadSQL = `
UPDATE event_outbox
SET status = 'dead',
    attempts = attempts + 1,
    last_error = $2
WHERE id = $1
`

// Rows stuck in 'processing' past their reservation go back to pending.
const releaseStaleClaimsSQL = `
UPDATE event_outbox
SET status = 'pending'
WHERE status = 'processing'
  AND next_retry_at <= NOW()
`

const (
	maxAttempts      = 10
	claimBatchSize   = 20
	claimReservation = 30 * time.Second
)

// StartOutboxWorker relays pending outbox rows to pub until ctx is done.
// Claiming happens in a short transaction; publishing happens outside it.
func (r *Repo) StartOutboxWorker(ctx context.Context, pub event.EventPublisher, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	go func() {
		// jitter so replicas don't poll in lockstep
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.processOutboxBatch(ctx, pub, claimBatchSize); err != nil && ctx.Err() == nil {
					zlog.Error().Err(err).Msg("outbox batch failed")
				}
			}
		}
	}()
}

func (r *Repo) processOutboxBatch(ctx context.Context, pub event.EventPublisher, limit int) error {
	if limit <= 0 {
		limit = 50
	}

	claimCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(claimCtx, releaseStaleClaimsSQL); err != nil {
		return err
	}

	batch, err := r.claimOutbox(claimCtx, limit)
	if err != nil {
		return err
	}

	for _, item := range batch {
		r.relayOne(ctx, pub, item)
	}
	return nil
}

func (r *Repo) claimOutbox(ctx context.Context, limit int) ([]outboxRow, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, selectOutboxClaimsSQL, limit)
	if err != nil {
		return nil, err
	}

	var batch []outboxRow
	for rows.Next() {
		var item outboxRow
		if err := rows.Scan(&item.ID, &item.MessageID, &item.RoutingKey, &item.Body, &item.Attempts); err != nil {
			rows.Close()
			return nil, err
		}
		batch = append(batch, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(batch) == 0 {
		return nil, tx.Commit()
	}

	reservation := time.Now().UTC().Add(claimReservation)
	for _, item := range batch {
		if _, err := tx.ExecContext(ctx, updateOutboxClaimSQL, item.ID, reservation); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *Repo) relayOne(ctx context.Context, pub event.EventPublisher, item outboxRow) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := pub.PublishEvent(pubCtx, item.RoutingKey, item.MessageID, item.Body)

	resCtx, cancelRes := context.WithTimeout(ctx, 3*time.Second)
	defer cancelRes()

	log := zlog.With().Str("message_id", item.MessageID).Str("routing_key", item.RoutingKey).Logger()

	if err != nil {
		errMsg := err.Error()
		if item.Attempts+1 >= maxAttempts {
			log.Error().Err(err).Int("attempts", item.Attempts+1).Msg("outbox message dead")
			if _, dbErr := r.db.ExecContext(resCtx, markOutboxDeadSQL, item.ID, errMsg); dbErr != nil {
				log.Error().Err(dbErr).Msg("outbox mark dead failed")
			}
			return
		}
		backoff := time.Duration(math.Pow(2, float64(item.Attempts))) * time.Second
		backoff += time.Duration(rand.Intn(1000)) * time.Millisecond
		log.Warn().Err(err).Dur("retry_in", backoff).Msg("outbox publish failed")
		if _, dbErr := r.db.ExecContext(resCtx, markOutboxFailedSQL, item.ID, time.Now().UTC().Add(backoff), errMsg); dbErr != nil {
			log.Error().Err(dbErr).Msg("outbox mark failed failed")
		}
		return
	}

	if _, dbErr := r.db.ExecContext(resCtx, markOutboxSentSQL, item.ID, time.Now().UTC()); dbErr != nil {
		log.Error().Err(dbErr).Msg("outbox mark sent failed")
	}
}
