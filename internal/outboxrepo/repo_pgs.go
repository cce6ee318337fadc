// Package outboxrepo manages the transactional outbox used for event publication.
package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/dbpkg"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
)

// RepoPGS facilitates outbox repository layer logic.
//
// Events are committed in the same storage transaction as the state they
// describe; an external relay drains and marks them.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns outbox RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    outbox_events (topic, payload)
VALUES
    ($1, $2)
RETURNING id, topic, payload, created_at
`

// Publish stores the message for durable publication and returns the stored row.
func (r *RepoPGS) Publish(ctx context.Context, msg domain.OutboxMessage) (domain.OutboxEvent, error) {
	l := zerolog.Ctx(ctx)

	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.OutboxEvent{}, errorspkg.ErrInternal
	}

	row := r.db.QueryRowContext(ctx, createQuery, msg.Topic, payload)

	var e domain.OutboxEvent

	if err := row.Scan(&e.ID, &e.Topic, &e.Payload, &e.CreatedAt); err != nil {
		l.Error().Err(err).Send()
		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const listPendingQuery = `
SELECT id, topic, payload, created_at
FROM outbox_events
WHERE published_at IS NULL
ORDER BY id
LIMIT $1
`

// ListPending returns unpublished events in insertion order for the relay.
func (r *RepoPGS) ListPending(ctx context.Context, limit int32) ([]domain.OutboxEvent, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listPendingQuery, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.OutboxEvent{}

	for rows.Next() {
		var e domain.OutboxEvent
		if err := rows.Scan(&e.ID, &e.Topic, &e.Payload, &e.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const markPublishedQuery = `
UPDATE outbox_events
SET published_at = $2
WHERE id = $1 AND published_at IS NULL
`

// MarkPublished records that the relay delivered the event.
func (r *RepoPGS) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, markPublishedQuery, id, at); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}
