// Package secretrepo manages the one-time secret store.
package secretrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/clockpkg"
	"github.com/go-petr/pesa-bridge/pkg/dbpkg"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
)

// RepoPGS facilitates one-time secret repository layer logic.
type RepoPGS struct {
	db    dbpkg.SQLInterface
	clock clockpkg.Clock
}

// NewRepoPGS returns secret RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface, clock clockpkg.Clock) *RepoPGS {
	return &RepoPGS{db: db, clock: clock}
}

const storeQuery = `
INSERT INTO
    one_time_secrets (key, value, expires_at)
VALUES
    ($1, $2, $3)
`

// Store saves the value under the key for the given TTL.
func (r *RepoPGS) Store(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	l := zerolog.Ctx(ctx)

	expiresAt := r.clock.Now().Add(ttl)

	if _, err := r.db.ExecContext(ctx, storeQuery, key, value, expiresAt); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const getAndDeleteQuery = `
DELETE FROM one_time_secrets
WHERE key = $1 AND expires_at > $2
RETURNING value
`

// GetAndDelete consumes the secret in one atomic statement.
//
// A single DELETE .. RETURNING guarantees that of two racing workers
// exactly one observes the value; the other gets ErrSecretNotFound.
func (r *RepoPGS) GetAndDelete(ctx context.Context, key string) ([]byte, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getAndDeleteQuery, key, r.clock.Now())

	var value []byte

	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrSecretNotFound
		}

		l.Error().Err(err).Send()

		return nil, errorspkg.ErrInternal
	}

	return value, nil
}

const purgeExpiredQuery = `
DELETE FROM one_time_secrets
WHERE expires_at <= $1
`

// PurgeExpired removes rows whose TTL elapsed and returns how many were removed.
func (r *RepoPGS) PurgeExpired(ctx context.Context) (int64, error) {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, purgeExpiredQuery, r.clock.Now())
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	purged, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return purged, nil
}
