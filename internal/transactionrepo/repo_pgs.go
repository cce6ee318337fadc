// Package transactionrepo manages repository layer of payment transactions.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/internal/ledgerrepo"
	"github.com/go-petr/pesa-bridge/internal/outboxrepo"
	"github.com/go-petr/pesa-bridge/pkg/dbpkg"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transaction RepoPGS scoped to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transaction RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const transactionColumns = `
id, user_id, kind, amount_cents, currency, idempotency_key, status,
rate, rate_from, rate_to, rate_locked_at,
external_ref, failure_reason, created_at, completed_at
`

const createQuery = `
INSERT INTO
    transactions (id, user_id, kind, amount_cents, currency, idempotency_key, status,
                  rate, rate_from, rate_to, rate_locked_at, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + transactionColumns

// Create inserts the transaction with its idempotency key in one statement.
//
// A concurrent duplicate submission loses the insert race on the
// (user_id, idempotency_key) unique constraint and observes
// domain.ErrIdempotencyKeyTaken; the caller falls back to the read path.
func (r *RepoPGS) Create(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.ID,
		arg.UserID,
		arg.Kind,
		arg.Amount.Cents,
		arg.Amount.Currency,
		arg.IdempotencyKey,
		arg.Status,
		arg.Rate.Rate,
		arg.Rate.From,
		arg.Rate.To,
		arg.Rate.LockedAt,
		arg.CreatedAt,
	)

	t, err := scanTransaction(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_user_id_idempotency_key_key":
				return t, domain.ErrIdempotencyKeyTaken
			case "transactions_amount_cents_check":
				return t, moneypkg.ErrInvalidAmount
			}
		}

		l.Error().Err(err).Msgf("Create(ctx, %v)", arg.ID)

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getByKeyQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE user_id = $1 AND idempotency_key = $2
`

// GetByIdempotencyKey returns the transaction persisted under the
// (user, key) pair, compared byte for byte.
func (r *RepoPGS) GetByIdempotencyKey(ctx context.Context, userID, key string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getByKeyQuery, userID, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const existsByKeyQuery = `
SELECT EXISTS (
    SELECT 1 FROM transactions WHERE user_id = $1 AND idempotency_key = $2
)
`

// ExistsByIdempotencyKey reports whether the (user, key) pair is taken.
func (r *RepoPGS) ExistsByIdempotencyKey(ctx context.Context, userID, key string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool

	if err := r.db.QueryRowContext(ctx, existsByKeyQuery, userID, key).Scan(&exists); err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

// Initiate persists the transaction and its outbox messages atomically.
//
// The idempotency key is written in the same statement as the transaction
// row, before any external call is attempted; a crash after the commit is
// safe to retry.
func (r *RepoPGS) Initiate(ctx context.Context, arg domain.Transaction, msgs []domain.OutboxMessage) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	outboxRepo := outboxrepo.NewRepoPGS(tx)

	created, err := txRepo.Create(ctx, arg)
	if err != nil {
		return created, err
	}

	for _, msg := range msgs {
		if _, err := outboxRepo.Publish(ctx, msg); err != nil {
			return created, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return created, errorspkg.ErrInternal
	}

	return created, nil
}

const completeQuery = `
UPDATE transactions
SET status = $2, external_ref = $3, completed_at = $4
WHERE id = $1 AND status IN ('CREATED', 'PENDING_EXTERNAL')
RETURNING ` + transactionColumns

const movedSinceQuery = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM transactions
WHERE user_id = $1 AND kind = $2 AND status <> 'FAILED' AND created_at >= $3
`

// Complete settles the transaction in one storage transaction: the guarded
// status update, the balanced ledger pair, the daily-limit re-check and the
// outbox messages commit together or not at all.
func (r *RepoPGS) Complete(ctx context.Context, arg domain.CompleteTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	row := tx.QueryRowContext(ctx, completeQuery,
		arg.Transaction.ID,
		domain.StatusCompleted,
		arg.Transaction.ExternalRef,
		arg.Transaction.CompletedAt,
	)

	updated, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return updated, r.transitionConflict(ctx, arg.Transaction.ID)
		}

		l.Error().Err(err).Send()

		return updated, errorspkg.ErrInternal
	}

	ledgerRepo := ledgerrepo.NewRepoPGS(tx)

	if _, _, err := ledgerRepo.CreatePair(ctx, arg.Credit, arg.Debit); err != nil {
		return updated, err
	}

	// Close the check-then-act race: the day's volume, which has included
	// this transaction since initiation, must still fit the limit.
	var movedCents int64

	err = tx.QueryRowContext(ctx, movedSinceQuery,
		updated.UserID, updated.Kind, arg.DayStart,
	).Scan(&movedCents)
	if err != nil {
		l.Error().Err(err).Send()
		return updated, errorspkg.ErrInternal
	}

	if movedCents > arg.DailyLimit.Cents {
		return updated, domain.ErrLimitExceeded
	}

	if arg.EnforceBalance {
		balance, err := ledgerRepo.BalanceCents(ctx, updated.UserID, arg.Transaction.Amount.Currency)
		if err != nil {
			return updated, err
		}

		if balance < 0 {
			return updated, domain.ErrInsufficientBalance
		}
	}

	outboxRepo := outboxrepo.NewRepoPGS(tx)

	for _, msg := range arg.Messages {
		if _, err := outboxRepo.Publish(ctx, msg); err != nil {
			return updated, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return updated, errorspkg.ErrInternal
	}

	return updated, nil
}

const failQuery = `
UPDATE transactions
SET status = $2, failure_reason = $3, completed_at = $4
WHERE id = $1 AND status IN ('CREATED', 'PENDING_EXTERNAL')
RETURNING ` + transactionColumns

// Fail drives the transaction to FAILED preserving the reason,
// together with its outbox messages.
func (r *RepoPGS) Fail(ctx context.Context, arg domain.FailTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	row := tx.QueryRowContext(ctx, failQuery,
		arg.TransactionID,
		domain.StatusFailed,
		arg.Reason,
		arg.FailedAt,
	)

	updated, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return updated, r.transitionConflict(ctx, arg.TransactionID)
		}

		l.Error().Err(err).Send()

		return updated, errorspkg.ErrInternal
	}

	outboxRepo := outboxrepo.NewRepoPGS(tx)

	for _, msg := range arg.Messages {
		if _, err := outboxRepo.Publish(ctx, msg); err != nil {
			return updated, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return updated, errorspkg.ErrInternal
	}

	return updated, nil
}

const dispatchQuery = `
UPDATE transactions
SET status = $2
WHERE id = $1 AND status = $3
RETURNING ` + transactionColumns

// Dispatch records that a worker picked up the transaction for
// external settlement.
func (r *RepoPGS) Dispatch(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, dispatchQuery, id, domain.StatusPendingExternal, domain.StatusCreated)

	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, r.transitionConflict(ctx, id)
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

// transitionConflict distinguishes a missing row from an illegal transition.
func (r *RepoPGS) transitionConflict(ctx context.Context, id uuid.UUID) error {
	var status domain.Status

	err := r.db.QueryRowContext(ctx, `SELECT status FROM transactions WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrTransactionNotFound
		}

		return errorspkg.ErrInternal
	}

	return domain.ErrInvalidStateTransition
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		t             domain.Transaction
		externalRef   sql.NullString
		failureReason sql.NullString
		completedAt   sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Kind,
		&t.Amount.Cents,
		&t.Amount.Currency,
		&t.IdempotencyKey,
		&t.Status,
		&t.Rate.Rate,
		&t.Rate.From,
		&t.Rate.To,
		&t.Rate.LockedAt,
		&externalRef,
		&failureReason,
		&t.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return t, err
	}

	t.ExternalRef = externalRef.String
	t.FailureReason = failureReason.String
	t.CompletedAt = completedAt.Time

	return t, nil
}
