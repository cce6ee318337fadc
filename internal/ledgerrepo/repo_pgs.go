// Package ledgerrepo manages repository layer of ledger entries.
package ledgerrepo

import (
	"context"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/dbpkg"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns ledger RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    ledger_entries (transaction_id, account_id, side, amount_usd_cents, amount_kes_cents, rate, occurred_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, transaction_id, account_id, side, amount_usd_cents, amount_kes_cents, rate, occurred_at
`

// Create appends the entry and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.LedgerEntry) (domain.LedgerEntry, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.TransactionID,
		arg.AccountID,
		arg.Side,
		arg.AmountUSD.Cents,
		arg.AmountKES.Cents,
		arg.Rate,
		arg.OccurredAt,
	)

	e, err := scanEntry(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "ledger_entries_transaction_id_fkey":
				return e, domain.ErrTransactionNotFound
			case "ledger_entries_amount_usd_cents_check", "ledger_entries_amount_kes_cents_check":
				return e, moneypkg.ErrInvalidAmount
			}
		}

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

// CreatePair appends the balanced credit and debit entries of one movement.
//
// The caller must run it inside a storage transaction; a one-sided write
// is never valid.
func (r *RepoPGS) CreatePair(ctx context.Context, credit, debit domain.LedgerEntry) (domain.LedgerEntry, domain.LedgerEntry, error) {
	creditEntry, err := r.Create(ctx, credit)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	debitEntry, err := r.Create(ctx, debit)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	return creditEntry, debitEntry, nil
}

const listQuery = `
SELECT id, transaction_id, account_id, side, amount_usd_cents, amount_kes_cents, rate, occurred_at
FROM ledger_entries
WHERE account_id = $1
ORDER BY id
`

// OfUser returns the append-only ledger account of the given owner.
func (r *RepoPGS) OfUser(ctx context.Context, ownerID string) (domain.LedgerAccount, error) {
	l := zerolog.Ctx(ctx)

	account := domain.LedgerAccount{OwnerID: ownerID, Entries: []domain.LedgerEntry{}}

	rows, err := r.db.QueryContext(ctx, listQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return account, errorspkg.ErrInternal
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return account, errorspkg.ErrInternal
		}

		account.Entries = append(account.Entries, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return account, errorspkg.ErrInternal
	}

	return account, nil
}

// BalanceCents returns credits minus debits of the account in the given currency.
func (r *RepoPGS) BalanceCents(ctx context.Context, accountID string, currency moneypkg.Currency) (int64, error) {
	l := zerolog.Ctx(ctx)

	column := "amount_kes_cents"
	if currency == moneypkg.USD {
		column = "amount_usd_cents"
	}

	query := `
SELECT COALESCE(SUM(
    CASE WHEN side = 'CREDIT' THEN ` + column + ` ELSE -` + column + ` END
), 0)
FROM ledger_entries
WHERE account_id = $1
`

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&cents); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return cents, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.LedgerEntry, error) {
	var (
		e        domain.LedgerEntry
		usdCents int64
		kesCents int64
	)

	err := row.Scan(
		&e.ID,
		&e.TransactionID,
		&e.AccountID,
		&e.Side,
		&usdCents,
		&kesCents,
		&e.Rate,
		&e.OccurredAt,
	)
	if err != nil {
		return e, err
	}

	e.AmountUSD = moneypkg.Money{Cents: usdCents, Currency: moneypkg.USD}
	e.AmountKES = moneypkg.Money{Cents: kesCents, Currency: moneypkg.KES}

	return e, nil
}
