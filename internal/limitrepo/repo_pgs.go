// Package limitrepo manages the policy reads behind the daily-volume gate.
package limitrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/dbpkg"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// Defaults holds the per-kind limits applied to users without an override row.
type Defaults struct {
	Deposit    moneypkg.Money
	Withdrawal moneypkg.Money
}

// PolicyPGS reads daily volumes and per-user limits from Postgres.
type PolicyPGS struct {
	db       dbpkg.SQLInterface
	defaults Defaults
}

// NewPolicyPGS returns limit PolicyPGS.
func NewPolicyPGS(db dbpkg.SQLInterface, defaults Defaults) *PolicyPGS {
	return &PolicyPGS{db: db, defaults: defaults}
}

const movedTodayQuery = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM transactions
WHERE user_id = $1 AND kind = $2 AND status <> 'FAILED' AND created_at >= $3
`

// AmountMovedToday sums the user's non-failed volume of the kind since dayStart.
//
// Pending transactions count: an uncommitted settlement still reserves
// headroom against the limit.
func (p *PolicyPGS) AmountMovedToday(ctx context.Context, userID string, kind domain.Kind, dayStart time.Time) (moneypkg.Money, error) {
	l := zerolog.Ctx(ctx)

	var cents int64

	err := p.db.QueryRowContext(ctx, movedTodayQuery, userID, kind, dayStart).Scan(&cents)
	if err != nil {
		l.Error().Err(err).Send()
		return moneypkg.Money{}, errorspkg.ErrInternal
	}

	return moneypkg.New(cents, kind.Currency())
}

const limitQuery = `
SELECT limit_cents
FROM user_limits
WHERE user_id = $1 AND kind = $2
`

// LimitForUser returns the user's limit of the kind, falling back to the default.
func (p *PolicyPGS) LimitForUser(ctx context.Context, userID string, kind domain.Kind) (moneypkg.Money, error) {
	l := zerolog.Ctx(ctx)

	var cents int64

	err := p.db.QueryRowContext(ctx, limitQuery, userID, kind).Scan(&cents)
	if err != nil {
		if err == sql.ErrNoRows {
			if kind == domain.KindWithdrawal {
				return p.defaults.Withdrawal, nil
			}

			return p.defaults.Deposit, nil
		}

		l.Error().Err(err).Send()

		return moneypkg.Money{}, errorspkg.ErrInternal
	}

	return moneypkg.New(cents, kind.Currency())
}
