// Package limitservice manages the daily-volume policy gate.
package limitservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/clockpkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// Policy provides the external reads the checker decides on.
//
//go:generate mockgen -source service.go -destination service_mock.go -package limitservice
type Policy interface {
	AmountMovedToday(ctx context.Context, userID string, kind domain.Kind, dayStart time.Time) (moneypkg.Money, error)
	LimitForUser(ctx context.Context, userID string, kind domain.Kind) (moneypkg.Money, error)
}

// Checker is the stateless daily-volume gate.
//
// The decision is moved + requested <= limit, boundary inclusive. Because the
// check and the eventual ledger write are not the same instant, the
// completion transaction re-evaluates it before committing.
type Checker struct {
	policy Policy
	clock  clockpkg.Clock
}

// New returns a limit checker over the given policy reads.
func New(policy Policy, clock clockpkg.Clock) *Checker {
	return &Checker{policy: policy, clock: clock}
}

// CanDeposit returns domain.ErrLimitExceeded if the deposit would
// push the user past the daily limit.
func (c *Checker) CanDeposit(ctx context.Context, userID string, amount moneypkg.Money) error {
	return c.check(ctx, userID, domain.KindDeposit, amount)
}

// CanWithdraw returns domain.ErrLimitExceeded if the withdrawal would
// push the user past the daily limit.
func (c *Checker) CanWithdraw(ctx context.Context, userID string, amount moneypkg.Money) error {
	return c.check(ctx, userID, domain.KindWithdrawal, amount)
}

func (c *Checker) check(ctx context.Context, userID string, kind domain.Kind, amount moneypkg.Money) error {
	l := zerolog.Ctx(ctx)

	dayStart := clockpkg.DayStart(c.clock.Now())

	moved, err := c.policy.AmountMovedToday(ctx, userID, kind, dayStart)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	limit, err := c.policy.LimitForUser(ctx, userID, kind)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	total, err := moved.Add(amount)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	if total.Cents > limit.Cents {
		return domain.ErrLimitExceeded
	}

	return nil
}
