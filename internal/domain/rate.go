package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// ErrInvalidRate indicates a non-positive exchange rate.
var ErrInvalidRate = errors.New("invalid exchange rate")

// LockedRate is a frozen FX-rate snapshot with a usage window.
//
// Settlement is asynchronous, so reusing a lock past its TTL is economically
// risky; orchestrators re-lock instead of reusing a stale rate.
type LockedRate struct {
	Rate     float64           `json:"rate"`
	From     moneypkg.Currency `json:"from"`
	To       moneypkg.Currency `json:"to"`
	LockedAt time.Time         `json:"locked_at"`
	TTL      time.Duration     `json:"-"`
}

// LockRate captures the rate and the current time.
func LockRate(rate float64, from, to moneypkg.Currency, now time.Time, ttl time.Duration) (LockedRate, error) {
	if rate <= 0 {
		return LockedRate{}, ErrInvalidRate
	}

	return LockedRate{
		Rate:     rate,
		From:     from,
		To:       to,
		LockedAt: now,
		TTL:      ttl,
	}, nil
}

// Convert returns a new Money in the target currency, rounded half-up.
func (r LockedRate) Convert(m moneypkg.Money) (moneypkg.Money, error) {
	if m.Currency != r.From {
		return moneypkg.Money{}, moneypkg.ErrCurrencyMismatch
	}

	cents := decimal.NewFromInt(m.Cents).
		Mul(decimal.NewFromFloat(r.Rate)).
		Round(0).
		IntPart()

	return moneypkg.New(cents, r.To)
}

// ExpiresAt returns the end of the lock's validity window.
func (r LockedRate) ExpiresAt() time.Time {
	return r.LockedAt.Add(r.TTL)
}

// Expired returns true if the validity window has elapsed.
func (r LockedRate) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt())
}
