// Package fxservice manages exchange-rate locking.
package fxservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/clockpkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// ErrPairNotQuoted indicates a currency pair the provider has no rate for.
var ErrPairNotQuoted = errors.New("currency pair not quoted")

// Provider quotes a current exchange rate for a currency pair.
//
//go:generate mockgen -source service.go -destination service_mock.go -package fxservice
type Provider interface {
	Quote(ctx context.Context, from, to moneypkg.Currency) (float64, error)
}

// Service locks provider quotes into rate snapshots with a usage window.
type Service struct {
	provider Provider
	clock    clockpkg.Clock
	ttl      time.Duration
}

// New returns an fx service locking rates for the given TTL.
func New(provider Provider, clock clockpkg.Clock, ttl time.Duration) *Service {
	return &Service{
		provider: provider,
		clock:    clock,
		ttl:      ttl,
	}
}

// LockRate freezes the current rate of the pair with the configured TTL.
func (s *Service) LockRate(ctx context.Context, from, to moneypkg.Currency) (domain.LockedRate, error) {
	l := zerolog.Ctx(ctx)

	rate, err := s.provider.Quote(ctx, from, to)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.LockedRate{}, domain.ErrExternalServiceUnavailable
	}

	return domain.LockRate(rate, from, to, s.clock.Now(), s.ttl)
}

// StaticProvider quotes rates from a fixed table, keyed "FROM/TO".
type StaticProvider struct {
	rates map[string]float64
}

// NewStaticProvider returns a provider over the given rate table.
func NewStaticProvider(rates map[string]float64) *StaticProvider {
	return &StaticProvider{rates: rates}
}

// PairKey builds the rate-table key of a currency pair.
func PairKey(from, to moneypkg.Currency) string {
	return fmt.Sprintf("%s/%s", from, to)
}

// Quote returns the table rate of the pair.
func (p *StaticProvider) Quote(_ context.Context, from, to moneypkg.Currency) (float64, error) {
	rate, ok := p.rates[PairKey(from, to)]
	if !ok {
		return 0, ErrPairNotQuoted
	}

	return rate, nil
}
