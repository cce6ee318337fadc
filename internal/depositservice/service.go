// Package depositservice manages business logic layer of deposits.
package depositservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/clockpkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// Repo provides data access layer interface needed by deposit service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package depositservice
type Repo interface {
	GetByIdempotencyKey(ctx context.Context, userID, key string) (domain.Transaction, error)
	Initiate(ctx context.Context, arg domain.Transaction, msgs []domain.OutboxMessage) (domain.Transaction, error)
}

// LimitChecker guards the cumulative daily deposit volume.
type LimitChecker interface {
	CanDeposit(ctx context.Context, userID string, amount moneypkg.Money) error
}

// RateLocker freezes the exchange rate used for the deposit.
type RateLocker interface {
	LockRate(ctx context.Context, from, to moneypkg.Currency) (domain.LockedRate, error)
}

// Service orchestrates deposit initiation.
type Service struct {
	repo   Repo
	limits LimitChecker
	fx     RateLocker
	clock  clockpkg.Clock
}

// New returns deposit service struct to manage deposit bussines logic.
func New(repo Repo, limits LimitChecker, fx RateLocker, clock clockpkg.Clock) *Service {
	return &Service{
		repo:   repo,
		limits: limits,
		fx:     fx,
		clock:  clock,
	}
}

// Initiate accepts a deposit command with exactly-once semantics.
//
// A resubmitted (user, key) pair returns the prior transaction unchanged;
// a key replayed for a different operation kind fails with
// domain.ErrIdempotencyKeyCollision. All invariant violations reject before
// any persistence.
func (s *Service) Initiate(ctx context.Context, userID string, amountCents int64, idempotencyKey string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if idempotencyKey == "" {
		return domain.Transaction{}, domain.ErrInvalidIdempotencyKey
	}

	existing, err := s.repo.GetByIdempotencyKey(ctx, userID, idempotencyKey)
	switch err {
	case nil:
		return replay(existing, domain.KindDeposit)
	case domain.ErrTransactionNotFound:
	default:
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	amount, err := moneypkg.New(amountCents, moneypkg.KES)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	if !amount.IsPositive() {
		return domain.Transaction{}, moneypkg.ErrInvalidAmount
	}

	if err := s.limits.CanDeposit(ctx, userID, amount); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	rate, err := s.lockFreshRate(ctx, moneypkg.KES, moneypkg.USD)
	if err != nil {
		return domain.Transaction{}, err
	}

	txn, err := domain.NewTransaction(userID, domain.KindDeposit, amount, idempotencyKey, rate, s.clock.Now())
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	msgs := initiationMessages(&txn)

	created, err := s.repo.Initiate(ctx, txn, msgs)
	if err == domain.ErrIdempotencyKeyTaken {
		// Lost the insert race to a concurrent duplicate; the stored
		// transaction is the result of this command.
		existing, err := s.repo.GetByIdempotencyKey(ctx, userID, idempotencyKey)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.Transaction{}, err
		}

		return replay(existing, domain.KindDeposit)
	}

	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	return created, nil
}

// lockFreshRate locks the pair and re-locks once if the snapshot is already
// past its window when observed.
func (s *Service) lockFreshRate(ctx context.Context, from, to moneypkg.Currency) (domain.LockedRate, error) {
	rate, err := s.fx.LockRate(ctx, from, to)
	if err != nil {
		return domain.LockedRate{}, err
	}

	if rate.Expired(s.clock.Now()) {
		return s.fx.LockRate(ctx, from, to)
	}

	return rate, nil
}

func replay(existing domain.Transaction, kind domain.Kind) (domain.Transaction, error) {
	if existing.Kind != kind {
		return domain.Transaction{}, domain.ErrIdempotencyKeyCollision
	}

	return existing, nil
}

// initiationMessages converts the drained creation event into the
// deposit.initiated message for the settlement worker.
func initiationMessages(txn *domain.Transaction) []domain.OutboxMessage {
	msgs := make([]domain.OutboxMessage, 0, 1)

	for _, event := range txn.DrainEvents() {
		if event.Name != domain.EventTransactionCreated {
			continue
		}

		msgs = append(msgs, domain.OutboxMessage{
			Topic: domain.TopicDepositInitiated,
			Payload: map[string]any{
				"transaction_id":   txn.ID.String(),
				"user_id":          txn.UserID,
				"amount_kes_cents": txn.Amount.Cents,
				"currency":         string(txn.Amount.Currency),
				"rate":             txn.Rate.Rate,
				"expires_at":       txn.Rate.ExpiresAt().Format(time.RFC3339),
			},
		})
	}

	return msgs
}
