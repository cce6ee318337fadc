// Package withdrawalservice manages business logic layer of withdrawals.
package withdrawalservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/clockpkg"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
	"github.com/go-petr/pesa-bridge/pkg/secretpkg"
)

// Repo provides data access layer interface needed by withdrawal service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package withdrawalservice
type Repo interface {
	GetByIdempotencyKey(ctx context.Context, userID, key string) (domain.Transaction, error)
	Initiate(ctx context.Context, arg domain.Transaction, msgs []domain.OutboxMessage) (domain.Transaction, error)
}

// LimitChecker guards the cumulative daily withdrawal volume.
type LimitChecker interface {
	CanWithdraw(ctx context.Context, userID string, amount moneypkg.Money) error
}

// RateLocker freezes the exchange rate used for the withdrawal.
type RateLocker interface {
	LockRate(ctx context.Context, from, to moneypkg.Currency) (domain.LockedRate, error)
}

// Secrets stores one-time secrets with a TTL.
type Secrets interface {
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service orchestrates withdrawal confirmation commands.
type Service struct {
	repo      Repo
	limits    LimitChecker
	fx        RateLocker
	secrets   Secrets
	cipher    *secretpkg.Cipher
	secretTTL time.Duration
	clock     clockpkg.Clock
}

// New returns withdrawal service struct to manage withdrawal bussines logic.
func New(repo Repo, limits LimitChecker, fx RateLocker, secrets Secrets, cipher *secretpkg.Cipher, secretTTL time.Duration, clock clockpkg.Clock) *Service {
	return &Service{
		repo:      repo,
		limits:    limits,
		fx:        fx,
		secrets:   secrets,
		cipher:    cipher,
		secretTTL: secretTTL,
		clock:     clock,
	}
}

// Confirm accepts a withdrawal command with exactly-once semantics.
//
// The one-time verification code is sealed and parked in the short-TTL
// secret store under a fresh unguessable key; only the key travels in the
// published event. The settlement worker consumes it via an atomic
// get-and-delete.
func (s *Service) Confirm(ctx context.Context, userID string, amountCents int64, verificationCode, idempotencyKey string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if idempotencyKey == "" {
		return domain.Transaction{}, domain.ErrInvalidIdempotencyKey
	}

	if verificationCode == "" {
		return domain.Transaction{}, domain.ErrVerificationFailed
	}

	existing, err := s.repo.GetByIdempotencyKey(ctx, userID, idempotencyKey)
	switch err {
	case nil:
		return replay(existing, domain.KindWithdrawal)
	case domain.ErrTransactionNotFound:
	default:
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	amount, err := moneypkg.New(amountCents, moneypkg.USD)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	if !amount.IsPositive() {
		return domain.Transaction{}, moneypkg.ErrInvalidAmount
	}

	if err := s.limits.CanWithdraw(ctx, userID, amount); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	rate, err := s.lockFreshRate(ctx, moneypkg.USD, moneypkg.KES)
	if err != nil {
		return domain.Transaction{}, err
	}

	txn, err := domain.NewTransaction(userID, domain.KindWithdrawal, amount, idempotencyKey, rate, s.clock.Now())
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	secretKey := uuid.NewString()

	sealed, err := s.cipher.Seal([]byte(verificationCode))
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	// Parked before the transaction persists; nothing references the key
	// until the initiated event commits, and the row expires on its own
	// if the command fails here.
	if err := s.secrets.Store(ctx, secretKey, sealed, s.secretTTL); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	msgs := s.initiationMessages(&txn, secretKey)

	created, err := s.repo.Initiate(ctx, txn, msgs)
	if err == domain.ErrIdempotencyKeyTaken {
		existing, err := s.repo.GetByIdempotencyKey(ctx, userID, idempotencyKey)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.Transaction{}, err
		}

		return replay(existing, domain.KindWithdrawal)
	}

	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	return created, nil
}

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
// withdrawals.initiated message, carrying the secret-store key and
// never the code itself.
func (s *Service) initiationMessages(txn *domain.Transaction, secretKey string) []domain.OutboxMessage {
	msgs := make([]domain.OutboxMessage, 0, 1)

	for _, event := range txn.DrainEvents() {
		if event.Name != domain.EventTransactionCreated {
			continue
		}

		msgs = append(msgs, domain.OutboxMessage{
			Topic: domain.TopicWithdrawalsInitiated,
			Payload: map[string]any{
				"transaction_id":   txn.ID.String(),
				"user_id":          txn.UserID,
				"amount_usd_cents": txn.Amount.Cents,
				"currency":         string(txn.Amount.Currency),
				"rate":             txn.Rate.Rate,
				"secret_key":       secretKey,
				"expires_at":       s.clock.Now().Add(s.secretTTL).Format(time.RFC3339),
			},
		})
	}

	return msgs
}
