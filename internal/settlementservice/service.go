// Package settlementservice manages the asynchronous confirmation path that
// drives transactions to their terminal states.
package settlementservice

import (
	"context"
	"crypto/subtle"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/clockpkg"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
	"github.com/go-petr/pesa-bridge/pkg/secretpkg"
)

// Repo provides data access layer interface needed by settlement service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package settlementservice
type Repo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	Complete(ctx context.Context, arg domain.CompleteTransactionParams) (domain.Transaction, error)
	Fail(ctx context.Context, arg domain.FailTransactionParams) (domain.Transaction, error)
	Dispatch(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
}

// Secrets consumes one-time secrets atomically.
type Secrets interface {
	GetAndDelete(ctx context.Context, key string) ([]byte, error)
}

// LimitPolicy reads the per-user daily limit re-checked at completion.
type LimitPolicy interface {
	LimitForUser(ctx context.Context, userID string, kind domain.Kind) (moneypkg.Money, error)
}

// Service applies typed provider outcomes to transactions.
type Service struct {
	repo    Repo
	secrets Secrets
	policy  LimitPolicy
	cipher  *secretpkg.Cipher
	clock   clockpkg.Clock
}

// New returns settlement service struct to manage confirmation logic.
func New(repo Repo, secrets Secrets, policy LimitPolicy, cipher *secretpkg.Cipher, clock clockpkg.Clock) *Service {
	return &Service{
		repo:    repo,
		secrets: secrets,
		policy:  policy,
		cipher:  cipher,
		clock:   clock,
	}
}

// Outcome is the closed result parsed from a provider response before
// anything touches the aggregate.
type Outcome struct {
	Reference     string          `json:"reference"`
	FailureReason string          `json:"failure_reason"`
	Raw           json.RawMessage `json:"raw"`
}

// Succeeded reports whether the provider confirmed the movement.
func (o Outcome) Succeeded() bool {
	return o.FailureReason == "" && o.Reference != ""
}

type providerResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// ParseOutcome converts a raw provider response into an Outcome,
// preserving the raw payload for failures.
func ParseOutcome(raw []byte) (Outcome, error) {
	var resp providerResponse

	if err := json.Unmarshal(raw, &resp); err != nil {
		return Outcome{}, domain.ErrExternalServiceUnavailable
	}

	switch resp.Status {
	case "success":
		if resp.Reference == "" {
			return Outcome{}, domain.ErrExternalServiceUnavailable
		}

		return Outcome{Reference: resp.Reference, Raw: raw}, nil
	case "failed":
		reason := resp.Reason
		if reason == "" {
			reason = "provider reported failure"
		}

		return Outcome{FailureReason: reason, Raw: raw}, nil
	}

	return Outcome{}, domain.ErrExternalServiceUnavailable
}

// Settle drives the transaction to its terminal state for the outcome.
func (s *Service) Settle(ctx context.Context, id uuid.UUID, outcome Outcome) (domain.Transaction, error) {
	if outcome.Succeeded() {
		return s.Complete(ctx, id, outcome.Reference)
	}

	return s.Fail(ctx, id, outcome.FailureReason)
}

// Complete confirms the external movement: the COMPLETED transition, the
// balanced ledger pair, the in-transaction limit re-check and the published
// event commit atomically.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, reference string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	txn, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	now := s.clock.Now()

	if err := txn.ConfirmExternal(reference, now); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	// A deposit credits the user against the house float; a withdrawal is
	// funded by the user's balance, so the sides swap.
	creditAccount, debitAccount := txn.UserID, domain.HouseAccountID
	if txn.Kind == domain.KindWithdrawal {
		creditAccount, debitAccount = domain.HouseAccountID, txn.UserID
	}

	credit, debit, err := domain.NewBalancedPair(txn, creditAccount, debitAccount, now)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	limit, err := s.policy.LimitForUser(ctx, txn.UserID, txn.Kind)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	completed, err := s.repo.Complete(ctx, domain.CompleteTransactionParams{
		Transaction:    txn,
		Credit:         credit,
		Debit:          debit,
		DailyLimit:     limit,
		DayStart:       clockpkg.DayStart(now),
		EnforceBalance: txn.Kind == domain.KindWithdrawal,
		Messages:       terminalMessages(&txn),
	})

	switch err {
	case nil:
		return completed, nil
	case domain.ErrLimitExceeded, domain.ErrInsufficientBalance:
		l.Info().Err(err).Send()

		if _, failErr := s.Fail(ctx, id, err.Error()); failErr != nil {
			l.Error().Err(failErr).Send()
		}

		return domain.Transaction{}, err
	default:
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}
}

// Fail drives the transaction to FAILED preserving the provider error.
func (s *Service) Fail(ctx context.Context, id uuid.UUID, reason string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	txn, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	now := s.clock.Now()

	if err := txn.MarkFailed(reason, now); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	failed, err := s.repo.Fail(ctx, domain.FailTransactionParams{
		TransactionID: id,
		Reason:        reason,
		FailedAt:      now,
		Messages:      terminalMessages(&txn),
	})
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, err
	}

	return failed, nil
}

// Dispatch records that a worker picked the transaction up for settlement.
func (s *Service) Dispatch(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	return s.repo.Dispatch(ctx, id)
}

// ConsumeVerificationCode redeems the one-time withdrawal code.
//
// An absent key means the code expired or another worker consumed it; either
// way the withdrawal fails with the verification error and no ledger entry
// is ever written for it.
func (s *Service) ConsumeVerificationCode(ctx context.Context, id uuid.UUID, secretKey, presented string) error {
	l := zerolog.Ctx(ctx)

	sealed, err := s.secrets.GetAndDelete(ctx, secretKey)
	if err == domain.ErrSecretNotFound {
		return s.failVerification(ctx, id, "verification code expired or already consumed")
	}

	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	code, err := s.cipher.Open(sealed)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if subtle.ConstantTimeCompare(code, []byte(presented)) != 1 {
		return s.failVerification(ctx, id, "verification code mismatch")
	}

	return nil
}

func (s *Service) failVerification(ctx context.Context, id uuid.UUID, reason string) error {
	l := zerolog.Ctx(ctx)

	if _, err := s.Fail(ctx, id, reason); err != nil {
		l.Error().Err(err).Send()
	}

	return domain.ErrVerificationFailed
}

// terminalMessages converts the drained terminal event into its topic message.
func terminalMessages(txn *domain.Transaction) []domain.OutboxMessage {
	msgs := make([]domain.OutboxMessage, 0, 1)

	for _, event := range txn.DrainEvents() {
		payload := map[string]any{
			"transaction_id": txn.ID.String(),
			"user_id":        txn.UserID,
			"amount_cents":   txn.Amount.Cents,
			"currency":       string(txn.Amount.Currency),
		}

		switch event.Name {
		case domain.EventTransactionCompleted:
			payload["external_ref"] = txn.ExternalRef

			msgs = append(msgs, domain.OutboxMessage{Topic: domain.TopicTransactionsCompleted, Payload: payload})
		case domain.EventTransactionFailed:
			payload["failure_reason"] = txn.FailureReason

			msgs = append(msgs, domain.OutboxMessage{Topic: domain.TopicTransactionsFailed, Payload: payload})
		}
	}

	return msgs
}
