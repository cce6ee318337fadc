// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

var (
	// ErrTransactionNotFound indicates that no transaction matched the query.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrIdempotencyKeyTaken indicates that another transaction already holds the key.
	//
	// The loser of a concurrent duplicate submission observes this and must
	// fall back to the read path instead of surfacing an error.
	ErrIdempotencyKeyTaken = errors.New("idempotency key already taken")
	// ErrIdempotencyKeyCollision indicates a replayed key used for a different operation kind.
	ErrIdempotencyKeyCollision = errors.New("idempotency key used for a different operation")
	// ErrInvalidIdempotencyKey indicates an empty or malformed idempotency key.
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	// ErrInvalidUserID indicates an empty user id.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrInvalidStateTransition indicates a transition out of a terminal state.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrLimitExceeded indicates that the daily volume limit would be exceeded.
	ErrLimitExceeded = errors.New("daily limit exceeded")
	// ErrInsufficientBalance indicates that the withdrawal-eligible balance would go negative.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSecretNotFound indicates an absent or already-consumed one-time secret.
	ErrSecretNotFound = errors.New("secret not found")
	// ErrVerificationFailed indicates a failed one-time verification code check.
	ErrVerificationFailed = errors.New("verification failed")
	// ErrExternalServiceUnavailable indicates a provider timeout or error.
	//
	// The command may be retried; the retry hits the idempotency fast path.
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
)

// Kind discriminates deposit and withdrawal transactions.
type Kind string

// Constants for all transaction kinds.
const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
)

// Currency returns the source currency a transaction of this kind moves.
func (k Kind) Currency() moneypkg.Currency {
	if k == KindWithdrawal {
		return moneypkg.USD
	}

	return moneypkg.KES
}

// Status is a transaction lifecycle state.
type Status string

// Constants for all transaction statuses.
const (
	StatusCreated         Status = "CREATED"
	StatusPendingExternal Status = "PENDING_EXTERNAL"
	StatusCompleted       Status = "COMPLETED"
	StatusFailed          Status = "FAILED"
)

// Terminal returns true if no further transition may leave the status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Transaction is the aggregate root for one deposit or withdrawal.
//
// It is owned by the orchestrator that created it until handed to the
// repository; later mutation happens only through the transition methods.
type Transaction struct {
	ID             uuid.UUID      `json:"id"`
	UserID         string         `json:"user_id"`
	Kind           Kind           `json:"kind"`
	Amount         moneypkg.Money `json:"amount"`
	IdempotencyKey string         `json:"-"`
	Status         Status         `json:"status"`
	Rate           LockedRate     `json:"rate"`
	ExternalRef    string         `json:"external_ref,omitempty"`
	FailureReason  string         `json:"failure_reason,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    time.Time      `json:"completed_at,omitempty"`

	events []Event
}

// NewTransaction validates inputs and returns a CREATED transaction
// with a time-ordered id and a TransactionCreated event buffered.
func NewTransaction(userID string, kind Kind, amount moneypkg.Money, idempotencyKey string, rate LockedRate, now time.Time) (Transaction, error) {
	if userID == "" {
		return Transaction{}, ErrInvalidUserID
	}

	if idempotencyKey == "" {
		return Transaction{}, ErrInvalidIdempotencyKey
	}

	if !amount.IsPositive() {
		return Transaction{}, moneypkg.ErrInvalidAmount
	}

	if amount.Currency != rate.From {
		return Transaction{}, moneypkg.ErrCurrencyMismatch
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Transaction{}, err
	}

	t := Transaction{
		ID:             id,
		UserID:         userID,
		Kind:           kind,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
		Status:         StatusCreated,
		Rate:           rate,
		CreatedAt:      now,
	}

	t.appendEvent(EventTransactionCreated, now)

	return t, nil
}

// MarkDispatched records that the external call has been dispatched.
func (t *Transaction) MarkDispatched() error {
	if t.Status != StatusCreated {
		return ErrInvalidStateTransition
	}

	t.Status = StatusPendingExternal

	return nil
}

// ConfirmExternal moves the transaction to COMPLETED with the provider reference.
func (t *Transaction) ConfirmExternal(reference string, now time.Time) error {
	if t.Status.Terminal() {
		return ErrInvalidStateTransition
	}

	t.Status = StatusCompleted
	t.ExternalRef = reference
	t.CompletedAt = now

	t.appendEvent(EventTransactionCompleted, now)

	return nil
}

// MarkFailed moves the transaction to FAILED preserving the reason.
func (t *Transaction) MarkFailed(reason string, now time.Time) error {
	if t.Status.Terminal() {
		return ErrInvalidStateTransition
	}

	t.Status = StatusFailed
	t.FailureReason = reason
	t.CompletedAt = now

	t.appendEvent(EventTransactionFailed, now)

	return nil
}

// DrainEvents hands the buffered events to the caller for durable
// publication and clears the buffer so they are never re-emitted.
func (t *Transaction) DrainEvents() []Event {
	events := t.events
	t.events = nil

	return events
}

func (t *Transaction) appendEvent(name EventName, occurredAt time.Time) {
	t.events = append(t.events, Event{
		Name:          name,
		TransactionID: t.ID,
		OccurredAt:    occurredAt,
	})
}
