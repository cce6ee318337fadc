package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// EventName tags a domain event variant.
type EventName string

// Constants for all domain event variants.
const (
	EventTransactionCreated   EventName = "transaction.created"
	EventTransactionCompleted EventName = "transaction.completed"
	EventTransactionFailed    EventName = "transaction.failed"
)

// Event is one buffered domain event of a transaction transition.
type Event struct {
	Name          EventName `json:"name"`
	TransactionID uuid.UUID `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Constants for all published topics.
const (
	TopicDepositInitiated      = "deposit.initiated"
	TopicWithdrawalsInitiated  = "withdrawals.initiated"
	TopicTransactionsCompleted = "transactions.completed"
	TopicTransactionsFailed    = "transactions.failed"
)

// OutboxMessage is one event to publish durably with the state it describes.
type OutboxMessage struct {
	Topic   string         `json:"topic"`
	Payload map[string]any `json:"payload"`
}

// OutboxEvent is a stored outbox row awaiting the relay.
type OutboxEvent struct {
	ID          int64     `json:"id"`
	Topic       string    `json:"topic"`
	Payload     []byte    `json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// CompleteTransactionParams is the input for the completion transaction.
//
// The aggregate carries the advanced state; both ledger entries, the limit
// re-check bound and the balance floor are applied atomically with it.
type CompleteTransactionParams struct {
	Transaction    Transaction
	Credit         LedgerEntry
	Debit          LedgerEntry
	DailyLimit     moneypkg.Money
	DayStart       time.Time
	EnforceBalance bool
	Messages       []OutboxMessage
}

// FailTransactionParams is the input for the failure transaction.
type FailTransactionParams struct {
	TransactionID uuid.UUID
	Reason        string
	FailedAt      time.Time
	Messages      []OutboxMessage
}
