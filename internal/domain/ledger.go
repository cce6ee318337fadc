package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// EntrySide is the bookkeeping side of a ledger entry.
type EntrySide string

// Constants for both entry sides.
const (
	SideDebit  EntrySide = "DEBIT"
	SideCredit EntrySide = "CREDIT"
)

// HouseAccountID is the float account carrying the offsetting side of
// every user movement.
const HouseAccountID = "house:float"

// LedgerEntry is one side of a confirmed monetary movement.
//
// Entries are immutable once written; corrections are new reversing
// entries, never updates.
type LedgerEntry struct {
	ID            int64          `json:"id"`
	TransactionID uuid.UUID      `json:"transaction_id"`
	AccountID     string         `json:"account_id"`
	Side          EntrySide      `json:"side"`
	AmountUSD     moneypkg.Money `json:"amount_usd"`
	AmountKES     moneypkg.Money `json:"amount_kes"`
	Rate          float64        `json:"rate"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// SignedCents returns the entry amount in the given currency,
// positive for credits and negative for debits.
func (e LedgerEntry) SignedCents(currency moneypkg.Currency) int64 {
	var cents int64

	switch currency {
	case moneypkg.USD:
		cents = e.AmountUSD.Cents
	case moneypkg.KES:
		cents = e.AmountKES.Cents
	}

	if e.Side == SideDebit {
		return -cents
	}

	return cents
}

// NewBalancedPair builds the equal, offsetting credit and debit entries for a
// transaction, carrying the amount in both currencies at the locked rate.
func NewBalancedPair(t Transaction, creditAccountID, debitAccountID string, occurredAt time.Time) (LedgerEntry, LedgerEntry, error) {
	converted, err := t.Rate.Convert(t.Amount)
	if err != nil {
		return LedgerEntry{}, LedgerEntry{}, err
	}

	var amountUSD, amountKES moneypkg.Money

	switch t.Amount.Currency {
	case moneypkg.USD:
		amountUSD, amountKES = t.Amount, converted
	case moneypkg.KES:
		amountKES, amountUSD = t.Amount, converted
	}

	credit := LedgerEntry{
		TransactionID: t.ID,
		AccountID:     creditAccountID,
		Side:          SideCredit,
		AmountUSD:     amountUSD,
		AmountKES:     amountKES,
		Rate:          t.Rate.Rate,
		OccurredAt:    occurredAt,
	}

	debit := credit
	debit.AccountID = debitAccountID
	debit.Side = SideDebit

	return credit, debit, nil
}

// LedgerAccount is the ordered, append-only entry sequence of one owner.
type LedgerAccount struct {
	OwnerID string        `json:"owner_id"`
	Entries []LedgerEntry `json:"entries"`
}

// Balance returns credits minus debits in the given currency.
func (a LedgerAccount) Balance(currency moneypkg.Currency) (moneypkg.Money, error) {
	var cents int64

	for _, e := range a.Entries {
		cents += e.SignedCents(currency)
	}

	if cents < 0 {
		return moneypkg.Money{}, ErrInsufficientBalance
	}

	return moneypkg.New(cents, currency)
}
