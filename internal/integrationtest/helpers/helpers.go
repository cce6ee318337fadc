// Package helpers provides seeders for integration tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/internal/ledgerrepo"
	"github.com/go-petr/pesa-bridge/internal/transactionrepo"
	"github.com/go-petr/pesa-bridge/pkg/dbpkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
	"github.com/go-petr/pesa-bridge/pkg/randompkg"
)

// NewDepositTransaction builds an unsaved CREATED deposit for the given user.
func NewDepositTransaction(t *testing.T, userID string, kesCents int64) domain.Transaction {
	t.Helper()

	amount, err := moneypkg.New(kesCents, moneypkg.KES)
	if err != nil {
		t.Fatalf("moneypkg.New(%v, KES) returned error: %v", kesCents, err)
	}

	rate, err := domain.LockRate(0.0076, moneypkg.KES, moneypkg.USD, time.Now().UTC(), 30*time.Second)
	if err != nil {
		t.Fatalf("domain.LockRate returned error: %v", err)
	}

	txn, err := domain.NewTransaction(userID, domain.KindDeposit, amount, randompkg.IdempotencyKey(), rate, time.Now().UTC())
	if err != nil {
		t.Fatalf("domain.NewTransaction returned error: %v", err)
	}

	txn.DrainEvents()

	return txn
}

// NewWithdrawalTransaction builds an unsaved CREATED withdrawal for the given user.
func NewWithdrawalTransaction(t *testing.T, userID string, usdCents int64) domain.Transaction {
	t.Helper()

	amount, err := moneypkg.New(usdCents, moneypkg.USD)
	if err != nil {
		t.Fatalf("moneypkg.New(%v, USD) returned error: %v", usdCents, err)
	}

	rate, err := domain.LockRate(129.85, moneypkg.USD, moneypkg.KES, time.Now().UTC(), 30*time.Second)
	if err != nil {
		t.Fatalf("domain.LockRate returned error: %v", err)
	}

	txn, err := domain.NewTransaction(userID, domain.KindWithdrawal, amount, randompkg.IdempotencyKey(), rate, time.Now().UTC())
	if err != nil {
		t.Fatalf("domain.NewTransaction returned error: %v", err)
	}

	txn.DrainEvents()

	return txn
}

// SeedTransaction persists the transaction through the repository layer.
func SeedTransaction(t *testing.T, db dbpkg.SQLInterface, txn domain.Transaction) domain.Transaction {
	t.Helper()

	repo := transactionrepo.NewTxRepoPGS(db)

	created, err := repo.Create(context.Background(), txn)
	if err != nil {
		t.Fatalf("transactionRepo.Create returned error: %v", err)
	}

	return created
}

// SeedLedgerPair persists a balanced pair crediting the given account.
func SeedLedgerPair(t *testing.T, db dbpkg.SQLInterface, txn domain.Transaction, creditAccountID, debitAccountID string) (domain.LedgerEntry, domain.LedgerEntry) {
	t.Helper()

	credit, debit, err := domain.NewBalancedPair(txn, creditAccountID, debitAccountID, time.Now().UTC())
	if err != nil {
		t.Fatalf("domain.NewBalancedPair returned error: %v", err)
	}

	repo := ledgerrepo.NewRepoPGS(db)

	creditEntry, debitEntry, err := repo.CreatePair(context.Background(), credit, debit)
	if err != nil {
		t.Fatalf("ledgerRepo.CreatePair returned error: %v", err)
	}

	return creditEntry, debitEntry
}

// SeedUserLimit persists a per-user limit override row.
func SeedUserLimit(t *testing.T, db dbpkg.SQLInterface, userID string, kind domain.Kind, limitCents int64) {
	t.Helper()

	const query = `
INSERT INTO user_limits (user_id, kind, limit_cents) VALUES ($1, $2, $3)
ON CONFLICT (user_id, kind) DO UPDATE SET limit_cents = EXCLUDED.limit_cents
`

	if _, err := db.ExecContext(context.Background(), query, userID, kind, limitCents); err != nil {
		t.Fatalf("seeding user limit failed: %v", err)
	}
}
