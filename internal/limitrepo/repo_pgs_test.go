//go:build integration

package limitrepo_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/internal/integrationtest"
	"github.com/go-petr/pesa-bridge/internal/integrationtest/helpers"
	"github.com/go-petr/pesa-bridge/internal/limitrepo"
	"github.com/go-petr/pesa-bridge/internal/transactionrepo"
	"github.com/go-petr/pesa-bridge/pkg/configpkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
	"github.com/go-petr/pesa-bridge/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	os.Exit(m.Run())
}

func mustMoney(t *testing.T, cents int64, currency string) moneypkg.Money {
	t.Helper()

	m, err := moneypkg.New(cents, currency)
	if err != nil {
		t.Fatalf("moneypkg.New(%v, %v) returned error: %v", cents, currency, err)
	}

	return m
}

func testDefaults(t *testing.T) limitrepo.Defaults {
	t.Helper()

	return limitrepo.Defaults{
		Deposit:    mustMoney(t, 50_000_00, moneypkg.KES),
		Withdrawal: mustMoney(t, 1000_00, moneypkg.USD),
	}
}

func TestAmountMovedToday(t *testing.T) {
	t.Parallel()

	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	policy := limitrepo.NewPolicyPGS(db, testDefaults(t))
	txnRepo := transactionrepo.NewRepoPGS(db)

	userID := randompkg.UserID()
	dayStart := time.Now().UTC().Add(-time.Hour)

	helpers.SeedTransaction(t, db, helpers.NewDepositTransaction(t, userID, 50000))
	helpers.SeedTransaction(t, db, helpers.NewDepositTransaction(t, userID, 20000))
	helpers.SeedTransaction(t, db, helpers.NewWithdrawalTransaction(t, userID, 380))

	// A failed deposit must not reserve headroom.
	failed := helpers.SeedTransaction(t, db, helpers.NewDepositTransaction(t, userID, 90000))

	if _, err := txnRepo.Dispatch(context.Background(), failed.ID); err != nil {
		t.Fatalf("txnRepo.Dispatch returned error: %v", err)
	}

	if _, err := txnRepo.Fail(context.Background(), domain.FailTransactionParams{
		TransactionID: failed.ID,
		Reason:        "provider reported failure",
		FailedAt:      time.Now().UTC(),
	}); err != nil {
		t.Fatalf("txnRepo.Fail returned error: %v", err)
	}

	deposits, err := policy.AmountMovedToday(context.Background(), userID, domain.KindDeposit, dayStart)
	if err != nil {
		t.Fatalf("policy.AmountMovedToday(deposit) returned error: %v", err)
	}

	if got, want := deposits, mustMoney(t, 70000, moneypkg.KES); got != want {
		t.Errorf("deposits moved = %v, want %v", got, want)
	}

	withdrawals, err := policy.AmountMovedToday(context.Background(), userID, domain.KindWithdrawal, dayStart)
	if err != nil {
		t.Fatalf("policy.AmountMovedToday(withdrawal) returned error: %v", err)
	}

	if got, want := withdrawals, mustMoney(t, 380, moneypkg.USD); got != want {
		t.Errorf("withdrawals moved = %v, want %v", got, want)
	}

	// Volume before the window start does not count.
	moved, err := policy.AmountMovedToday(context.Background(), userID, domain.KindDeposit, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("policy.AmountMovedToday(future window) returned error: %v", err)
	}

	if got, want := moved, mustMoney(t, 0, moneypkg.KES); got != want {
		t.Errorf("deposits moved in future window = %v, want %v", got, want)
	}

	// Other users' volume is isolated.
	other, err := policy.AmountMovedToday(context.Background(), randompkg.UserID(), domain.KindDeposit, dayStart)
	if err != nil {
		t.Fatalf("policy.AmountMovedToday(other user) returned error: %v", err)
	}

	if got, want := other, mustMoney(t, 0, moneypkg.KES); got != want {
		t.Errorf("other user deposits moved = %v, want %v", got, want)
	}
}

func TestLimitForUser(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)

	defaults := testDefaults(t)
	policy := limitrepo.NewPolicyPGS(tx, defaults)

	userID := randompkg.UserID()

	t.Run("DepositDefault", func(t *testing.T) {
		limit, err := policy.LimitForUser(context.Background(), userID, domain.KindDeposit)
		if err != nil {
			t.Fatalf("policy.LimitForUser returned error: %v", err)
		}

		if limit != defaults.Deposit {
			t.Errorf("limit = %v, want %v", limit, defaults.Deposit)
		}
	})

	t.Run("WithdrawalDefault", func(t *testing.T) {
		limit, err := policy.LimitForUser(context.Background(), userID, domain.KindWithdrawal)
		if err != nil {
			t.Fatalf("policy.LimitForUser returned error: %v", err)
		}

		if limit != defaults.Withdrawal {
			t.Errorf("limit = %v, want %v", limit, defaults.Withdrawal)
		}
	})

	t.Run("Override", func(t *testing.T) {
		helpers.SeedUserLimit(t, tx, userID, domain.KindDeposit, 10_000_00)

		limit, err := policy.LimitForUser(context.Background(), userID, domain.KindDeposit)
		if err != nil {
			t.Fatalf("policy.LimitForUser returned error: %v", err)
		}

		if want := mustMoney(t, 10_000_00, moneypkg.KES); limit != want {
			t.Errorf("limit = %v, want %v", limit, want)
		}

		// The override binds one kind only.
		withdrawal, err := policy.LimitForUser(context.Background(), userID, domain.KindWithdrawal)
		if err != nil {
			t.Fatalf("policy.LimitForUser returned error: %v", err)
		}

		if withdrawal != defaults.Withdrawal {
			t.Errorf("withdrawal limit = %v, want %v", withdrawal, defaults.Withdrawal)
		}
	})
}
