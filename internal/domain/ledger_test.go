package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
	"github.com/go-petr/pesa-bridge/pkg/randompkg"
)

func TestNewBalancedPair(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := randompkg.UserID()

	amount, err := moneypkg.New(50000, moneypkg.KES)
	require.NoError(t, err)

	txn, err := NewTransaction(
		userID,
		KindDeposit,
		amount,
		randompkg.IdempotencyKey(),
		testRate(t, moneypkg.KES, moneypkg.USD, 0.0076, now),
		now,
	)
	require.NoError(t, err)

	credit, debit, err := NewBalancedPair(txn, userID, HouseAccountID, now)
	require.NoError(t, err)

	require.Equal(t, SideCredit, credit.Side)
	require.Equal(t, userID, credit.AccountID)
	require.Equal(t, SideDebit, debit.Side)
	require.Equal(t, HouseAccountID, debit.AccountID)

	// Both sides carry the same amounts in both currencies at the locked rate.
	require.Equal(t, int64(50000), credit.AmountKES.Cents)
	require.Equal(t, int64(380), credit.AmountUSD.Cents)
	require.Equal(t, credit.AmountKES, debit.AmountKES)
	require.Equal(t, credit.AmountUSD, debit.AmountUSD)
	require.Equal(t, 0.0076, credit.Rate)
	require.Equal(t, txn.ID, credit.TransactionID)
	require.Equal(t, txn.ID, debit.TransactionID)

	// The pair sums to zero in every currency.
	require.Zero(t, credit.SignedCents(moneypkg.KES)+debit.SignedCents(moneypkg.KES))
	require.Zero(t, credit.SignedCents(moneypkg.USD)+debit.SignedCents(moneypkg.USD))
}

func TestSignedCents(t *testing.T) {
	usd, err := moneypkg.New(380, moneypkg.USD)
	require.NoError(t, err)

	kes, err := moneypkg.New(50000, moneypkg.KES)
	require.NoError(t, err)

	credit := LedgerEntry{Side: SideCredit, AmountUSD: usd, AmountKES: kes}
	require.Equal(t, int64(380), credit.SignedCents(moneypkg.USD))
	require.Equal(t, int64(50000), credit.SignedCents(moneypkg.KES))

	debit := LedgerEntry{Side: SideDebit, AmountUSD: usd, AmountKES: kes}
	require.Equal(t, int64(-380), debit.SignedCents(moneypkg.USD))
	require.Equal(t, int64(-50000), debit.SignedCents(moneypkg.KES))
}

func TestBalance(t *testing.T) {
	mustMoney := func(cents int64, currency moneypkg.Currency) moneypkg.Money {
		m, err := moneypkg.New(cents, currency)
		require.NoError(t, err)

		return m
	}

	account := LedgerAccount{
		OwnerID: randompkg.UserID(),
		Entries: []LedgerEntry{
			{Side: SideCredit, AmountUSD: mustMoney(1000, moneypkg.USD)},
			{Side: SideCredit, AmountUSD: mustMoney(500, moneypkg.USD)},
			{Side: SideDebit, AmountUSD: mustMoney(300, moneypkg.USD)},
		},
	}

	balance, err := account.Balance(moneypkg.USD)
	require.NoError(t, err)
	require.Equal(t, int64(1200), balance.Cents)

	// More debits than credits is a bookkeeping violation.
	account.Entries = append(account.Entries, LedgerEntry{
		Side:      SideDebit,
		AmountUSD: mustMoney(2000, moneypkg.USD),
	})

	_, err = account.Balance(moneypkg.USD)
	require.ErrorIs(t, err, ErrInsufficientBalance)
}
