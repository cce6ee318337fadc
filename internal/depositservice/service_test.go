package depositservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/clockpkg"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
	"github.com/go-petr/pesa-bridge/pkg/randompkg"
)

func TestInitiate(t *testing.T) {
	userID := randompkg.UserID()
	idempotencyKey := randompkg.IdempotencyKey()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	freshRate, err := domain.LockRate(0.0076, moneypkg.KES, moneypkg.USD, now, 30*time.Second)
	require.NoError(t, err)

	staleRate, err := domain.LockRate(0.0075, moneypkg.KES, moneypkg.USD, now.Add(-time.Minute), 30*time.Second)
	require.NoError(t, err)

	existingAmount, err := moneypkg.New(50000, moneypkg.KES)
	require.NoError(t, err)

	existingDeposit, err := domain.NewTransaction(userID, domain.KindDeposit, existingAmount, idempotencyKey, freshRate, now)
	require.NoError(t, err)
	existingDeposit.DrainEvents()

	withdrawalAmount, err := moneypkg.New(380, moneypkg.USD)
	require.NoError(t, err)

	usdRate, err := domain.LockRate(129.85, moneypkg.USD, moneypkg.KES, now, 30*time.Second)
	require.NoError(t, err)

	existingWithdrawal, err := domain.NewTransaction(userID, domain.KindWithdrawal, withdrawalAmount, idempotencyKey, usdRate, now)
	require.NoError(t, err)
	existingWithdrawal.DrainEvents()

	type input struct {
		userID         string
		amountCents    int64
		idempotencyKey string
	}

	testCases := []struct {
		name          string
		input         input
		buildStubs    func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker)
		checkResponse func(res domain.Transaction, err error)
	}{
		{
			name:  "EmptyIdempotencyKey",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: ""},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().GetByIdempotencyKey(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInvalidIdempotencyKey)
			},
		},
		{
			name:  "ReplayReturnsExisting",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(existingDeposit, nil)
				repo.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				limits.EXPECT().CanDeposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				fx.EXPECT().LockRate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, existingDeposit, res)
			},
		},
		{
			name:  "KindCollision",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(existingWithdrawal, nil)
				repo.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrIdempotencyKeyCollision)
			},
		},
		{
			name:  "NegativeAmount",
			input: input{userID: userID, amountCents: -1, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				repo.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				limits.EXPECT().CanDeposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, moneypkg.ErrInvalidAmount)
			},
		},
		{
			name:  "ZeroAmount",
			input: input{userID: userID, amountCents: 0, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				repo.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				limits.EXPECT().CanDeposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, moneypkg.ErrInvalidAmount)
			},
		},
		{
			name:  "LimitExceeded",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				limits.EXPECT().
					CanDeposit(gomock.Any(), gomock.Eq(userID), gomock.Any()).
					Times(1).
					Return(domain.ErrLimitExceeded)
				repo.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				fx.EXPECT().LockRate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrLimitExceeded)
			},
		},
		{
			name:  "RateLockerUnavailable",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				limits.EXPECT().
					CanDeposit(gomock.Any(), gomock.Eq(userID), gomock.Any()).
					Times(1).
					Return(nil)
				fx.EXPECT().
					LockRate(gomock.Any(), gomock.Eq(moneypkg.KES), gomock.Eq(moneypkg.USD)).
					Times(1).
					Return(domain.LockedRate{}, domain.ErrExternalServiceUnavailable)
				repo.EXPECT().Initiate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrExternalServiceUnavailable)
			},
		},
		{
			name:  "StaleRateRelockedOnce",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				limits.EXPECT().
					CanDeposit(gomock.Any(), gomock.Eq(userID), gomock.Any()).
					Times(1).
					Return(nil)
				gomock.InOrder(
					fx.EXPECT().
						LockRate(gomock.Any(), gomock.Eq(moneypkg.KES), gomock.Eq(moneypkg.USD)).
						Return(staleRate, nil),
					fx.EXPECT().
						LockRate(gomock.Any(), gomock.Eq(moneypkg.KES), gomock.Eq(moneypkg.USD)).
						Return(freshRate, nil),
				)
				repo.EXPECT().
					Initiate(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.Transaction, _ []domain.OutboxMessage) (domain.Transaction, error) {
						require.Equal(t, freshRate, arg.Rate)

						return arg, nil
					})
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, freshRate, res.Rate)
			},
		},
		{
			name:  "ConcurrentDuplicateFallsBackToRead",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				gomock.InOrder(
					repo.EXPECT().
						GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
						Return(domain.Transaction{}, domain.ErrTransactionNotFound),
					repo.EXPECT().
						GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
						Return(existingDeposit, nil),
				)
				limits.EXPECT().
					CanDeposit(gomock.Any(), gomock.Eq(userID), gomock.Any()).
					Times(1).
					Return(nil)
				fx.EXPECT().
					LockRate(gomock.Any(), gomock.Eq(moneypkg.KES), gomock.Eq(moneypkg.USD)).
					Times(1).
					Return(freshRate, nil)
				repo.EXPECT().
					Initiate(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, domain.ErrIdempotencyKeyTaken)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, existingDeposit, res)
			},
		},
		{
			name:  "RepoInternalError",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				limits.EXPECT().
					CanDeposit(gomock.Any(), gomock.Eq(userID), gomock.Any()).
					Times(1).
					Return(nil)
				fx.EXPECT().
					LockRate(gomock.Any(), gomock.Eq(moneypkg.KES), gomock.Eq(moneypkg.USD)).
					Times(1).
					Return(freshRate, nil)
				repo.EXPECT().
					Initiate(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, errorspkg.ErrInternal)
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
		{
			name:  "OK",
			input: input{userID: userID, amountCents: 50000, idempotencyKey: idempotencyKey},
			buildStubs: func(repo *MockRepo, limits *MockLimitChecker, fx *MockRateLocker) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), gomock.Eq(userID), gomock.Eq(idempotencyKey)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				limits.EXPECT().
					CanDeposit(gomock.Any(), gomock.Eq(userID), gomock.Any()).
					Times(1).
					Return(nil)
				fx.EXPECT().
					LockRate(gomock.Any(), gomock.Eq(moneypkg.KES), gomock.Eq(moneypkg.USD)).
					Times(1).
					Return(freshRate, nil)
				repo.EXPECT().
					Initiate(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.Transaction, msgs []domain.OutboxMessage) (domain.Transaction, error) {
						require.Equal(t, userID, arg.UserID)
						require.Equal(t, domain.KindDeposit, arg.Kind)
						require.Equal(t, int64(50000), arg.Amount.Cents)
						require.Equal(t, moneypkg.KES, arg.Amount.Currency)
						require.Equal(t, idempotencyKey, arg.IdempotencyKey)
						require.Equal(t, domain.StatusCreated, arg.Status)

						require.Len(t, msgs, 1)
						require.Equal(t, domain.TopicDepositInitiated, msgs[0].Topic)
						require.Equal(t, arg.ID.String(), msgs[0].Payload["transaction_id"])
						require.Equal(t, userID, msgs[0].Payload["user_id"])
						require.Equal(t, int64(50000), msgs[0].Payload["amount_kes_cents"])
						require.Equal(t, 0.0076, msgs[0].Payload["rate"])

						return arg, nil
					})
			},
			checkResponse: func(res domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, domain.StatusCreated, res.Status)
				require.Equal(t, now, res.CreatedAt)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			limits := NewMockLimitChecker(ctrl)
			fx := NewMockRateLocker(ctrl)
			service := New(repo, limits, fx, clockpkg.FixedClock{Time: now})

			tc.buildStubs(repo, limits, fx)

			tc.checkResponse(service.Initiate(
				context.Background(),
				tc.input.userID,
				tc.input.amountCents,
				tc.input.idempotencyKey))
		})
	}
}
