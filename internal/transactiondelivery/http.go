// Package transactiondelivery manages delivery layer of payment transactions.
package transactiondelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/domain"
	"github.com/go-petr/pesa-bridge/pkg/errorspkg"
	"github.com/go-petr/pesa-bridge/pkg/jsonresponse"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
)

// Headers set by the upstream gateway; authentication itself lives there.
const (
	HeaderUserID         = "X-User-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// DepositService provides service layer interface needed by deposit delivery.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type DepositService interface {
	Initiate(ctx context.Context, userID string, amountCents int64, idempotencyKey string) (domain.Transaction, error)
}

// WithdrawalService provides service layer interface needed by withdrawal delivery.
type WithdrawalService interface {
	Confirm(ctx context.Context, userID string, amountCents int64, verificationCode, idempotencyKey string) (domain.Transaction, error)
}

// TransactionGetter provides the status lookup callers poll.
type TransactionGetter interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	deposits     DepositService
	withdrawals  WithdrawalService
	transactions TransactionGetter
}

// NewHandler returns transaction handler.
func NewHandler(ds DepositService, ws WithdrawalService, tg TransactionGetter) *Handler {
	return &Handler{
		deposits:     ds,
		withdrawals:  ws,
		transactions: tg,
	}
}

type depositRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
	Currency    string `json:"currency" binding:"omitempty,currency"`
}

type withdrawalRequest struct {
	AmountCents      int64  `json:"amount_cents" binding:"required,min=1"`
	Currency         string `json:"currency" binding:"omitempty,currency"`
	VerificationCode string `json:"verification_code" binding:"required"`
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// InitiateDeposit handles http request to initiate a mobile-money deposit.
func (h *Handler) InitiateDeposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	userID, idempotencyKey, ok := commandHeaders(gctx)
	if !ok {
		return
	}

	var req depositRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	if req.Currency != "" && req.Currency != string(moneypkg.KES) {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(moneypkg.ErrCurrencyMismatch))

		return
	}

	result, err := h.deposits.Initiate(ctx, userID, req.AmountCents, idempotencyKey)
	if err != nil {
		writeServiceError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{result}})
}

// ConfirmWithdrawal handles http request to confirm a withdrawal
// to the mobile-money rail.
func (h *Handler) ConfirmWithdrawal(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	userID, idempotencyKey, ok := commandHeaders(gctx)
	if !ok {
		return
	}

	var req withdrawalRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	if req.Currency != "" && req.Currency != string(moneypkg.USD) {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(moneypkg.ErrCurrencyMismatch))

		return
	}

	result, err := h.withdrawals.Confirm(ctx, userID, req.AmountCents, req.VerificationCode, idempotencyKey)
	if err != nil {
		writeServiceError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{result}})
}

// Get handles http request to poll a transaction's status.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	id, err := uuid.Parse(gctx.Param("id"))
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	result, err := h.transactions.Get(ctx, id)
	if err != nil {
		writeServiceError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{result}})
}

func commandHeaders(gctx *gin.Context) (userID, idempotencyKey string, ok bool) {
	userID = gctx.GetHeader(HeaderUserID)
	if userID == "" {
		gctx.JSON(http.StatusUnauthorized, jsonresponse.Error(domain.ErrInvalidUserID))

		return "", "", false
	}

	idempotencyKey = gctx.GetHeader(HeaderIdempotencyKey)
	if idempotencyKey == "" {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(domain.ErrInvalidIdempotencyKey))

		return "", "", false
	}

	return userID, idempotencyKey, true
}

func writeServiceError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())
	l.Info().Err(err).Send()

	switch err {
	case
		moneypkg.ErrInvalidAmount,
		moneypkg.ErrCurrencyMismatch,
		moneypkg.ErrInsufficientFunds,
		domain.ErrInvalidIdempotencyKey,
		domain.ErrInvalidUserID,
		domain.ErrVerificationFailed:
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	case domain.ErrIdempotencyKeyCollision:
		gctx.JSON(http.StatusConflict, jsonresponse.Error(err))

		return
	case domain.ErrLimitExceeded, domain.ErrInsufficientBalance:
		gctx.JSON(http.StatusUnprocessableEntity, jsonresponse.Error(err))

		return
	case domain.ErrTransactionNotFound:
		gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))

		return
	case domain.ErrExternalServiceUnavailable:
		gctx.JSON(http.StatusServiceUnavailable, jsonresponse.Error(err))

		return
	}

	gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))
}
