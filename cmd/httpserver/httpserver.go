// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pesa-bridge/internal/depositservice"
	"github.com/go-petr/pesa-bridge/internal/fxservice"
	"github.com/go-petr/pesa-bridge/internal/limitrepo"
	"github.com/go-petr/pesa-bridge/internal/limitservice"
	"github.com/go-petr/pesa-bridge/internal/middleware"
	"github.com/go-petr/pesa-bridge/internal/secretrepo"
	"github.com/go-petr/pesa-bridge/internal/settlementservice"
	"github.com/go-petr/pesa-bridge/internal/transactiondelivery"
	"github.com/go-petr/pesa-bridge/internal/transactionrepo"
	"github.com/go-petr/pesa-bridge/internal/withdrawalservice"
	"github.com/go-petr/pesa-bridge/pkg/clockpkg"
	"github.com/go-petr/pesa-bridge/pkg/configpkg"
	"github.com/go-petr/pesa-bridge/pkg/moneypkg"
	"github.com/go-petr/pesa-bridge/pkg/secretpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB         *sql.DB
	Engine     *gin.Engine
	Config     configpkg.Config
	Settlement *settlementservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	clock := clockpkg.RealClock{}

	cipher, err := secretpkg.NewCipher(config.SecretCipherKey)
	if err != nil {
		return nil, errors.New("cannot create secret cipher")
	}

	depositLimit, err := moneypkg.New(config.DepositDailyLimitCents, moneypkg.KES)
	if err != nil {
		return nil, errors.New("invalid deposit daily limit")
	}

	withdrawalLimit, err := moneypkg.New(config.WithdrawalDailyLimitCents, moneypkg.USD)
	if err != nil {
		return nil, errors.New("invalid withdrawal daily limit")
	}

	transactionRepo := transactionrepo.NewRepoPGS(conn)
	secretRepo := secretrepo.NewRepoPGS(conn, clock)
	limitPolicy := limitrepo.NewPolicyPGS(conn, limitrepo.Defaults{
		Deposit:    depositLimit,
		Withdrawal: withdrawalLimit,
	})

	fxProvider := fxservice.NewStaticProvider(map[string]float64{
		fxservice.PairKey(moneypkg.KES, moneypkg.USD): config.FXRateKESUSD,
		fxservice.PairKey(moneypkg.USD, moneypkg.KES): config.FXRateUSDKES,
	})

	fxService := fxservice.New(fxProvider, clock, config.FXLockTTL)
	limitChecker := limitservice.New(limitPolicy, clock)
	depositService := depositservice.New(transactionRepo, limitChecker, fxService, clock)
	withdrawalService := withdrawalservice.New(
		transactionRepo, limitChecker, fxService,
		secretRepo, cipher, config.SecretTTL, clock,
	)
	settlementService := settlementservice.New(transactionRepo, secretRepo, limitPolicy, cipher, clock)

	transactionHandler := transactiondelivery.NewHandler(depositService, withdrawalService, transactionRepo)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/deposits", transactionHandler.InitiateDeposit)
	engine.POST("/withdrawals", transactionHandler.ConfirmWithdrawal)
	engine.GET("/transactions/:id", transactionHandler.Get)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", moneypkg.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	server := &Server{
		DB:         conn,
		Engine:     engine,
		Config:     config,
		Settlement: settlementService,
	}

	return server, nil
}
