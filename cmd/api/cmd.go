package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/finance-tracker/internal/bootstrap"
	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/crypto"
	"github.com/GregMSThompson/finance-tracker/internal/handlers"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/response"
	"github.com/GregMSThompson/finance-tracker/internal/router"
	"github.com/GregMSThompson/finance-tracker/internal/services"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	hasher := crypto.NewPasswordHasher(crypto.DefaultBcryptCost)
	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// stores
	tstore := bs.Stores.Transactions
	ustore := bs.Stores.Users

	// services
	userv := services.NewUserService(ustore, hasher, tokens)
	tserv := services.NewTransactionService(tstore)
	anserv := services.NewAnalyticsService(tstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.UserSvc = userv
	deps.TransactionSvc = tserv
	deps.AnalyticsSvc = anserv
	deps.Auth = middleware.NewMiddleware(tokens, rh)

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
