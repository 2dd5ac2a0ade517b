package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	UserSvc         userService
	TransactionSvc  transactionService
	AnalyticsSvc    analyticsService
	Auth            *middleware.Middleware
}
