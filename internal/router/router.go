package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/finance-tracker/internal/handlers"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	ah := handlers.NewAuthHandlers(deps)
	th := handlers.NewTransactionHandlers(deps)
	sh := handlers.NewStatsHandlers(deps)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", ah.AuthRoutes(deps.Auth.BearerAuth))

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.BearerAuth)
			r.Mount("/transactions", th.TransactionRoutes())
			r.Mount("/stats", sh.StatsRoutes())
		})
	})
	return r
}
