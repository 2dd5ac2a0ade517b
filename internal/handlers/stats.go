package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/query"
	"github.com/GregMSThompson/finance-tracker/internal/response"
	"github.com/GregMSThompson/finance-tracker/internal/stats"
)

const defaultMonthsBack = 12

type analyticsService interface {
	GetCategoryTotals(ctx context.Context, uid string, args dto.CategoryTotalsArgs) ([]dto.CategoryTotal, error)
	GetMonthlyTotals(ctx context.Context, uid string, args dto.MonthlyTotalsArgs) ([]dto.MonthlyTotal, error)
	GetNetSeries(ctx context.Context, uid string, args dto.NetSeriesArgs) ([]dto.NetPoint, error)
	GetTopCounterparties(ctx context.Context, uid string, args dto.TopCounterpartiesArgs) ([]dto.CounterpartyTotal, error)
	GetSummary(ctx context.Context, uid string, args dto.SummaryArgs) (dto.StatsSummary, error)
}

type statsHandlers struct {
	ResponseHandler response.ResponseHandler
	AnalyticsSvc    analyticsService
}

func NewStatsHandlers(deps *Deps) *statsHandlers {
	return &statsHandlers{
		ResponseHandler: deps.ResponseHandler,
		AnalyticsSvc:    deps.AnalyticsSvc,
	}
}

func (h *statsHandlers) StatsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/category", h.CategoryTotals)
	r.Get("/monthly", h.MonthlyTotals)
	r.Get("/net", h.NetSeries)
	r.Get("/top-merchants", h.TopCounterparties)
	r.Get("/summary", h.Summary)
	return r
}

func (h *statsHandlers) CategoryTotals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, err := query.ParseMonth(q.Get("month"), q.Get("year"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	out, err := h.AnalyticsSvc.GetCategoryTotals(r.Context(), uid, dto.CategoryTotalsArgs{Month: month})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, out)
}

func (h *statsHandlers) MonthlyTotals(w http.ResponseWriter, r *http.Request) {
	monthsBack, err := parseMonthsBack(r.URL.Query().Get("months"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	out, err := h.AnalyticsSvc.GetMonthlyTotals(r.Context(), uid, dto.MonthlyTotalsArgs{MonthsBack: monthsBack})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, out)
}

func (h *statsHandlers) NetSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := query.ParseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	out, err := h.AnalyticsSvc.GetNetSeries(r.Context(), uid, dto.NetSeriesArgs{From: from, To: to})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, out)
}

// TopCounterparties groups by merchant for expenses (the default) and by
// source for income. "type" is accepted as an alias of "kind".
func (h *statsHandlers) TopCounterparties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := models.Kind(firstOf(q.Get("kind"), q.Get("type"), string(models.KindExpense)))

	month, err := query.ParseMonth(q.Get("month"), q.Get("year"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	limit, err := parseOptionalInt("limit", q.Get("limit"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	out, err := h.AnalyticsSvc.GetTopCounterparties(r.Context(), uid, dto.TopCounterpartiesArgs{
		Kind:  kind,
		Month: month,
		Limit: limit,
	})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, out)
}

func (h *statsHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, err := query.ParseMonth(q.Get("month"), q.Get("year"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	monthsBack, err := parseMonthsBack(q.Get("months"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	out, err := h.AnalyticsSvc.GetSummary(r.Context(), uid, dto.SummaryArgs{Month: month, MonthsBack: monthsBack})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, out)
}

// parseMonthsBack maps "" to the default window and "all" (or any value <= 0)
// to all time.
func parseMonthsBack(v string) (int, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return defaultMonthsBack, nil
	case strings.EqualFold(v, "all"):
		return stats.AllTime, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.NewValidationError(fmt.Sprintf("invalid months: %q", v))
	}
	if n <= 0 {
		return stats.AllTime, nil
	}
	return n, nil
}

func parseOptionalInt(name, v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.NewValidationError(fmt.Sprintf("invalid %s: %q", name, v))
	}
	return n, nil
}
