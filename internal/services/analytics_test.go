package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

type fakeAnalyticsStore struct {
	mu        sync.Mutex
	txs       []*models.Transaction
	err       error
	lastUID   string
	lastQuery dto.TransactionQuery
	calls     int
}

func (f *fakeAnalyticsStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	f.mu.Lock()
	f.lastUID = uid
	f.lastQuery = q
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	for _, tx := range f.txs {
		if err := handle(tx); err != nil {
			return err
		}
	}
	return nil
}

func newAnalytics(store *fakeAnalyticsStore) *analyticsService {
	svc := NewAnalyticsService(store)
	svc.clockNow = func() time.Time { return fixedNow }
	return svc
}

func on(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAnalyticsCategoryTotalsPushesPredicates(t *testing.T) {
	store := &fakeAnalyticsStore{
		txs: []*models.Transaction{
			{Kind: models.KindExpense, Amount: 10, Category: "Food", OccurredOn: on(2024, 3, 1)},
			{Kind: models.KindExpense, Amount: 5, OccurredOn: on(2024, 3, 2)},
		},
	}
	svc := newAnalytics(store)

	got, err := svc.GetCategoryTotals(helpers.TestCtx(), "alice", dto.CategoryTotalsArgs{
		Month: &dto.MonthFilter{Year: 2024, Month: time.March},
	})
	if err != nil {
		t.Fatalf("GetCategoryTotals error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %+v", got)
	}

	if store.lastUID != "alice" {
		t.Fatalf("uid mismatch: %q", store.lastUID)
	}
	q := store.lastQuery
	if q.Kind == nil || *q.Kind != models.KindExpense {
		t.Fatalf("kind should be pushed down: %+v", q)
	}
	if q.DateFrom == nil || !q.DateFrom.Equal(on(2024, 3, 1)) || q.DateTo == nil || !q.DateTo.Before(on(2024, 4, 1)) {
		t.Fatalf("month range should be pushed down: %+v", q)
	}
}

func TestAnalyticsMonthlyWindow(t *testing.T) {
	store := &fakeAnalyticsStore{
		txs: []*models.Transaction{
			{Kind: models.KindIncome, Amount: 100, OccurredOn: on(2024, 6, 1)},
			{Kind: models.KindExpense, Amount: 40, OccurredOn: on(2024, 5, 20)},
		},
	}
	svc := newAnalytics(store)

	got, err := svc.GetMonthlyTotals(helpers.TestCtx(), "alice", dto.MonthlyTotalsArgs{MonthsBack: 6})
	if err != nil {
		t.Fatalf("GetMonthlyTotals error: %v", err)
	}
	if len(got) != 2 || got[0].Label != "May 2024" || got[1].Income != 100 {
		t.Fatalf("unexpected monthly totals: %+v", got)
	}
	if store.lastQuery.DateFrom == nil || !store.lastQuery.DateFrom.Equal(on(2024, 1, 1)) {
		t.Fatalf("window start mismatch: %v", store.lastQuery.DateFrom)
	}

	if _, err := svc.GetMonthlyTotals(helpers.TestCtx(), "alice", dto.MonthlyTotalsArgs{MonthsBack: 0}); err != nil {
		t.Fatalf("GetMonthlyTotals error: %v", err)
	}
	if store.lastQuery.DateFrom != nil {
		t.Fatalf("all time should not bound the query: %v", store.lastQuery.DateFrom)
	}
}

func TestAnalyticsNetSeriesDefaults(t *testing.T) {
	store := &fakeAnalyticsStore{
		txs: []*models.Transaction{
			{Kind: models.KindIncome, Amount: 500, OccurredOn: on(2024, 1, 1)},
			{Kind: models.KindExpense, Amount: 200, OccurredOn: on(2024, 1, 2)},
		},
	}
	svc := newAnalytics(store)

	got, err := svc.GetNetSeries(helpers.TestCtx(), "alice", dto.NetSeriesArgs{})
	if err != nil {
		t.Fatalf("GetNetSeries error: %v", err)
	}
	if len(got) != 2 || got[0].Net != 500 || got[1].Net != -200 {
		t.Fatalf("unexpected net series: %+v", got)
	}
	if !store.lastQuery.DateFrom.Equal(on(2000, 1, 1)) || !store.lastQuery.DateTo.Equal(fixedNow) {
		t.Fatalf("default range mismatch: %s - %s", store.lastQuery.DateFrom, store.lastQuery.DateTo)
	}
}

func TestAnalyticsTopCounterparties(t *testing.T) {
	store := &fakeAnalyticsStore{
		txs: []*models.Transaction{
			{Kind: models.KindIncome, Amount: 900, Source: "Employer", OccurredOn: on(2024, 3, 1)},
			{Kind: models.KindIncome, Amount: 50, Source: "Side gig", OccurredOn: on(2024, 3, 5)},
		},
	}
	svc := newAnalytics(store)

	got, err := svc.GetTopCounterparties(helpers.TestCtx(), "alice", dto.TopCounterpartiesArgs{Kind: models.KindIncome, Limit: 1})
	if err != nil {
		t.Fatalf("GetTopCounterparties error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Employer" {
		t.Fatalf("unexpected top sources: %+v", got)
	}
	if store.lastQuery.Kind == nil || *store.lastQuery.Kind != models.KindIncome {
		t.Fatalf("kind should be pushed down")
	}
}

func TestAnalyticsRejectsInvalidKindBeforeStore(t *testing.T) {
	store := &fakeAnalyticsStore{}
	svc := newAnalytics(store)

	_, err := svc.GetTopCounterparties(helpers.TestCtx(), "alice", dto.TopCounterpartiesArgs{Kind: "transfer"})
	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store should not be queried")
	}
}

func TestAnalyticsPropagatesStoreFailure(t *testing.T) {
	dbErr := errs.NewDatabaseError("read", "failed to query transactions", errors.New("unavailable"))
	svc := newAnalytics(&fakeAnalyticsStore{err: dbErr})
	ctx := helpers.TestCtx()

	if got, err := svc.GetCategoryTotals(ctx, "alice", dto.CategoryTotalsArgs{}); !errors.Is(err, dbErr) || got != nil {
		t.Fatalf("category totals: expected store error, got %v %v", got, err)
	}
	if _, err := svc.GetMonthlyTotals(ctx, "alice", dto.MonthlyTotalsArgs{MonthsBack: 12}); !errors.Is(err, dbErr) {
		t.Fatalf("monthly totals: expected store error, got %v", err)
	}
	if _, err := svc.GetNetSeries(ctx, "alice", dto.NetSeriesArgs{}); !errors.Is(err, dbErr) {
		t.Fatalf("net series: expected store error, got %v", err)
	}
	if _, err := svc.GetTopCounterparties(ctx, "alice", dto.TopCounterpartiesArgs{Kind: models.KindExpense}); !errors.Is(err, dbErr) {
		t.Fatalf("top counterparties: expected store error, got %v", err)
	}
	if _, err := svc.GetSummary(ctx, "alice", dto.SummaryArgs{MonthsBack: 12}); !errors.Is(err, dbErr) {
		t.Fatalf("summary: expected store error, got %v", err)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	store := &fakeAnalyticsStore{
		txs: []*models.Transaction{
			{Kind: models.KindIncome, Amount: 500, Source: "Employer", OccurredOn: on(2024, 1, 1)},
			{Kind: models.KindExpense, Amount: 200, Category: "Rent", Merchant: "Landlord", OccurredOn: on(2024, 1, 2)},
		},
	}
	svc := newAnalytics(store)

	got, err := svc.GetSummary(helpers.TestCtx(), "alice", dto.SummaryArgs{
		Month:      &dto.MonthFilter{Year: 2024, Month: time.January},
		MonthsBack: 12,
	})
	if err != nil {
		t.Fatalf("GetSummary error: %v", err)
	}
	if store.calls != 5 {
		t.Fatalf("expected 5 store queries, got %d", store.calls)
	}
	if len(got.Categories) != 1 || got.Categories[0].Total != 200 {
		t.Fatalf("categories mismatch: %+v", got.Categories)
	}
	if len(got.Monthly) != 1 || got.Monthly[0].Income != 500 || got.Monthly[0].Expense != 200 {
		t.Fatalf("monthly mismatch: %+v", got.Monthly)
	}
	if len(got.Balance) != 2 || got.Balance[0].Cumulative != 500 || got.Balance[1].Cumulative != 300 {
		t.Fatalf("balance mismatch: %+v", got.Balance)
	}
	if len(got.TopMerchants) != 1 || got.TopMerchants[0].Name != "Landlord" {
		t.Fatalf("top merchants mismatch: %+v", got.TopMerchants)
	}
	if len(got.TopSources) != 1 || got.TopSources[0].Name != "Employer" {
		t.Fatalf("top sources mismatch: %+v", got.TopSources)
	}
}
