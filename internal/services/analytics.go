package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/query"
	"github.com/GregMSThompson/finance-tracker/internal/stats"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type transactionAnalyticsStore interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

// analyticsService pushes owner, kind and date predicates down to the store
// and hands the materialized result to the stats engine. Store failures are
// returned, never reported as an empty result.
type analyticsService struct {
	txs      transactionAnalyticsStore
	clockNow func() time.Time
}

func NewAnalyticsService(txs transactionAnalyticsStore) *analyticsService {
	return &analyticsService{txs: txs, clockNow: time.Now}
}

func (s *analyticsService) GetCategoryTotals(ctx context.Context, uid string, args dto.CategoryTotalsArgs) ([]dto.CategoryTotal, error) {
	q := monthQuery(args.Month)
	q.Kind = helpers.Ptr(models.KindExpense)

	txs, err := s.collect(ctx, uid, q)
	if err != nil {
		return nil, err
	}
	return stats.CategoryTotals(txs, args.Month), nil
}

func (s *analyticsService) GetMonthlyTotals(ctx context.Context, uid string, args dto.MonthlyTotalsArgs) ([]dto.MonthlyTotal, error) {
	now := s.clockNow()

	var q dto.TransactionQuery
	if args.MonthsBack > stats.AllTime {
		q.DateFrom = helpers.Ptr(stats.MonthlyWindowStart(args.MonthsBack, now))
	}

	txs, err := s.collect(ctx, uid, q)
	if err != nil {
		return nil, err
	}
	return stats.MonthlyTotals(txs, args.MonthsBack, now), nil
}

// GetNetSeries returns per-day deltas only. The running balance is left to
// the caller (see stats.Accumulate).
func (s *analyticsService) GetNetSeries(ctx context.Context, uid string, args dto.NetSeriesArgs) ([]dto.NetPoint, error) {
	r := stats.DefaultNetRange(s.clockNow())
	r.From = helpers.ValueOr(args.From, r.From)
	r.To = helpers.ValueOr(args.To, r.To)

	txs, err := s.collect(ctx, uid, dto.TransactionQuery{DateFrom: &r.From, DateTo: &r.To})
	if err != nil {
		return nil, err
	}
	return stats.DailyNet(txs, r), nil
}

func (s *analyticsService) GetTopCounterparties(ctx context.Context, uid string, args dto.TopCounterpartiesArgs) ([]dto.CounterpartyTotal, error) {
	if _, err := stats.CounterpartyFor(args.Kind); err != nil {
		return nil, err
	}

	q := monthQuery(args.Month)
	q.Kind = helpers.Ptr(args.Kind)

	txs, err := s.collect(ctx, uid, q)
	if err != nil {
		return nil, err
	}
	return stats.TopCounterparties(txs, args.Kind, args.Month, args.Limit)
}

// GetSummary assembles the dashboard payload. The month filter, when given,
// applies to categories, counterparties and the net series.
func (s *analyticsService) GetSummary(ctx context.Context, uid string, args dto.SummaryArgs) (dto.StatsSummary, error) {
	var out dto.StatsSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.Categories, err = s.GetCategoryTotals(gctx, uid, dto.CategoryTotalsArgs{Month: args.Month})
		return err
	})
	g.Go(func() error {
		var err error
		out.Monthly, err = s.GetMonthlyTotals(gctx, uid, dto.MonthlyTotalsArgs{MonthsBack: args.MonthsBack})
		return err
	})
	g.Go(func() error {
		var netArgs dto.NetSeriesArgs
		if args.Month != nil {
			from, to := query.MonthBounds(*args.Month)
			netArgs = dto.NetSeriesArgs{From: &from, To: &to}
		}
		var err error
		out.Net, err = s.GetNetSeries(gctx, uid, netArgs)
		return err
	})
	g.Go(func() error {
		var err error
		out.TopMerchants, err = s.GetTopCounterparties(gctx, uid, dto.TopCounterpartiesArgs{Kind: models.KindExpense, Month: args.Month})
		return err
	})
	g.Go(func() error {
		var err error
		out.TopSources, err = s.GetTopCounterparties(gctx, uid, dto.TopCounterpartiesArgs{Kind: models.KindIncome, Month: args.Month})
		return err
	})

	if err := g.Wait(); err != nil {
		return dto.StatsSummary{}, err
	}
	out.Balance = stats.Accumulate(out.Net)
	return out, nil
}

// ---- Helpers ----

func (s *analyticsService) collect(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.Transaction, error) {
	txs := []*models.Transaction{}
	err := s.txs.Query(ctx, uid, q, func(tx *models.Transaction) error {
		txs = append(txs, tx)
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to load transactions for stats", "error", err)
		return nil, err
	}
	if logger.IsDebugEnabled(ctx) {
		logger.FromContext(ctx).Debug("loaded transactions for stats", "count", len(txs))
	}
	return txs, nil
}

func monthQuery(month *dto.MonthFilter) dto.TransactionQuery {
	var q dto.TransactionQuery
	if month != nil {
		from, to := query.MonthBounds(*month)
		q.DateFrom, q.DateTo = &from, &to
	}
	return q
}
