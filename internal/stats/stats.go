// Package stats turns a flat transaction ledger into the dashboard views:
// expense totals per category, income/expense per month, net per day and
// top counterparties. Every function is a pure read over the slice it is
// given and re-applies its own kind and date filters, so callers may pass
// either a pre-filtered or a complete owner ledger.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const (
	// UncategorizedLabel buckets expenses whose category is absent or blank.
	UncategorizedLabel = "Uncategorized"
	// UnknownCounterparty buckets transactions whose merchant or source is absent or blank.
	UnknownCounterparty = "Unknown"

	DefaultTopLimit = 10
	MaxTopLimit     = 50

	// AllTime disables the monthly window.
	AllTime = 0

	DayLayout   = "2006-01-02"
	monthLayout = "Jan 2006"
)

// netEpoch is the default lower bound of the net series.
var netEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateRange is an inclusive [From, To] interval.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// MonthRange covers [first of month, first of next month).
func MonthRange(m dto.MonthFilter) DateRange {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: first, To: first.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// DefaultNetRange is used when the caller gives no bounds.
func DefaultNetRange(now time.Time) DateRange {
	return DateRange{From: netEpoch, To: now}
}

// MonthlyWindowStart returns the first day of the month monthsBack-1 months
// before the month containing now.
func MonthlyWindowStart(monthsBack int, now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()-time.Month(monthsBack-1), 1, 0, 0, 0, 0, time.UTC)
}

// CategoryTotals sums expenses per category, optionally within one calendar month.
// Rows are sorted by category name; callers must not depend on that order.
func CategoryTotals(txs []*models.Transaction, month *dto.MonthFilter) []dto.CategoryTotal {
	window := monthWindow(month)

	totals := sums{}
	for _, tx := range txs {
		if tx.Kind != models.KindExpense {
			continue
		}
		if window != nil && !window.Contains(tx.OccurredOn) {
			continue
		}
		totals.add(normalizeLabel(tx.Category, UncategorizedLabel), tx.Amount)
	}

	out := make([]dto.CategoryTotal, 0, len(totals))
	for _, key := range totals.sortedKeys() {
		out = append(out, dto.CategoryTotal{
			Category: key,
			Total:    totals[key].InexactFloat64(),
		})
	}
	return out
}

type monthKey struct {
	year  int
	month time.Month
}

type monthBucket struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

// MonthlyTotals reports income and expense per calendar month from the
// window start onward, oldest first. Months with no transactions are omitted.
func MonthlyTotals(txs []*models.Transaction, monthsBack int, now time.Time) []dto.MonthlyTotal {
	bounded := monthsBack > AllTime
	var start time.Time
	if bounded {
		start = MonthlyWindowStart(monthsBack, now)
	}

	buckets := map[monthKey]*monthBucket{}
	for _, tx := range txs {
		if !tx.Kind.Valid() {
			continue
		}
		if bounded && tx.OccurredOn.Before(start) {
			continue
		}
		day := tx.OccurredOn.UTC()
		key := monthKey{year: day.Year(), month: day.Month()}
		b, ok := buckets[key]
		if !ok {
			b = &monthBucket{}
			buckets[key] = b
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Kind == models.KindIncome {
			b.income = b.income.Add(amount)
		} else {
			b.expense = b.expense.Add(amount)
		}
	}

	keys := make([]monthKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	out := make([]dto.MonthlyTotal, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, dto.MonthlyTotal{
			Label:   time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout),
			Year:    k.year,
			Month:   int(k.month),
			Income:  b.income.InexactFloat64(),
			Expense: b.expense.InexactFloat64(),
		})
	}
	return out
}

// DailyNet returns income minus expense per calendar day inside r, strictly
// ascending by date. It yields per-day deltas only; see Accumulate for the
// running balance.
func DailyNet(txs []*models.Transaction, r DateRange) []dto.NetPoint {
	nets := sums{}
	for _, tx := range txs {
		if !r.Contains(tx.OccurredOn) {
			continue
		}
		day := tx.OccurredOn.UTC().Format(DayLayout)
		switch tx.Kind {
		case models.KindIncome:
			nets.add(day, tx.Amount)
		case models.KindExpense:
			nets.add(day, -tx.Amount)
		}
	}

	// YYYY-MM-DD sorts chronologically as a string.
	out := make([]dto.NetPoint, 0, len(nets))
	for _, day := range nets.sortedKeys() {
		out = append(out, dto.NetPoint{Date: day, Net: nets[day].InexactFloat64()})
	}
	return out
}

// TopCounterparties ranks merchants (expenses) or sources (income) by total,
// highest first with ties broken by name, truncated to the clamped limit.
func TopCounterparties(txs []*models.Transaction, kind models.Kind, month *dto.MonthFilter, limit int) ([]dto.CounterpartyTotal, error) {
	cp, err := CounterpartyFor(kind)
	if err != nil {
		return nil, err
	}
	limit = ClampTopLimit(limit)
	window := monthWindow(month)

	totals := sums{}
	for _, tx := range txs {
		if tx.Kind != kind {
			continue
		}
		if window != nil && !window.Contains(tx.OccurredOn) {
			continue
		}
		totals.add(normalizeLabel(cp.Key(tx), UnknownCounterparty), tx.Amount)
	}

	names := totals.sortedKeys()
	sort.SliceStable(names, func(i, j int) bool {
		return totals[names[i]].GreaterThan(totals[names[j]])
	})
	if len(names) > limit {
		names = names[:limit]
	}

	out := make([]dto.CounterpartyTotal, 0, len(names))
	for _, name := range names {
		out = append(out, dto.CounterpartyTotal{Name: name, Total: totals[name].InexactFloat64()})
	}
	return out, nil
}

// ClampTopLimit applies the default and the upper bound for TopCounterparties.
func ClampTopLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	if limit > MaxTopLimit {
		return MaxTopLimit
	}
	return limit
}

// ---- Helpers ----

func monthWindow(month *dto.MonthFilter) *DateRange {
	if month == nil {
		return nil
	}
	r := MonthRange(*month)
	return &r
}

// normalizeLabel collapses absent, empty and whitespace-only labels into placeholder.
func normalizeLabel(v, placeholder string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return placeholder
	}
	return v
}

type sums map[string]decimal.Decimal

func (s sums) add(key string, amount float64) {
	s[key] = s[key].Add(decimal.NewFromFloat(amount))
}

func (s sums) sortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
