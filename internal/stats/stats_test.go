package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expense(amount float64, category, merchant string, on time.Time) *models.Transaction {
	return &models.Transaction{Kind: models.KindExpense, Amount: amount, Category: category, Merchant: merchant, OccurredOn: on}
}

func income(amount float64, source string, on time.Time) *models.Transaction {
	return &models.Transaction{Kind: models.KindIncome, Amount: amount, Source: source, OccurredOn: on}
}

func TestCategoryTotalsSumsExpensesOnly(t *testing.T) {
	txs := []*models.Transaction{
		expense(12.5, "Food", "", day(2024, 3, 1)),
		expense(7.5, "Food", "", day(2024, 3, 9)),
		expense(40, "Rent", "", day(2024, 3, 2)),
		income(1000, "Salary", day(2024, 3, 1)),
	}

	got := CategoryTotals(txs, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}

	var sum float64
	byCategory := map[string]float64{}
	for _, row := range got {
		byCategory[row.Category] = row.Total
		sum += row.Total
	}
	if byCategory["Food"] != 20 {
		t.Fatalf("food total mismatch: got %v", byCategory["Food"])
	}
	if byCategory["Rent"] != 40 {
		t.Fatalf("rent total mismatch: got %v", byCategory["Rent"])
	}
	if sum != 60 {
		t.Fatalf("category totals should add up to expenses: got %v", sum)
	}
}

func TestCategoryTotalsMonthFilter(t *testing.T) {
	txs := []*models.Transaction{
		expense(10, "Food", "", day(2024, 2, 29)),
		expense(15, "Food", "", day(2024, 3, 1)),
		expense(5, "Food", "", day(2024, 3, 31)),
		expense(99, "Food", "", day(2024, 4, 1)),
	}

	got := CategoryTotals(txs, &dto.MonthFilter{Year: 2024, Month: time.March})
	if len(got) != 1 || got[0].Total != 20 {
		t.Fatalf("unexpected march totals: %+v", got)
	}
}

func TestCategoryTotalsPlaceholder(t *testing.T) {
	txs := []*models.Transaction{
		expense(1, "", "", day(2024, 1, 1)),
		expense(2, "   ", "", day(2024, 1, 2)),
		expense(4, " Food ", "", day(2024, 1, 3)),
	}

	got := CategoryTotals(txs, nil)
	want := []dto.CategoryTotal{
		{Category: "Food", Total: 4},
		{Category: UncategorizedLabel, Total: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestEmptyInputYieldsEmptyResults(t *testing.T) {
	now := day(2024, 6, 15)

	if got := CategoryTotals(nil, nil); got == nil || len(got) != 0 {
		t.Fatalf("category totals: expected empty slice, got %#v", got)
	}
	if got := MonthlyTotals(nil, 12, now); got == nil || len(got) != 0 {
		t.Fatalf("monthly totals: expected empty slice, got %#v", got)
	}
	if got := DailyNet(nil, DefaultNetRange(now)); got == nil || len(got) != 0 {
		t.Fatalf("daily net: expected empty slice, got %#v", got)
	}
	got, err := TopCounterparties(nil, models.KindExpense, nil, 0)
	if err != nil {
		t.Fatalf("top counterparties error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("top counterparties: expected empty slice, got %#v", got)
	}
}

func TestZeroAmountsAreKept(t *testing.T) {
	txs := []*models.Transaction{expense(0, "Gifts", "Shop", day(2024, 1, 5))}

	cats := CategoryTotals(txs, nil)
	if len(cats) != 1 || cats[0].Total != 0 {
		t.Fatalf("expected zero total row, got %+v", cats)
	}
	net := DailyNet(txs, DefaultNetRange(day(2024, 2, 1)))
	if len(net) != 1 || net[0].Net != 0 {
		t.Fatalf("expected zero net point, got %+v", net)
	}
}

func TestMonthlyTotalsOmitsEmptyMonthsAndOrders(t *testing.T) {
	now := day(2024, 6, 15)
	txs := []*models.Transaction{
		income(3000, "Salary", day(2024, 6, 1)),
		expense(200, "Food", "", day(2024, 6, 3)),
		expense(50, "Food", "", day(2024, 2, 10)),
		income(100, "Gift", day(2024, 2, 11)),
		expense(75, "Food", "", day(2023, 12, 31)),
		expense(10, "Food", "", day(2022, 1, 1)), // outside the 12 month window
	}

	got := MonthlyTotals(txs, 12, now)
	want := []dto.MonthlyTotal{
		{Label: "Dec 2023", Year: 2023, Month: 12, Income: 0, Expense: 75},
		{Label: "Feb 2024", Year: 2024, Month: 2, Income: 100, Expense: 50},
		{Label: "Jun 2024", Year: 2024, Month: 6, Income: 3000, Expense: 200},
	}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestMonthlyTotalsAllTime(t *testing.T) {
	txs := []*models.Transaction{
		expense(10, "Food", "", day(2001, 5, 1)),
		expense(20, "Food", "", day(2024, 5, 1)),
	}
	got := MonthlyTotals(txs, AllTime, day(2024, 6, 1))
	if len(got) != 2 {
		t.Fatalf("expected both months, got %+v", got)
	}
	if got[0].Year != 2001 || got[1].Year != 2024 {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestMonthlyWindowStart(t *testing.T) {
	tests := []struct {
		monthsBack int
		now        time.Time
		want       time.Time
	}{
		{monthsBack: 1, now: day(2024, 6, 15), want: day(2024, 6, 1)},
		{monthsBack: 12, now: day(2024, 6, 15), want: day(2023, 7, 1)},
		{monthsBack: 3, now: day(2024, 1, 31), want: day(2023, 11, 1)},
	}
	for _, tt := range tests {
		if got := MonthlyWindowStart(tt.monthsBack, tt.now); !got.Equal(tt.want) {
			t.Fatalf("MonthlyWindowStart(%d, %s) = %s, want %s", tt.monthsBack, tt.now, got, tt.want)
		}
	}
}

func TestDailyNetAndAccumulate(t *testing.T) {
	txs := []*models.Transaction{
		expense(200, "Food", "", day(2024, 1, 2)),
		income(500, "Salary", day(2024, 1, 1)),
	}
	r := DateRange{From: day(2024, 1, 1), To: day(2024, 1, 31)}

	net := DailyNet(txs, r)
	if len(net) != 2 {
		t.Fatalf("expected 2 points, got %+v", net)
	}
	if net[0] != (dto.NetPoint{Date: "2024-01-01", Net: 500}) {
		t.Fatalf("first point mismatch: %+v", net[0])
	}
	if net[1] != (dto.NetPoint{Date: "2024-01-02", Net: -200}) {
		t.Fatalf("second point mismatch: %+v", net[1])
	}

	balance := Accumulate(net)
	if balance[0].Cumulative != 500 || balance[1].Cumulative != 300 {
		t.Fatalf("cumulative mismatch: %+v", balance)
	}
}

func TestDailyNetMergesSameDayAndIsStrictlyAscending(t *testing.T) {
	txs := []*models.Transaction{
		income(10, "A", day(2024, 3, 5)),
		expense(4, "Food", "", day(2024, 3, 5)),
		expense(1, "Food", "", day(2024, 2, 28)),
		income(7, "B", day(2024, 3, 1)),
		expense(3, "Food", "", day(2023, 12, 31)), // before range
	}
	r := DateRange{From: day(2024, 1, 1), To: day(2024, 3, 5)}

	net := DailyNet(txs, r)
	if len(net) != 3 {
		t.Fatalf("expected 3 days, got %+v", net)
	}
	for i := 1; i < len(net); i++ {
		if net[i-1].Date >= net[i].Date {
			t.Fatalf("dates not strictly ascending: %+v", net)
		}
	}
	if net[2].Date != "2024-03-05" || net[2].Net != 6 {
		t.Fatalf("same day points should merge: %+v", net[2])
	}
}

func TestDailyNetDecimalSums(t *testing.T) {
	txs := []*models.Transaction{
		income(0.1, "A", day(2024, 3, 5)),
		income(0.2, "B", day(2024, 3, 5)),
	}
	net := DailyNet(txs, DefaultNetRange(day(2024, 4, 1)))
	if len(net) != 1 || net[0].Net != 0.3 {
		t.Fatalf("expected exact 0.3, got %+v", net)
	}
}

func TestTopCounterparties(t *testing.T) {
	txs := []*models.Transaction{
		expense(30, "Food", "Grocer", day(2024, 3, 1)),
		expense(20, "Food", "Grocer", day(2024, 3, 2)),
		expense(50, "Fun", "Cinema", day(2024, 3, 3)),
		expense(10, "Fun", "", day(2024, 3, 4)),
		expense(5, "Fun", "Arcade", day(2024, 3, 5)),
		income(900, "Employer", day(2024, 3, 1)),
	}

	got, err := TopCounterparties(txs, models.KindExpense, nil, 3)
	if err != nil {
		t.Fatalf("TopCounterparties error: %v", err)
	}
	want := []dto.CounterpartyTotal{
		{Name: "Cinema", Total: 50},
		{Name: "Grocer", Total: 50},
		{Name: UnknownCounterparty, Total: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
	}

	sources, err := TopCounterparties(txs, models.KindIncome, nil, 0)
	if err != nil {
		t.Fatalf("TopCounterparties error: %v", err)
	}
	if len(sources) != 1 || sources[0].Name != "Employer" {
		t.Fatalf("income should group by source: %+v", sources)
	}
}

func TestTopCounterpartiesMonthAndLimit(t *testing.T) {
	var txs []*models.Transaction
	for i := 0; i < 60; i++ {
		txs = append(txs, expense(float64(i+1), "Misc", "m"+time.Month(i%12+1).String()+string(rune('a'+i/12)), day(2024, 5, 1)))
	}
	txs = append(txs, expense(1000, "Misc", "Other", day(2024, 4, 30)))

	got, err := TopCounterparties(txs, models.KindExpense, &dto.MonthFilter{Year: 2024, Month: time.May}, 500)
	if err != nil {
		t.Fatalf("TopCounterparties error: %v", err)
	}
	if len(got) != MaxTopLimit {
		t.Fatalf("expected clamp to %d, got %d", MaxTopLimit, len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Total < got[i].Total {
			t.Fatalf("not sorted descending at %d: %+v", i, got)
		}
	}
	for _, row := range got {
		if row.Name == "Other" {
			t.Fatalf("april transaction leaked into may")
		}
	}
}

func TestTopCounterpartiesRejectsUnknownKind(t *testing.T) {
	_, err := TopCounterparties(nil, models.Kind("transfer"), nil, 10)
	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClampTopLimit(t *testing.T) {
	tests := map[int]int{-1: DefaultTopLimit, 0: DefaultTopLimit, 1: 1, 50: 50, 51: MaxTopLimit}
	for in, want := range tests {
		if got := ClampTopLimit(in); got != want {
			t.Fatalf("ClampTopLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
