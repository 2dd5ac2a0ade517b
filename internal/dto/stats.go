package dto

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type MonthFilter struct {
	Year  int
	Month time.Month
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type MonthlyTotal struct {
	Label   string  `json:"month"` // e.g. "Jan 2024"
	Year    int     `json:"year"`
	Month   int     `json:"monthNumber"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type NetPoint struct {
	Date string  `json:"date"` // YYYY-MM-DD
	Net  float64 `json:"net"`
}

type BalancePoint struct {
	Date       string  `json:"date"`
	Net        float64 `json:"net"`
	Cumulative float64 `json:"cumulative"`
}

type CounterpartyTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type CategoryTotalsArgs struct {
	Month *MonthFilter
}

type MonthlyTotalsArgs struct {
	MonthsBack int // <= 0 means all time
}

type NetSeriesArgs struct {
	From *time.Time
	To   *time.Time
}

type TopCounterpartiesArgs struct {
	Kind  models.Kind
	Month *MonthFilter
	Limit int
}

type SummaryArgs struct {
	Month      *MonthFilter
	MonthsBack int
}

type StatsSummary struct {
	Categories   []CategoryTotal     `json:"categories"`
	Monthly      []MonthlyTotal      `json:"monthly"`
	Net          []NetPoint          `json:"net"`
	Balance      []BalancePoint      `json:"balance"`
	TopMerchants []CounterpartyTotal `json:"topMerchants"`
	TopSources   []CounterpartyTotal `json:"topSources"`
}
