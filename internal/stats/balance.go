package stats

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
)

// RunningBalance is the caller-side scan over a DailyNet series.
// The zero value starts at a balance of 0.
type RunningBalance struct {
	total decimal.Decimal
}

func (b *RunningBalance) Add(p dto.NetPoint) dto.BalancePoint {
	b.total = b.total.Add(decimal.NewFromFloat(p.Net))
	return dto.BalancePoint{Date: p.Date, Net: p.Net, Cumulative: b.total.InexactFloat64()}
}

// Accumulate runs a fresh RunningBalance over points in order.
func Accumulate(points []dto.NetPoint) []dto.BalancePoint {
	var b RunningBalance
	out := make([]dto.BalancePoint, 0, len(points))
	for _, p := range points {
		out = append(out, b.Add(p))
	}
	return out
}
