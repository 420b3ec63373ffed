package aggregate

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/model"
)

// TrendDays is the length of the trend series.
const TrendDays = 7

// TrendPoint is one day of a trend series.
type TrendPoint struct {
	Label string // weekday short name, e.g. "Mon"
	Date  civil.Date
	Value decimal.Decimal
}

// WeeklyTrend sums each of the seven days ending at rangeEnd, oldest first.
// It anchors to the end of the selected range, not today. txs should already
// be scoped to one wallet. An empty typeFilter sums both types.
func (e Engine) WeeklyTrend(txs []model.Transaction, rangeEnd civil.Date, typeFilter model.TxType) []TrendPoint {
	points := make([]TrendPoint, TrendDays)
	byDate := make(map[civil.Date]int, TrendDays)
	for i := 0; i < TrendDays; i++ {
		d := rangeEnd.AddDays(i - (TrendDays - 1))
		points[i] = TrendPoint{
			Label: d.In(e.location()).Weekday().String()[:3],
			Date:  d,
			Value: decimal.Zero,
		}
		byDate[d] = i
	}

	for _, tx := range txs {
		if typeFilter != "" && tx.Type != typeFilter {
			continue
		}
		i, ok := byDate[e.dateOf(tx)]
		if !ok {
			continue
		}
		points[i].Value = points[i].Value.Add(tx.Amount)
	}
	return points
}
