package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletbook/walletbook/internal/model"
)

func TestWeeklyTrend(t *testing.T) {
	txs := []model.Transaction{
		tx("1", "main", model.TypeExpense, "10", at(2024, 3, 15, 8)),
		tx("2", "main", model.TypeExpense, "5", at(2024, 3, 15, 20)),
		tx("3", "main", model.TypeExpense, "7", at(2024, 3, 9, 12)),
		tx("4", "main", model.TypeIncome, "100", at(2024, 3, 12, 12)),
		tx("5", "main", model.TypeExpense, "99", at(2024, 3, 8, 12)),  // outside window
		tx("6", "main", model.TypeExpense, "99", at(2024, 3, 16, 12)), // after range end
	}

	got := utc.WeeklyTrend(txs, day(2024, 3, 15), model.TypeExpense)
	require.Len(t, got, TrendDays)

	assert.Equal(t, day(2024, 3, 9), got[0].Date)
	assert.Equal(t, day(2024, 3, 15), got[6].Date)
	assert.Equal(t, []string{"Sat", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}, labels(got))

	assert.Equal(t, "7", got[0].Value.String())
	assert.Equal(t, "15", got[6].Value.String())
	assert.True(t, got[3].Value.IsZero(), "income filtered out")
}

func TestWeeklyTrend_AnchorsToRangeEnd(t *testing.T) {
	txs := []model.Transaction{tx("1", "main", model.TypeIncome, "50", at(2021, 6, 1, 12))}

	got := utc.WeeklyTrend(txs, day(2021, 6, 3), model.TypeIncome)
	assert.Equal(t, "50", got[4].Value.String())
	assert.Equal(t, day(2021, 6, 1), got[4].Date)
}

func TestWeeklyTrend_Empty(t *testing.T) {
	got := utc.WeeklyTrend(nil, day(2024, 1, 1), "")
	require.Len(t, got, TrendDays)
	for _, p := range got {
		assert.True(t, p.Value.IsZero())
	}
}

func TestWeeklyTrend_NoFilterSumsBothTypes(t *testing.T) {
	txs := []model.Transaction{
		tx("1", "main", model.TypeIncome, "3", at(2024, 3, 15, 1)),
		tx("2", "main", model.TypeExpense, "4", at(2024, 3, 15, 2)),
	}
	got := New(time.UTC).WeeklyTrend(txs, day(2024, 3, 15), "")
	assert.Equal(t, "7", got[6].Value.String())
}

func labels(points []TrendPoint) []string {
	var out []string
	for _, p := range points {
		out = append(out, p.Label)
	}
	return out
}
