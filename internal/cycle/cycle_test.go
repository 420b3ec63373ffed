package cycle

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestComputeRange_Examples(t *testing.T) {
	tests := []struct {
		name      string
		startDay  int
		ref       civil.Date
		wantStart string
		wantEnd   string
	}{
		{"before start day", 28, day(2024, 3, 15), "2024-02-28", "2024-03-27"},
		{"after start day", 28, day(2024, 3, 30), "2024-03-28", "2024-04-27"},
		{"on start day", 28, day(2024, 3, 28), "2024-03-28", "2024-04-27"},
		{"day before start", 28, day(2024, 3, 27), "2024-02-28", "2024-03-27"},
		{"first of month", 1, day(2024, 3, 15), "2024-03-01", "2024-03-31"},
		{"year rollover back", 15, day(2024, 1, 3), "2023-12-15", "2024-01-14"},
		{"year rollover forward", 15, day(2024, 12, 20), "2024-12-15", "2025-01-14"},
		{"31 in leap february", 31, day(2024, 2, 15), "2024-01-31", "2024-03-01"},
		{"30 rolls past february", 30, day(2023, 3, 10), "2023-03-02", "2023-03-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ComputeRange(tt.startDay, tt.ref)
			assert.Equal(t, tt.wantStart, r.Start.String())
			assert.Equal(t, tt.wantEnd, r.End.String())
		})
	}
}

func TestComputeRange_Invariants(t *testing.T) {
	ref := day(2023, 1, 1)
	for i := 0; i < 3*366; i++ {
		for startDay := 1; startDay <= 28; startDay++ {
			r := ComputeRange(startDay, ref)

			require.True(t, r.Contains(ref), "start=%d ref=%s range=%s", startDay, ref, r)

			next := civil.DateOf(time.Date(r.Start.Year, r.Start.Month+1, r.Start.Day, 0, 0, 0, 0, time.UTC))
			require.Equal(t, next.AddDays(-1), r.End, "start=%d ref=%s", startDay, ref)

			monthGap := (r.End.Year*12 + int(r.End.Month)) - (r.Start.Year*12 + int(r.Start.Month))
			require.True(t, monthGap == 0 || monthGap == 1, "start=%d ref=%s range=%s", startDay, ref, r)
			require.Equal(t, startDay, r.Start.Day)
		}
		ref = ref.AddDays(1)
	}
}

func TestComputeRange_ClampsStartDay(t *testing.T) {
	assert.Equal(t, ComputeRange(1, day(2024, 5, 10)), ComputeRange(0, day(2024, 5, 10)))
	assert.Equal(t, ComputeRange(1, day(2024, 5, 10)), ComputeRange(-4, day(2024, 5, 10)))
	assert.Equal(t, ComputeRange(31, day(2024, 5, 10)), ComputeRange(99, day(2024, 5, 10)))
}

func TestRange_ContainsAndDays(t *testing.T) {
	r := Range{Start: day(2024, 2, 28), End: day(2024, 3, 27)}
	assert.True(t, r.Contains(day(2024, 2, 28)))
	assert.True(t, r.Contains(day(2024, 3, 27)))
	assert.False(t, r.Contains(day(2024, 2, 27)))
	assert.False(t, r.Contains(day(2024, 3, 28)))
	assert.Equal(t, 29, r.Days())
	assert.Equal(t, "2024-02-28..2024-03-27", r.String())
}

func TestDateOf_UsesLocalComponents(t *testing.T) {
	// 23:30 UTC on the 14th is already the 15th in Tokyo and still the 14th in New York.
	ts := time.Date(2024, 3, 14, 23, 30, 0, 0, time.UTC)

	tokyo := time.FixedZone("JST", 9*60*60)
	newYork := time.FixedZone("EST", -5*60*60)

	assert.Equal(t, "2024-03-15", DateOf(ts, tokyo).String())
	assert.Equal(t, "2024-03-14", DateOf(ts, newYork).String())
	assert.Equal(t, "2024-03-14", DateOf(ts, time.UTC).String())
}

func TestCurrent(t *testing.T) {
	now := time.Date(2024, 3, 30, 10, 0, 0, 0, time.UTC)
	r := Current(28, now, time.UTC)
	assert.Equal(t, "2024-03-28..2024-04-27", r.String())
}

func TestValidStartDay(t *testing.T) {
	assert.True(t, ValidStartDay(1))
	assert.True(t, ValidStartDay(31))
	assert.False(t, ValidStartDay(0))
	assert.False(t, ValidStartDay(32))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 15), d)

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}
