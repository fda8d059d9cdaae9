package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthRangeSingleMonth(t *testing.T) {
	now := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	months := MonthRange(now, now)
	assert.Equal(t, []YearMonth{{Year: 2026, Month: 2}}, months)
}

func TestMonthRangeAcrossYearBoundary(t *testing.T) {
	now := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	then := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	months := MonthRange(now, then)
	assert.Equal(t, []YearMonth{
		{Year: 2025, Month: 11},
		{Year: 2025, Month: 12},
		{Year: 2026, Month: 1},
		{Year: 2026, Month: 2},
	}, months)
}

func TestMonthRangeFullYear(t *testing.T) {
	now := time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)
	then := now.AddDate(0, 0, -365)

	months := MonthRange(now, then)
	assert.Len(t, months, 13)
	assert.Equal(t, YearMonth{Year: 2025, Month: 2}, months[0])
	assert.Equal(t, YearMonth{Year: 2026, Month: 2}, months[len(months)-1])
}
