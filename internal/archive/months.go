package archive

import "time"

// YearMonth identifies one monthly archive
type YearMonth struct {
	Year  int
	Month int
}

// MonthRange generates the inclusive list of year-month pairs from then up
// to now
func MonthRange(now, then time.Time) []YearMonth {
	var months []YearMonth

	year, month := then.Year(), int(then.Month())
	for {
		months = append(months, YearMonth{Year: year, Month: month})
		if year > now.Year() || (year == now.Year() && month >= int(now.Month())) {
			return months
		}
		month++
		if month > 12 {
			year++
			month = 1
		}
	}
}
