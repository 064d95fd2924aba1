package engine

import "time"

const trendMonths = 6

// buildMonthlyTrend buckets completed payments and recorded expenses into
// the trailing six calendar months, oldest first. Historical data is
// realized fact, so no probability weighting applies here.
func buildMonthlyTrend(now time.Time, payments []Payment, expenses []Expense) []MonthEntry {
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	trend := make([]MonthEntry, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		monthStart := currentMonth.AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var revenue, spent float64
		for _, p := range payments {
			if !p.Date.Before(monthStart) && p.Date.Before(monthEnd) {
				revenue += ToNonNegative(p.Amount)
			}
		}
		for _, e := range expenses {
			if !e.Date.Before(monthStart) && e.Date.Before(monthEnd) {
				spent += ToNonNegative(e.Amount)
			}
		}

		trend = append(trend, MonthEntry{
			Month:    monthStart.Format("Jan 2006"),
			MonthKey: monthStart.Format("2006-01"),
			Revenue:  Round2(revenue),
			Expenses: Round2(spent),
		})
	}
	return trend
}
