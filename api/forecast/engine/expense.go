package engine

import "time"

// ExpenseProfile is the outflow side of every projection: the average
// monthly burn derived from historical expenses, overall and per category.
type ExpenseProfile struct {
	AvgMonthlyTotal   float64
	ByCategoryMonthly map[string]float64
}

// NewExpenseProfile computes the run-rate over the span between the oldest
// expense on record and now, measured in 30-day months and floored at 1 so a
// thin history never divides by zero.
func NewExpenseProfile(now time.Time, expenses []Expense) ExpenseProfile {
	profile := ExpenseProfile{ByCategoryMonthly: map[string]float64{}}
	if len(expenses) == 0 {
		return profile
	}

	oldest := expenses[0].Date
	var total float64
	byCategory := map[string]float64{}
	for _, e := range expenses {
		if e.Date.Before(oldest) {
			oldest = e.Date
		}
		amt := ToNonNegative(e.Amount)
		total += amt
		byCategory[e.Category] += amt
	}

	months := now.Sub(oldest).Hours() / (daysPerMonth * 24)
	if months < 1 {
		months = 1
	}

	profile.AvgMonthlyTotal = total / months
	for cat, sum := range byCategory {
		profile.ByCategoryMonthly[cat] = sum / months
	}
	return profile
}
