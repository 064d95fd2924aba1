package engine

import "time"

// Weeks per 30-day month, used to derate the monthly expense run-rate into
// a weekly outflow.
const weeksPerMonth = 4.33

const timelineWeeks = 12

// buildWeeklyTimeline constructs the 12-week rolling ledger: per-week event
// inflow over [weekStart, weekEnd), per-contract amortized inflow for the
// same window, the weekly expense rate as outflow, and a running cumulative
// balance carried across the whole horizon. Figures are rounded to 2 decimal
// places only at emission; the cumulative carry uses full precision.
func buildWeeklyTimeline(now time.Time, events []CashEvent, amorts []ContractAmortization, profile ExpenseProfile) []WeekEntry {
	weeklyOutflow := profile.AvgMonthlyTotal / weeksPerMonth

	timeline := make([]WeekEntry, 0, timelineWeeks)
	var cumulative float64
	for w := 0; w < timelineWeeks; w++ {
		weekStart := now.AddDate(0, 0, 7*w)
		weekEnd := weekStart.AddDate(0, 0, 7)

		var inflow float64
		for _, e := range events {
			if !e.ExpectedDate.Before(weekStart) && e.ExpectedDate.Before(weekEnd) {
				inflow += e.WeightedAmount
			}
		}
		for _, a := range amorts {
			inflow += a.WindowAmount(weekStart, weekEnd)
		}

		net := inflow - weeklyOutflow
		cumulative += net

		timeline = append(timeline, WeekEntry{
			Week:       w,
			WeekStart:  weekStart.Format("2006-01-02"),
			Inflow:     Round2(inflow),
			Outflow:    Round2(weeklyOutflow),
			Net:        Round2(net),
			Cumulative: Round2(cumulative),
		})
	}
	return timeline
}
