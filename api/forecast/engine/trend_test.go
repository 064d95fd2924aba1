package engine

import (
	"testing"
	"time"
)

func TestMonthlyTrendBucketsTrailingSixMonths(t *testing.T) {
	now := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	payments := []Payment{
		{Amount: 1000, Date: time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)},
		{Amount: 2000, Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: 9999, Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}, // before window
	}
	expenses := []Expense{
		{Amount: 400, Date: time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC), Category: "ops"},
		{Amount: 100, Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Category: "ops"}, // after window
	}

	trend := buildMonthlyTrend(now, payments, expenses)
	if len(trend) != 6 {
		t.Fatalf("expected 6 months, got %d", len(trend))
	}
	if trend[0].MonthKey != "2026-04" || trend[5].MonthKey != "2026-09" {
		t.Fatalf("expected Apr..Sep oldest-first, got %s..%s", trend[0].MonthKey, trend[5].MonthKey)
	}
	if trend[0].Month != "Apr 2026" {
		t.Fatalf("unexpected month label %q", trend[0].Month)
	}
	almost(t, trend[0].Revenue, 1000, 1e-9, "april revenue")
	almost(t, trend[0].Expenses, 400, 1e-9, "april expenses")
	almost(t, trend[5].Revenue, 2000, 1e-9, "september revenue")
	for _, m := range trend[1:5] {
		if m.Revenue != 0 || m.Expenses != 0 {
			t.Fatalf("expected empty middle month, got %+v", m)
		}
	}
}

func TestExpenseProfileFloorsHistoryAtOneMonth(t *testing.T) {
	// A single expense from last week must not explode the run-rate.
	p := NewExpenseProfile(testNow, []Expense{
		{Amount: 500, Date: testNow.AddDate(0, 0, -7), Category: "tools"},
	})
	almost(t, p.AvgMonthlyTotal, 500, 1e-9, "months floored at 1")
	almost(t, p.ByCategoryMonthly["tools"], 500, 1e-9, "category months floored at 1")
}
