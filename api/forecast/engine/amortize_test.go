package engine

import (
	"testing"
	"time"
)

func TestAmortizationFullWindowConservesValue(t *testing.T) {
	start := testNow
	end := testNow.AddDate(0, 0, 90)
	a := NewContractAmortization(testNow, Contract{ID: "c", Value: 9000, StartDate: &start, EndDate: &end})

	almost(t, a.MonthlyRate, 3000, 1e-9, "monthly rate")

	d30 := testNow.AddDate(0, 0, 30)
	d60 := testNow.AddDate(0, 0, 60)
	sum := a.WindowAmount(testNow, d30) + a.WindowAmount(d30, d60) + a.WindowAmount(d60, end)
	almost(t, sum, 9000, 0.01, "horizon buckets conserve total value")

	// 12 weekly windows cover 84 of the 90 days
	var weekly float64
	for w := 0; w < 12; w++ {
		ws := testNow.AddDate(0, 0, 7*w)
		weekly += a.WindowAmount(ws, ws.AddDate(0, 0, 7))
	}
	almost(t, weekly, 9000*84.0/90.0, 0.01, "12-week sum matches pro-rata share")
}

func TestAmortizationWindowOutsideContractIsZero(t *testing.T) {
	start := testNow.AddDate(0, 0, 10)
	end := testNow.AddDate(0, 0, 40)
	a := NewContractAmortization(testNow, Contract{ID: "c", Value: 1000, StartDate: &start, EndDate: &end})

	if got := a.WindowAmount(testNow, testNow.AddDate(0, 0, 5)); got != 0 {
		t.Fatalf("window before contract start must be 0, got %v", got)
	}
	if got := a.WindowAmount(end, end.AddDate(0, 0, 30)); got != 0 {
		t.Fatalf("window after contract end must be 0, got %v", got)
	}
}

func TestAmortizationStartedContractEarnsOnlyFromNow(t *testing.T) {
	// Contract began 60 days ago and runs another 60: half its life is
	// history, so only the remaining half shows up in any forward window.
	start := testNow.AddDate(0, 0, -60)
	end := testNow.AddDate(0, 0, 60)
	a := NewContractAmortization(testNow, Contract{ID: "c", Value: 4000, StartDate: &start, EndDate: &end})

	almost(t, a.MonthlyRate, 1000, 1e-9, "rate over full 4-month duration")
	forward := a.WindowAmount(testNow.AddDate(0, 0, -90), end)
	almost(t, forward, 2000, 0.01, "only unearned portion projects forward")
}

func TestAmortizationDefaults(t *testing.T) {
	// Missing dates: start today, end at the 90-day boundary.
	a := NewContractAmortization(testNow, Contract{ID: "c", Value: 3000})
	almost(t, a.MonthlyRate, 1000, 1e-9, "defaulted 3-month duration")
	almost(t, a.WindowAmount(testNow, testNow.AddDate(0, 0, 90)), 3000, 0.01, "defaulted window amount")

	// Degenerate duration floors at one month instead of dividing by zero.
	sameDay := testNow
	b := NewContractAmortization(testNow, Contract{ID: "d", Value: 500, StartDate: &sameDay, EndDate: &sameDay})
	almost(t, b.MonthlyRate, 500, 1e-9, "duration floored at 1 month")
}

func TestAmortizationNeverNegative(t *testing.T) {
	start := testNow
	end := testNow.AddDate(0, 0, 30)
	a := NewContractAmortization(testNow, Contract{ID: "c", Value: 1000, StartDate: &start, EndDate: &end})
	win := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := a.WindowAmount(win, win.AddDate(0, 0, 7)); got < 0 {
		t.Fatalf("window amount must clamp at 0, got %v", got)
	}
}
