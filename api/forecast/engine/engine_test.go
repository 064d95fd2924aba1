package engine

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func almost(t *testing.T, got, want, tol float64, label string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v, want %v (±%v)", label, got, want, tol)
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestEmptySnapshotProducesZeroDocument(t *testing.T) {
	doc := Build(testNow, Snapshot{})

	if doc.Projections.Inflow != (Horizon{}) || doc.Projections.Outflow != (Horizon{}) || doc.Projections.Net != (Horizon{}) {
		t.Fatalf("expected all-zero projections, got %+v", doc.Projections)
	}
	if len(doc.WeeklyTimeline) != 12 {
		t.Fatalf("expected 12 weekly entries, got %d", len(doc.WeeklyTimeline))
	}
	for _, w := range doc.WeeklyTimeline {
		if w.Inflow != 0 || w.Outflow != 0 || w.Net != 0 || w.Cumulative != 0 {
			t.Fatalf("expected zero week, got %+v", w)
		}
	}
	if len(doc.MonthlyRevenue) != 6 {
		t.Fatalf("expected 6 trend entries, got %d", len(doc.MonthlyRevenue))
	}
	for _, m := range doc.MonthlyRevenue {
		if m.Revenue != 0 || m.Expenses != 0 {
			t.Fatalf("expected zero month, got %+v", m)
		}
	}
	if doc.Sources.Invoices.Count != 0 || doc.Sources.Expenses.AvgMonthly != 0 {
		t.Fatalf("expected zero sources, got %+v", doc.Sources)
	}
}

func TestOverdueInvoiceScenario(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	doc := Build(testNow, Snapshot{
		Invoices: []Invoice{{
			ID: "inv-1", Label: "INV-0042 Acme", Total: 1000, AmountPaid: 200,
			DueDate: datePtr(yesterday), Status: "overdue",
		}},
	})

	if doc.Sources.Invoices.Count != 1 {
		t.Fatalf("expected 1 invoice, got %d", doc.Sources.Invoices.Count)
	}
	item := doc.Sources.Invoices.Items[0]
	almost(t, item.Amount, 800, 1e-9, "outstanding")
	almost(t, item.Probability, 0.70, 1e-9, "probability")
	almost(t, item.WeightedAmount, 560, 1e-9, "weighted")
	almost(t, doc.Sources.Invoices.Forecast.D30, 560, 1e-9, "d30 bucket")
	almost(t, doc.Sources.Invoices.Forecast.D60, 0, 1e-9, "d60 bucket")
	almost(t, doc.Projections.Inflow.D30, 560, 1e-9, "inflow d30")
}

func TestTwelveMonthContractScenario(t *testing.T) {
	end := testNow.AddDate(0, 0, 360)
	doc := Build(testNow, Snapshot{
		Contracts: []Contract{{
			ID: "con-1", Label: "Retainer", Value: 12000,
			StartDate: datePtr(testNow), EndDate: datePtr(end),
		}},
	})

	f := doc.Sources.Contracts.Forecast
	almost(t, f.D30, 1000, 0.5, "contract d30")
	almost(t, f.D60, 1000, 0.5, "contract d60")
	almost(t, f.D90, 1000, 0.5, "contract d90")
	almost(t, f.Total, 3000, 0.5, "contract 90-day total")

	item := doc.Sources.Contracts.Items[0]
	almost(t, item.Amount, 12000, 1e-9, "contract item amount")
	almost(t, item.Probability, 1.0, 1e-9, "contract item probability")
	almost(t, item.WeightedAmount, 3000, 0.5, "contract item weighted")
}

func TestPipelineLeadLandsInSixtyDayWindow(t *testing.T) {
	closeDate := testNow.AddDate(0, 0, 45)
	doc := Build(testNow, Snapshot{
		Invoices: []Invoice{{
			ID: "inv-1", Label: "INV-1", Total: 500, AmountPaid: 0,
			DueDate: datePtr(testNow.AddDate(0, 0, 10)), Status: "sent",
		}},
		Leads: []Lead{{
			ID: "lead-1", Label: "New website", EstimatedValue: 5000,
			Probability: 40, ExpectedClose: datePtr(closeDate),
		}},
	})

	almost(t, doc.Sources.Pipeline.Forecast.D60, 2000, 1e-9, "lead weighted in d60")
	almost(t, doc.Sources.Pipeline.Forecast.D30, 0, 1e-9, "lead not in d30")

	// Combined d60 is cumulative: it includes everything due inside 30 days.
	d30 := doc.Projections.Inflow.D30
	almost(t, d30, 500*0.85, 1e-9, "invoice weighted in d30")
	almost(t, doc.Projections.Inflow.D60, d30+2000, 1e-9, "cumulative d60")
}

func TestExpenseRunRateScenario(t *testing.T) {
	oldest := testNow.AddDate(0, 0, -180)
	expenses := []Expense{
		{Amount: 9000, Date: oldest, Category: "payroll"},
		{Amount: 6000, Date: testNow.AddDate(0, 0, -90), Category: "payroll"},
		{Amount: 3000, Date: testNow.AddDate(0, 0, -10), Category: "tools"},
	}
	doc := Build(testNow, Snapshot{Expenses: expenses})

	almost(t, doc.Sources.Expenses.AvgMonthly, 3000, 1e-9, "avg monthly")
	almost(t, doc.Sources.Expenses.ByCategory["payroll"], 2500, 1e-9, "payroll monthly")
	almost(t, doc.Sources.Expenses.ByCategory["tools"], 500, 1e-9, "tools monthly")
	almost(t, doc.WeeklyTimeline[0].Outflow, 692.84, 0.005, "weekly outflow")

	// Outflow projections are cumulative like inflow.
	almost(t, doc.Projections.Outflow.D30, 3000, 1e-9, "outflow d30")
	almost(t, doc.Projections.Outflow.D60, 6000, 1e-9, "outflow d60")
	almost(t, doc.Projections.Outflow.D90, 9000, 1e-9, "outflow d90")
	almost(t, doc.Projections.Net.D90, -9000, 1e-9, "net d90")
}

func TestCumulativeIdentityAcrossSources(t *testing.T) {
	doc := Build(testNow, Snapshot{
		Invoices: []Invoice{
			{ID: "i1", Total: 1000, DueDate: datePtr(testNow.AddDate(0, 0, 5)), Status: "sent"},
			{ID: "i2", Total: 2000, DueDate: datePtr(testNow.AddDate(0, 0, 50)), Status: "sent"},
		},
		Leads: []Lead{
			{ID: "l1", EstimatedValue: 4000, Probability: 50, ExpectedClose: datePtr(testNow.AddDate(0, 0, 80))},
		},
		Proposals: []Proposal{
			{ID: "p1", Status: "viewed", ValidUntil: datePtr(testNow.AddDate(0, 0, 20)),
				PricingItems: []PricingItem{{UnitPrice: 1500}}},
		},
	})

	var rawD30, rawD60, rawD90 float64
	for _, f := range []SourceForecast{
		doc.Sources.Invoices.Forecast,
		doc.Sources.Pipeline.Forecast,
		doc.Sources.Proposals.Forecast,
		doc.Sources.Contracts.Forecast,
	} {
		// per-source totals stay non-cumulative window sums
		almost(t, f.Total, f.D30+f.D60+f.D90, 1e-9, "per-source total identity")
		rawD30 += f.D30
		rawD60 += f.D60
		rawD90 += f.D90
	}

	almost(t, doc.Projections.Inflow.D30, rawD30, 1e-9, "combined d30")
	almost(t, doc.Projections.Inflow.D60, rawD30+rawD60, 1e-9, "combined cumulative d60")
	almost(t, doc.Projections.Inflow.D90, rawD30+rawD60+rawD90, 1e-9, "combined cumulative d90")
}

func TestWeeklyCumulativeRecurrence(t *testing.T) {
	doc := Build(testNow, Snapshot{
		Invoices: []Invoice{
			{ID: "i1", Total: 700, DueDate: datePtr(testNow.AddDate(0, 0, 3)), Status: "sent"},
			{ID: "i2", Total: 900, DueDate: datePtr(testNow.AddDate(0, 0, 40)), Status: "overdue"},
		},
		Contracts: []Contract{
			{ID: "c1", Value: 6000, StartDate: datePtr(testNow), EndDate: datePtr(testNow.AddDate(0, 0, 60))},
		},
		Expenses: []Expense{
			{Amount: 4330, Date: testNow.AddDate(0, 0, -30), Category: "ops"},
		},
	})

	prev := 0.0
	for i, w := range doc.WeeklyTimeline {
		if w.Week != i {
			t.Fatalf("week index mismatch at %d: %+v", i, w)
		}
		almost(t, w.Net, w.Inflow-w.Outflow, 0.02, "net = inflow - outflow")
		almost(t, w.Cumulative, prev+w.Net, 0.02, "cumulative recurrence")
		prev = w.Cumulative
	}
}

func TestEventsBeyondHorizonExcludedFromBucketsNotItems(t *testing.T) {
	far := testNow.AddDate(0, 0, 120)
	doc := Build(testNow, Snapshot{
		Leads: []Lead{{ID: "l1", Label: "Slow burn", EstimatedValue: 10000, Probability: 80, ExpectedClose: datePtr(far)}},
	})

	f := doc.Sources.Pipeline.Forecast
	if f.D30 != 0 || f.D60 != 0 || f.D90 != 0 || f.Total != 0 {
		t.Fatalf("event past day 90 must not hit buckets: %+v", f)
	}
	if doc.Sources.Pipeline.Count != 1 || len(doc.Sources.Pipeline.Items) != 1 {
		t.Fatal("event past day 90 must stay in count and items")
	}
	almost(t, doc.Sources.Pipeline.Items[0].WeightedAmount, 8000, 1e-9, "weighted kept for display")
}

func TestTopItemsTruncatedToTen(t *testing.T) {
	var invoices []Invoice
	for i := 0; i < 15; i++ {
		invoices = append(invoices, Invoice{
			ID: "inv", Total: float64(100 * (i + 1)),
			DueDate: datePtr(testNow.AddDate(0, 0, 10)), Status: "sent",
		})
	}
	doc := Build(testNow, Snapshot{Invoices: invoices})
	if doc.Sources.Invoices.Count != 15 {
		t.Fatalf("count must cover all records, got %d", doc.Sources.Invoices.Count)
	}
	if len(doc.Sources.Invoices.Items) != 10 {
		t.Fatalf("items must truncate to 10, got %d", len(doc.Sources.Invoices.Items))
	}
	// descending by weighted amount
	almost(t, doc.Sources.Invoices.Items[0].Amount, 1500, 1e-9, "largest first")
}

func TestProbabilityBoundsAndWeightedIdentity(t *testing.T) {
	doc := Build(testNow, Snapshot{
		Invoices:  []Invoice{{ID: "i", Total: 100, Status: "partially_paid"}},
		Leads:     []Lead{{ID: "l", EstimatedValue: 100, Probability: 250}},
		Proposals: []Proposal{{ID: "p", Status: "sent", PricingItems: []PricingItem{{UnitPrice: 10}}}},
	})
	all := append(append(doc.Sources.Invoices.Items, doc.Sources.Pipeline.Items...), doc.Sources.Proposals.Items...)
	for _, e := range all {
		if e.Probability < 0 || e.Probability > 1 {
			t.Fatalf("probability out of range: %+v", e)
		}
		almost(t, e.WeightedAmount, e.Amount*e.Probability, 1e-9, "weighted identity")
	}
}
