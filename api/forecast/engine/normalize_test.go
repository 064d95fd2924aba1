package engine

import "testing"

func TestInvoiceOutstandingClampsAtZero(t *testing.T) {
	e := normalizeInvoice(testNow, Invoice{ID: "i", Total: 500, AmountPaid: 800, Status: "sent"})
	almost(t, e.Amount, 0, 1e-9, "overpaid invoice clamps to 0")
	almost(t, e.WeightedAmount, 0, 1e-9, "weighted follows amount")
	if !e.ExpectedDate.Equal(testNow) {
		t.Fatalf("missing due date defaults to today, got %v", e.ExpectedDate)
	}
}

func TestInvoiceProbabilityByStatus(t *testing.T) {
	cases := map[string]float64{
		"overdue":        0.70,
		"partially_paid": 0.90,
		"sent":           0.85,
		"viewed":         0.85,
	}
	for status, want := range cases {
		e := normalizeInvoice(testNow, Invoice{ID: "i", Total: 100, Status: status})
		almost(t, e.Probability, want, 1e-9, "probability for "+status)
	}
}

func TestLeadDefaultsToSixtyDayBoundary(t *testing.T) {
	e := normalizeLead(testNow, Lead{ID: "l", EstimatedValue: 1000, Probability: 25})
	if !e.ExpectedDate.Equal(testNow.AddDate(0, 0, 60)) {
		t.Fatalf("missing close date defaults to day 60, got %v", e.ExpectedDate)
	}
	almost(t, e.WeightedAmount, 250, 1e-9, "weighted from explicit probability")

	// No probability on record means no expected value, not a hopeful guess.
	zero := normalizeLead(testNow, Lead{ID: "l2", EstimatedValue: 1000})
	almost(t, zero.WeightedAmount, 0, 1e-9, "missing probability counts as 0")
}

func TestProposalPricingItemFallback(t *testing.T) {
	explicit := 750.0
	qty := 3.0
	e := normalizeProposal(testNow, Proposal{
		ID:     "p",
		Status: "viewed",
		PricingItems: []PricingItem{
			{Amount: &explicit, UnitPrice: 999},     // explicit amount wins
			{Quantity: &qty, UnitPrice: 100},        // quantity x unit price
			{UnitPrice: 50},                         // quantity defaults to 1
		},
	})
	almost(t, e.Amount, 750+300+50, 1e-9, "pricing item sum")
	almost(t, e.Probability, 0.55, 1e-9, "viewed proposal probability")
	if !e.ExpectedDate.Equal(testNow.AddDate(0, 0, 30)) {
		t.Fatalf("missing valid_until defaults to day 30, got %v", e.ExpectedDate)
	}
}

func TestProposalSentProbability(t *testing.T) {
	e := normalizeProposal(testNow, Proposal{ID: "p", Status: "sent"})
	almost(t, e.Probability, 0.40, 1e-9, "sent proposal probability")
}
