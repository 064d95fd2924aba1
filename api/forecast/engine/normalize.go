package engine

import "time"

// Record normalization: each open invoice, pipeline lead and proposal becomes
// exactly one CashEvent. Records with unusable numbers normalize to amount 0
// instead of being dropped, so item counts stay honest for display while sums
// never pick up garbage. Contracts are not normalized here — their cash
// impact is spread over time by the amortizer.

func normalizeInvoice(now time.Time, inv Invoice) CashEvent {
	outstanding := ToNonNegative(inv.Total) - ToNonNegative(inv.AmountPaid)
	if outstanding < 0 {
		outstanding = 0
	}
	date := now
	if inv.DueDate != nil {
		date = *inv.DueDate
	}
	p := invoiceProbability(inv.Status)
	return CashEvent{
		ID:             inv.ID,
		Label:          inv.Label,
		SourceType:     SourceInvoice,
		Amount:         outstanding,
		Probability:    p,
		WeightedAmount: outstanding * p,
		ExpectedDate:   date,
	}
}

func normalizeLead(now time.Time, lead Lead) CashEvent {
	amount := ToNonNegative(lead.EstimatedValue)
	// No close date yet: park it on the 60-day horizon boundary.
	date := now.AddDate(0, 0, 60)
	if lead.ExpectedClose != nil {
		date = *lead.ExpectedClose
	}
	p := leadProbability(lead.Probability)
	return CashEvent{
		ID:             lead.ID,
		Label:          lead.Label,
		SourceType:     SourcePipeline,
		Amount:         amount,
		Probability:    p,
		WeightedAmount: amount * p,
		ExpectedDate:   date,
	}
}

func normalizeProposal(now time.Time, prop Proposal) CashEvent {
	var amount float64
	for _, item := range prop.PricingItems {
		if item.Amount != nil {
			amount += ToNonNegative(*item.Amount)
			continue
		}
		qty := 1.0
		if item.Quantity != nil {
			qty = ToNonNegative(*item.Quantity)
		}
		amount += qty * ToNonNegative(item.UnitPrice)
	}
	// Proposals without a validity deadline land on the 30-day boundary.
	date := now.AddDate(0, 0, 30)
	if prop.ValidUntil != nil {
		date = *prop.ValidUntil
	}
	p := proposalProbability(prop.Status)
	return CashEvent{
		ID:             prop.ID,
		Label:          prop.Label,
		SourceType:     SourceProposal,
		Amount:         amount,
		Probability:    p,
		WeightedAmount: amount * p,
		ExpectedDate:   date,
	}
}

func normalizeInvoices(now time.Time, invoices []Invoice) []CashEvent {
	events := make([]CashEvent, 0, len(invoices))
	for _, inv := range invoices {
		events = append(events, normalizeInvoice(now, inv))
	}
	return events
}

func normalizeLeads(now time.Time, leads []Lead) []CashEvent {
	events := make([]CashEvent, 0, len(leads))
	for _, lead := range leads {
		events = append(events, normalizeLead(now, lead))
	}
	return events
}

func normalizeProposals(now time.Time, proposals []Proposal) []CashEvent {
	events := make([]CashEvent, 0, len(proposals))
	for _, prop := range proposals {
		events = append(events, normalizeProposal(now, prop))
	}
	return events
}
