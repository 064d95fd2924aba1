package engine

import (
	"sort"
	"time"
)

const maxDisplayItems = 10

// Build computes the full revenue forecast document for one tenant from a
// point-in-time snapshot. It is a pure function of (now, snap): no clock
// reads, no I/O, no mutation of the snapshot — the same inputs always yield
// the same document, so callers may cache or recompute freely.
func Build(now time.Time, snap Snapshot) Document {
	now = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	invoiceEvents := normalizeInvoices(now, snap.Invoices)
	leadEvents := normalizeLeads(now, snap.Leads)
	proposalEvents := normalizeProposals(now, snap.Proposals)
	amorts := amortizeContracts(now, snap.Contracts)
	profile := NewExpenseProfile(now, snap.Expenses)

	invoiceForecast := bucketEvents(now, invoiceEvents)
	pipelineForecast := bucketEvents(now, leadEvents)
	proposalForecast := bucketEvents(now, proposalEvents)
	contractForecast := bucketContracts(now, amorts)
	expForecast := expenseForecast(profile)

	projections := cumulativeProjections(
		[]SourceForecast{invoiceForecast, pipelineForecast, proposalForecast, contractForecast},
		expForecast,
	)

	// Weekly ledger sees every dated event plus the continuous contracts.
	allEvents := make([]CashEvent, 0, len(invoiceEvents)+len(leadEvents)+len(proposalEvents))
	allEvents = append(allEvents, invoiceEvents...)
	allEvents = append(allEvents, leadEvents...)
	allEvents = append(allEvents, proposalEvents...)

	return Document{
		Projections: projections,
		Sources: Sources{
			Invoices: SourceBreakdown{
				Forecast: invoiceForecast,
				Count:    len(invoiceEvents),
				Items:    topItems(invoiceEvents),
			},
			Pipeline: SourceBreakdown{
				Forecast: pipelineForecast,
				Count:    len(leadEvents),
				Items:    topItems(leadEvents),
			},
			Proposals: SourceBreakdown{
				Forecast: proposalForecast,
				Count:    len(proposalEvents),
				Items:    topItems(proposalEvents),
			},
			Contracts: SourceBreakdown{
				Forecast: contractForecast,
				Count:    len(amorts),
				Items:    topItems(contractItems(now, amorts)),
			},
			Expenses: ExpenseBreakdown{
				Forecast:   expForecast,
				AvgMonthly: profile.AvgMonthlyTotal,
				ByCategory: profile.ByCategoryMonthly,
			},
		},
		WeeklyTimeline: buildWeeklyTimeline(now, allEvents, amorts, profile),
		MonthlyRevenue: buildMonthlyTrend(now, snap.Payments, snap.Expenses),
	}
}

// contractItems renders contracts as display rows: full value at probability
// 1.0 (committed revenue), weighted by the portion amortized into the 90-day
// horizon, dated at contract end.
func contractItems(now time.Time, amorts []ContractAmortization) []CashEvent {
	items := make([]CashEvent, 0, len(amorts))
	horizonEnd := now.AddDate(0, 0, 90)
	for _, a := range amorts {
		items = append(items, CashEvent{
			ID:             a.ID,
			Label:          a.Label,
			SourceType:     SourceContract,
			Amount:         a.TotalValue,
			Probability:    1.0,
			WeightedAmount: a.WindowAmount(now, horizonEnd),
			ExpectedDate:   a.EndDate,
		})
	}
	return items
}

// topItems orders by weighted amount descending and keeps the ten largest.
// Events beyond the 90-day horizon are eligible here even though the
// horizon buckets exclude them.
func topItems(events []CashEvent) []CashEvent {
	items := make([]CashEvent, len(events))
	copy(items, events)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].WeightedAmount > items[j].WeightedAmount
	})
	if len(items) > maxDisplayItems {
		items = items[:maxDisplayItems]
	}
	return items
}
