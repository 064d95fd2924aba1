package engine

import "time"

// A month is 30 days everywhere in this engine; mixing calendar months into
// run-rate math produces buckets that don't reconcile with the 30/60/90
// horizon windows.
const daysPerMonth = 30

// ContractAmortization spreads a lump-sum contract value into a monthly
// run-rate so any query window can be priced from the same
// (start, end, monthlyRate) triple. Windows are always re-derived from the
// triple rather than accumulated, so repeated bucketing cannot drift.
type ContractAmortization struct {
	ID          string
	Label       string
	TotalValue  float64
	StartDate   time.Time
	EndDate     time.Time
	MonthlyRate float64

	// earned-from boundary: revenue before "now" is history, not forecast
	effectiveStart time.Time
}

func NewContractAmortization(now time.Time, c Contract) ContractAmortization {
	value := ToNonNegative(c.Value)
	start := now
	if c.StartDate != nil {
		start = *c.StartDate
	}
	end := now.AddDate(0, 0, 90)
	if c.EndDate != nil {
		end = *c.EndDate
	}

	months := end.Sub(start).Hours() / (daysPerMonth * 24)
	if months < 1 {
		months = 1
	}

	eff := start
	if eff.Before(now) {
		eff = now
	}

	return ContractAmortization{
		ID:             c.ID,
		Label:          c.Label,
		TotalValue:     value,
		StartDate:      start,
		EndDate:        end,
		MonthlyRate:    value / months,
		effectiveStart: eff,
	}
}

// WindowAmount returns the portion of the contract value amortized into
// [winStart, winEnd): monthlyRate times the overlap measured in 30-day
// months, floored at 0 when the window misses the contract entirely.
func (a ContractAmortization) WindowAmount(winStart, winEnd time.Time) float64 {
	start := a.effectiveStart
	if winStart.After(start) {
		start = winStart
	}
	end := a.EndDate
	if winEnd.Before(end) {
		end = winEnd
	}
	if !end.After(start) {
		return 0
	}
	overlapMonths := end.Sub(start).Hours() / (daysPerMonth * 24)
	return a.MonthlyRate * overlapMonths
}

func amortizeContracts(now time.Time, contracts []Contract) []ContractAmortization {
	out := make([]ContractAmortization, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, NewContractAmortization(now, c))
	}
	return out
}
