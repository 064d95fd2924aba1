package engine

import "time"

// Horizon bucketing. Per-source forecasts are plain window sums: d30 holds
// events due within 30 days, d60 the 31-60 day window, d90 the 61-90 day
// window. Events past day 90 stay out of the buckets (they remain in the
// item lists). Only the combined projections get the cumulative treatment —
// see cumulativeProjections.

func bucketEvents(now time.Time, events []CashEvent) SourceForecast {
	d30End := now.AddDate(0, 0, 30)
	d60End := now.AddDate(0, 0, 60)
	d90End := now.AddDate(0, 0, 90)

	var f SourceForecast
	for _, e := range events {
		switch {
		case !e.ExpectedDate.After(d30End):
			f.D30 += e.WeightedAmount
		case !e.ExpectedDate.After(d60End):
			f.D60 += e.WeightedAmount
		case !e.ExpectedDate.After(d90End):
			f.D90 += e.WeightedAmount
		}
	}
	f.Total = f.D30 + f.D60 + f.D90
	return f
}

// bucketContracts prices the three horizon windows directly from each
// contract's amortization — disjoint windows, not event dates, since
// contract revenue is continuous rather than landing on one day.
func bucketContracts(now time.Time, amorts []ContractAmortization) SourceForecast {
	d30 := now.AddDate(0, 0, 30)
	d60 := now.AddDate(0, 0, 60)
	d90 := now.AddDate(0, 0, 90)

	var f SourceForecast
	for _, a := range amorts {
		f.D30 += a.WindowAmount(now, d30)
		f.D60 += a.WindowAmount(d30, d60)
		f.D90 += a.WindowAmount(d60, d90)
	}
	f.Total = f.D30 + f.D60 + f.D90
	return f
}

// expenseForecast projects the flat monthly run-rate into each 30-day
// window; like the inflow sources this stays non-cumulative.
func expenseForecast(profile ExpenseProfile) SourceForecast {
	m := profile.AvgMonthlyTotal
	return SourceForecast{D30: m, D60: m, D90: m, Total: 3 * m}
}

// cumulativeProjections combines the per-source windows and then converts
// the combined figures to cumulative horizon totals in place: the published
// d60 means "expected in the first 60 days" and d90 "in the first 90 days".
// The per-source breakdowns shown alongside stay non-cumulative window
// amounts; downstream consumers rely on exactly this pairing.
func cumulativeProjections(inflows []SourceForecast, outflow SourceForecast) Projections {
	var in Horizon
	for _, f := range inflows {
		in.D30 += f.D30
		in.D60 += f.D60
		in.D90 += f.D90
	}
	in.D60 += in.D30
	in.D90 += in.D60

	out := Horizon{D30: outflow.D30, D60: outflow.D60, D90: outflow.D90}
	out.D60 += out.D30
	out.D90 += out.D60

	return Projections{
		Inflow:  in,
		Outflow: out,
		Net: Horizon{
			D30: in.D30 - out.D30,
			D60: in.D60 - out.D60,
			D90: in.D90 - out.D90,
		},
	}
}
