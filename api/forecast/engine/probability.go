package engine

import "strings"

// Collection/close probabilities by record status. A lookup, not a model:
// invoices and proposals carry uncertainty about collection/close, while
// signed contracts are committed revenue and never pass through here (their
// uncertainty is in timing, handled by amortization).

func invoiceProbability(status string) float64 {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "overdue":
		return 0.70
	case "partially_paid":
		return 0.90
	default:
		// open statuses: sent, viewed
		return 0.85
	}
}

// leadProbability converts the CRM's per-lead 0-100 figure into [0,1].
// A missing value counts as 0, not some hopeful default.
func leadProbability(pct float64) float64 {
	p := ToNonNegative(pct) / 100
	if p > 1 {
		return 1
	}
	return p
}

func proposalProbability(status string) float64 {
	if strings.ToLower(strings.TrimSpace(status)) == "viewed" {
		return 0.55
	}
	return 0.40
}
