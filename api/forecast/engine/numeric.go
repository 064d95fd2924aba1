package engine

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ToNonNegative coerces an arbitrary value into a non-negative float64.
// Contract: parse or default to 0 — never NaN, never Inf, never negative.
// Dashboard inputs arrive from JSONB and spreadsheets in whatever shape the
// client stored, so every numeric field funnels through here.
func ToNonNegative(v interface{}) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return 0
		}
		f = d.InexactFloat64()
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
		if s == "" {
			return 0
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return 0
		}
		f = d.InexactFloat64()
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// Round2 rounds to 2 decimal places. Applied only at the point of emission;
// intermediate math keeps full precision.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
