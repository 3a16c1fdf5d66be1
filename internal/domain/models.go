// Package domain provides core domain models and types.
package domain

import "fmt"

// Record is a single upstream payload row keyed by KIS field code
// (e.g. "stck_prpr", "lblt_rate"). Values are whatever the decoder produced,
// usually strings. Any key may be missing.
type Record map[string]any

// String returns the field as a string, or "" when it is missing or not a
// string.
func (r Record) String(key string) string {
	if r == nil {
		return ""
	}
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Optional returns a pointer to the string field, nil when missing or empty.
func (r Record) Optional(key string) *string {
	s := r.String(key)
	if s == "" {
		return nil
	}
	return &s
}

// Subset copies the listed keys into a new map. Missing keys are kept as nil
// so consumers can see which fields were asked for.
func (r Record) Subset(keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		out[k] = r[k]
	}
	return out
}

// Period is the candle aggregation passed to the daily-price endpoint.
type Period string

const (
	PeriodDaily   Period = "D"
	PeriodWeekly  Period = "W"
	PeriodMonthly Period = "M"
)

// ParseTimeframe maps a chart timeframe name to a Period.
func ParseTimeframe(tf string) (Period, error) {
	switch tf {
	case "daily":
		return PeriodDaily, nil
	case "weekly":
		return PeriodWeekly, nil
	case "monthly":
		return PeriodMonthly, nil
	default:
		return "", fmt.Errorf("%w: %q (must be daily, weekly or monthly)", ErrInvalidTimeframe, tf)
	}
}

// Candle is one OHLCV bar
type Candle struct {
	Time   string  `json:"time"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Symbol is an entry of the listed-company table.
// JSON keys match the published KRX listing file.
type Symbol struct {
	Name   string `json:"회사명"`
	Code   string `json:"종목코드"`
	Market string `json:"시장구분"`
}
