// Package formulas implements the technical indicators drawn on charts.
package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMASeries returns the simple moving average for every input point.
// Points inside the warm-up window (the first period-1) are nil.
func SMASeries(values []float64, period int) []*float64 {
	out := make([]*float64, len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	return fromTalib(talib.Sma(values, period), period-1)
}

// CalculateSMA returns the latest simple moving average, or nil if there
// are fewer than period values.
func CalculateSMA(values []float64, period int) *float64 {
	return last(SMASeries(values, period))
}

// fromTalib converts a talib output (zero-filled lookback) to pointers,
// leaving the first lookback points nil.
func fromTalib(series []float64, lookback int) []*float64 {
	out := make([]*float64, len(series))
	for i := lookback; i < len(series); i++ {
		v := series[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &v
	}
	return out
}

func last(series []*float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	return series[len(series)-1]
}
