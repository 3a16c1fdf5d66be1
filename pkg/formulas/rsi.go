package formulas

import (
	"github.com/markcheno/go-talib"
)

// RSISeries calculates the Relative Strength Index for every close.
//
// RSI = 100 - (100 / (1 + RS)), RS = average gain / average loss over
// length periods (Wilder smoothing). The first length points are nil.
func RSISeries(closes []float64, length int) []*float64 {
	out := make([]*float64, len(closes))
	if length <= 0 || len(closes) < length+1 {
		return out
	}
	return fromTalib(talib.Rsi(closes, length), length)
}

// CalculateRSI returns the current RSI value (0-100) or nil if there is
// insufficient data.
func CalculateRSI(closes []float64, length int) *float64 {
	return last(RSISeries(closes, length))
}
