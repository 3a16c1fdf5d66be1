package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Periods per year for annualizing
const (
	TradingDaysPerYear = 252
	WeeksPerYear       = 52
	MonthsPerYear      = 12
)

// LogReturns returns ln(p[i]/p[i-1]). Pairs with a non-positive price are
// skipped.
func LogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}
	return returns
}

// HistoricalVolatility is the annualized sample standard deviation of log
// returns, as a percentage. Nil with fewer than two returns.
func HistoricalVolatility(prices []float64, periodsPerYear int) *float64 {
	returns := LogReturns(prices)
	if len(returns) < 2 || periodsPerYear <= 0 {
		return nil
	}
	sd := stat.StdDev(returns, nil)
	if math.IsNaN(sd) {
		return nil
	}
	hv := sd * math.Sqrt(float64(periodsPerYear)) * 100
	return &hv
}
