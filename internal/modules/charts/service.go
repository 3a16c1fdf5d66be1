// Package charts provides candle series and indicator overlays for the chart views.
package charts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aristath/riskgauge/internal/domain"
	"github.com/aristath/riskgauge/internal/modules/normalize"
	"github.com/aristath/riskgauge/pkg/formulas"
	"github.com/rs/zerolog"
)

// DailyWindow is how many daily bars the chart shows (about three months).
const DailyWindow = 65

// Indicator periods
const (
	ShortSMAPeriod = 5
	LongSMAPeriod  = 20
	RSIPeriod      = 14
)

// IndicatorPoint is one value of an overlay series, nil during warm-up
type IndicatorPoint struct {
	Time  string   `json:"time"`
	Value *float64 `json:"value"`
}

// Indicators holds the overlay series aligned to the chart candles
type Indicators struct {
	Symbol               string           `json:"symbol"`
	Timeframe            string           `json:"timeframe"`
	SMA5                 []IndicatorPoint `json:"sma5"`
	SMA20                []IndicatorPoint `json:"sma20"`
	RSI14                []IndicatorPoint `json:"rsi14"`
	Latest               LatestIndicators `json:"latest"`
	HistoricalVolatility *float64         `json:"historical_volatility"` // annualized, %
}

// LatestIndicators are the overlay values at the most recent bar.
type LatestIndicators struct {
	SMA5  *float64 `json:"sma5"`
	SMA20 *float64 `json:"sma20"`
	RSI14 *float64 `json:"rsi14"`
}

// Service provides chart data operations
type Service struct {
	client   domain.MarketDataClient
	resolver domain.SymbolResolver
	log      zerolog.Logger
}

// NewService creates a new charts service
func NewService(client domain.MarketDataClient, resolver domain.SymbolResolver, log zerolog.Logger) *Service {
	return &Service{
		client:   client,
		resolver: resolver,
		log:      log.With().Str("service", "charts").Logger(),
	}
}

// Candles returns the chart bars for query, oldest first. Daily charts are
// cut to the most recent DailyWindow bars.
func (s *Service) Candles(ctx context.Context, query, timeframe string) ([]domain.Candle, error) {
	period, err := domain.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	_, candles, err := s.history(ctx, query, period)
	if err != nil {
		return nil, err
	}
	return window(candles, period), nil
}

// Indicators returns SMA/RSI overlays and historical volatility for query.
// Series are computed on the full upstream history and then aligned to the
// same bars Candles returns.
func (s *Service) Indicators(ctx context.Context, query, timeframe string) (*Indicators, error) {
	period, err := domain.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	sym, candles, err := s.history(ctx, query, period)
	if err != nil {
		return nil, err
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	visible := window(candles, period)
	offset := len(candles) - len(visible)

	return &Indicators{
		Symbol:               sym.Code,
		Timeframe:            timeframe,
		SMA5:                 align(visible, formulas.SMASeries(closes, ShortSMAPeriod)[offset:]),
		SMA20:                align(visible, formulas.SMASeries(closes, LongSMAPeriod)[offset:]),
		RSI14:                align(visible, formulas.RSISeries(closes, RSIPeriod)[offset:]),
		Latest: LatestIndicators{
			SMA5:  formulas.CalculateSMA(closes, ShortSMAPeriod),
			SMA20: formulas.CalculateSMA(closes, LongSMAPeriod),
			RSI14: formulas.CalculateRSI(closes, RSIPeriod),
		},
		HistoricalVolatility: formulas.HistoricalVolatility(closes[offset:], periodsPerYear(period)),
	}, nil
}

func (s *Service) history(ctx context.Context, query string, period domain.Period) (domain.Symbol, []domain.Candle, error) {
	sym, err := s.resolver.Resolve(query)
	if err != nil {
		return domain.Symbol{}, nil, err
	}

	rows, err := s.client.InquireDailyPrice(ctx, sym.Code, period)
	if err != nil {
		return sym, nil, fmt.Errorf("failed to fetch %s candles for %s: %w", period, sym.Code, err)
	}

	candles := ToCandles(rows)
	if skipped := len(rows) - len(candles); skipped > 0 {
		s.log.Debug().
			Str("symbol", sym.Code).
			Int("skipped", skipped).
			Msg("Skipped unparsable candle rows")
	}
	return sym, candles, nil
}

// ToCandles converts daily-price rows to candles sorted oldest first.
// Rows without a valid date or close are dropped.
func ToCandles(rows []domain.Record) []domain.Candle {
	candles := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		c, ok := toCandle(row)
		if !ok {
			continue
		}
		candles = append(candles, c)
	}
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time < candles[j].Time
	})
	return candles
}

func toCandle(row domain.Record) (domain.Candle, bool) {
	date, err := time.Parse("20060102", row.String("stck_bsop_date"))
	if err != nil {
		return domain.Candle{}, false
	}
	closePrice := normalize.Float(row["stck_clpr"])
	if closePrice == nil {
		return domain.Candle{}, false
	}
	return domain.Candle{
		Time:   date.Format("2006-01-02"),
		Open:   normalize.OrZero(normalize.Float(row["stck_oprc"])),
		High:   normalize.OrZero(normalize.Float(row["stck_hgpr"])),
		Low:    normalize.OrZero(normalize.Float(row["stck_lwpr"])),
		Close:  *closePrice,
		Volume: normalize.OrZero(normalize.Float(row["acml_vol"])),
	}, true
}

func window(candles []domain.Candle, period domain.Period) []domain.Candle {
	if period == domain.PeriodDaily && len(candles) > DailyWindow {
		return candles[len(candles)-DailyWindow:]
	}
	return candles
}

func align(candles []domain.Candle, series []*float64) []IndicatorPoint {
	points := make([]IndicatorPoint, len(candles))
	for i, c := range candles {
		points[i] = IndicatorPoint{Time: c.Time, Value: series[i]}
	}
	return points
}

func periodsPerYear(period domain.Period) int {
	switch period {
	case domain.PeriodWeekly:
		return formulas.WeeksPerYear
	case domain.PeriodMonthly:
		return formulas.MonthsPerYear
	default:
		return formulas.TradingDaysPerYear
	}
}
