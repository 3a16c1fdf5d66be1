// Package quotes serves the current-price summary of a listed stock.
package quotes

import (
	"context"
	"fmt"

	"github.com/aristath/riskgauge/internal/domain"
	"github.com/aristath/riskgauge/internal/modules/normalize"
	"github.com/rs/zerolog"
)

// Summary is the quote snapshot. Fields the upstream did not send or
// could not be parsed are nil.
type Summary struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Market        string   `json:"market,omitempty"`
	Price         *float64 `json:"price"`
	Change        *float64 `json:"change"`
	ChangeRate    *float64 `json:"change_rate"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	PreviousClose *float64 `json:"previous_close"`
	Volume        *int64   `json:"volume"`
	TradeAmount   *int64   `json:"trade_amount"`
	PER           *float64 `json:"per"`
	PBR           *float64 `json:"pbr"`
	EPS           *float64 `json:"eps"`
	BPS           *float64 `json:"bps"`
	MarketCap     *float64 `json:"market_cap"` // 억원
	High52W       *float64 `json:"high_52w"`
	Low52W        *float64 `json:"low_52w"`
}

// Service resolves a query and fetches its quote
type Service struct {
	client   domain.MarketDataClient
	resolver domain.SymbolResolver
	log      zerolog.Logger
}

// NewService creates a new quotes service
func NewService(client domain.MarketDataClient, resolver domain.SymbolResolver, log zerolog.Logger) *Service {
	return &Service{
		client:   client,
		resolver: resolver,
		log:      log.With().Str("service", "quotes").Logger(),
	}
}

// Summary resolves query and returns its quote summary.
func (s *Service) Summary(ctx context.Context, query string) (*Summary, error) {
	sym, err := s.resolver.Resolve(query)
	if err != nil {
		return nil, err
	}

	rec, err := s.client.InquirePrice(ctx, sym.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", sym.Code, err)
	}

	s.log.Debug().Str("symbol", sym.Code).Msg("Quote fetched")
	return FromRecord(sym, rec), nil
}

// FromRecord maps an inquire-price row onto a Summary.
func FromRecord(sym domain.Symbol, rec domain.Record) *Summary {
	return &Summary{
		Symbol:        sym.Code,
		Name:          sym.Name,
		Market:        sym.Market,
		Price:         normalize.Float(rec["stck_prpr"]),
		Change:        normalize.Float(rec["prdy_vrss"]),
		ChangeRate:    normalize.Float(rec["prdy_ctrt"]),
		Open:          normalize.Float(rec["stck_oprc"]),
		High:          normalize.Float(rec["stck_hgpr"]),
		Low:           normalize.Float(rec["stck_lwpr"]),
		PreviousClose: normalize.Float(rec["stck_sdpr"]),
		Volume:        normalize.Int(rec["acml_vol"]),
		TradeAmount:   normalize.AmountInt(rec["acml_tr_pbmn"]),
		PER:           normalize.Float(rec["per"]),
		PBR:           normalize.Float(rec["pbr"]),
		EPS:           normalize.Float(rec["eps"]),
		BPS:           normalize.Float(rec["bps"]),
		MarketCap:     normalize.Amount(rec["hts_avls"]),
		High52W:       normalize.Float(rec["w52_hgpr"]),
		Low52W:        normalize.Float(rec["w52_lwpr"]),
	}
}
