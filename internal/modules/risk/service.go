// Package risk scores listed stocks on stability, profitability, volatility
// and supply/demand from live KIS data.
package risk

import (
	"context"
	"fmt"

	"github.com/aristath/riskgauge/internal/domain"
	"github.com/aristath/riskgauge/internal/modules/scoring"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Overview is every domain report for one symbol
type Overview struct {
	Symbol        string         `json:"symbol"`
	Name          string         `json:"name"`
	Stability     scoring.Report `json:"stability"`
	Profitability scoring.Report `json:"profitability"`
	Volatility    scoring.Report `json:"volatility"`
	Supply        scoring.Report `json:"supply"`
}

// Service fetches the upstream rows a domain needs and scores them
type Service struct {
	client   domain.MarketDataClient
	resolver domain.SymbolResolver
	log      zerolog.Logger
}

// NewService creates a new risk service
func NewService(client domain.MarketDataClient, resolver domain.SymbolResolver, log zerolog.Logger) *Service {
	return &Service{
		client:   client,
		resolver: resolver,
		log:      log.With().Str("service", "risk").Logger(),
	}
}

// Score resolves query and scores a single domain.
func (s *Service) Score(ctx context.Context, d scoring.Domain, query string) (scoring.Report, error) {
	sym, err := s.resolver.Resolve(query)
	if err != nil {
		return scoring.Report{}, err
	}

	rec, err := s.fetch(ctx, d, sym.Code)
	if err != nil {
		return scoring.Report{}, err
	}
	return s.evaluate(d, sym.Code, rec)
}

// Stability scores the latest stability-ratio statement
func (s *Service) Stability(ctx context.Context, query string) (scoring.Report, error) {
	return s.Score(ctx, scoring.DomainStability, query)
}

// Profitability scores the latest profit-ratio statement
func (s *Service) Profitability(ctx context.Context, query string) (scoring.Report, error) {
	return s.Score(ctx, scoring.DomainProfitability, query)
}

// Volatility scores the current quote
func (s *Service) Volatility(ctx context.Context, query string) (scoring.Report, error) {
	return s.Score(ctx, scoring.DomainVolatility, query)
}

// Supply scores the current quote's ownership and flow fields
func (s *Service) Supply(ctx context.Context, query string) (scoring.Report, error) {
	return s.Score(ctx, scoring.DomainSupply, query)
}

// Overview scores all four domains. The quote and both statements are
// fetched concurrently; the quote feeds volatility and supply. Any failed
// fetch fails the whole overview.
func (s *Service) Overview(ctx context.Context, query string) (*Overview, error) {
	sym, err := s.resolver.Resolve(query)
	if err != nil {
		return nil, err
	}

	var quote, stability, profitability domain.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = s.fetch(gctx, scoring.DomainVolatility, sym.Code)
		return err
	})
	g.Go(func() error {
		var err error
		stability, err = s.fetch(gctx, scoring.DomainStability, sym.Code)
		return err
	})
	g.Go(func() error {
		var err error
		profitability, err = s.fetch(gctx, scoring.DomainProfitability, sym.Code)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Overview{Symbol: sym.Code, Name: sym.Name}
	inputs := []struct {
		d   scoring.Domain
		rec domain.Record
		dst *scoring.Report
	}{
		{scoring.DomainStability, stability, &out.Stability},
		{scoring.DomainProfitability, profitability, &out.Profitability},
		{scoring.DomainVolatility, quote, &out.Volatility},
		{scoring.DomainSupply, quote, &out.Supply},
	}
	for _, in := range inputs {
		rep, err := s.evaluate(in.d, sym.Code, in.rec)
		if err != nil {
			return nil, err
		}
		*in.dst = rep
	}
	return out, nil
}

// fetch returns the upstream row the domain is scored from.
func (s *Service) fetch(ctx context.Context, d scoring.Domain, code string) (domain.Record, error) {
	switch d {
	case scoring.DomainStability:
		rows, err := s.client.StabilityRatio(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stability ratios for %s: %w", code, err)
		}
		return latest(rows), nil
	case scoring.DomainProfitability:
		rows, err := s.client.ProfitRatio(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch profit ratios for %s: %w", code, err)
		}
		return latest(rows), nil
	case scoring.DomainVolatility, scoring.DomainSupply:
		rec, err := s.client.InquirePrice(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch quote for %s: %w", code, err)
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("unknown domain %q", d)
	}
}

func (s *Service) evaluate(d scoring.Domain, code string, rec domain.Record) (scoring.Report, error) {
	rep, err := scoring.Evaluate(d, code, rec)
	if err != nil {
		return scoring.Report{}, err
	}
	s.log.Debug().
		Str("symbol", code).
		Str("domain", string(d)).
		Int("score", rep.TotalScore).
		Str("level", rep.Level).
		Msg("Scored")
	return rep, nil
}

// latest picks the most recent statement row. Statements without rows
// score as if every field were absent.
func latest(rows []domain.Record) domain.Record {
	if len(rows) == 0 {
		return domain.Record{}
	}
	return rows[0]
}
