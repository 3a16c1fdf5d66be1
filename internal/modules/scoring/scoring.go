// Package scoring maps upstream KIS fields to bounded risk scores.
//
// Each domain (stability, profitability, volatility, supply/demand) scores
// four metrics through fixed threshold bands, sums them and classifies the
// total into one of three ordered tiers. Scoring is pure: the same Record
// always produces the same Result.
package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/aristath/riskgauge/internal/domain"
	"github.com/aristath/riskgauge/internal/modules/normalize"
)

// Domain names a scored dimension
type Domain string

const (
	DomainStability     Domain = "stability"
	DomainProfitability Domain = "profitability"
	DomainVolatility    Domain = "volatility"
	DomainSupply        Domain = "supply"
)

// Domains lists every domain in display order
var Domains = []Domain{DomainStability, DomainProfitability, DomainVolatility, DomainSupply}

// ParseDomain accepts the domain names used by the CLI and routes.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "stability", "financial":
		return DomainStability, nil
	case "profitability":
		return DomainProfitability, nil
	case "volatility":
		return DomainVolatility, nil
	case "supply", "supply-risk":
		return DomainSupply, nil
	}
	return "", fmt.Errorf("unknown scoring domain %q", s)
}

// RiskTier is the domain-independent ordering of a risk level.
// Favorable < Neutral < Unfavorable.
type RiskTier int

const (
	TierFavorable RiskTier = iota
	TierNeutral
	TierUnfavorable
)

func (t RiskTier) String() string {
	switch t {
	case TierFavorable:
		return "favorable"
	case TierNeutral:
		return "neutral"
	case TierUnfavorable:
		return "unfavorable"
	}
	return fmt.Sprintf("RiskTier(%d)", int(t))
}

// MarshalJSON encodes the tier by name.
func (t RiskTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// MetricScore is the contribution of one metric.
// Value is nil when the upstream field was missing or unparseable.
type MetricScore struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Value *float64 `json:"value"`
	Score int      `json:"score"`
	Max   int      `json:"max"`
}

// Result is the outcome of scoring one domain.
type Result struct {
	Domain     Domain        `json:"domain"`
	TotalScore int           `json:"total_score"`
	MinScore   int           `json:"min_score"`
	MaxScore   int           `json:"max_score"`
	Level      string        `json:"level"`      // stable, excellent, high, low ...
	RiskLevel  string        `json:"risk_level"` // Korean display label
	Tier       RiskTier      `json:"risk_tier"`
	Metrics    []MetricScore `json:"score_details"`
}

// Score dispatches to the scorer of the given domain.
func Score(d Domain, rec domain.Record) (Result, error) {
	m, ok := models[d]
	if !ok {
		return Result{}, fmt.Errorf("unknown scoring domain %q", d)
	}
	return m.score(rec), nil
}

// Stability scores debt, fixed-asset, current and quick ratios.
func Stability(rec domain.Record) Result { return stabilityModel.score(rec) }

// Profitability scores ROE, ROA, operating margin and net margin.
func Profitability(rec domain.Record) Result { return profitabilityModel.score(rec) }

// Volatility scores daily move, volume change, 52-week-high disparity and
// turnover. Unlike the other domains a higher total means higher risk.
func Volatility(rec domain.Record) Result { return volatilityModel.score(rec) }

// Supply scores foreign ownership, foreign and institutional net buying and
// turnover.
func Supply(rec domain.Record) Result { return supplyModel.score(rec) }

var models = map[Domain]*model{
	DomainStability:     stabilityModel,
	DomainProfitability: profitabilityModel,
	DomainVolatility:    volatilityModel,
	DomainSupply:        supplyModel,
}

// metric binds an upstream field to a rule.
type metric struct {
	key    string
	label  string
	field  string
	max    int
	abs    bool // score the magnitude, sign ignored
	absent int  // points when the field is missing
	rule   rule
}

// level is one tier boundary: totals >= min get this classification.
type level struct {
	min   int
	code  string
	label string
	tier  RiskTier
}

type model struct {
	domain  Domain
	metrics []metric
	levels  []level // descending by min, last one catches everything
}

func (m *model) score(rec domain.Record) Result {
	res := Result{
		Domain:  m.domain,
		Metrics: make([]MetricScore, 0, len(m.metrics)),
	}
	for _, mt := range m.metrics {
		v := normalize.Float(rec[mt.field])
		pts := mt.absent
		if v != nil {
			x := *v
			if mt.abs && x < 0 {
				x = -x
			}
			pts = mt.rule.points(x)
		}
		res.TotalScore += pts
		res.MinScore += min(mt.rule.floor(), mt.absent)
		res.MaxScore += mt.max
		res.Metrics = append(res.Metrics, MetricScore{
			Key:   mt.key,
			Label: mt.label,
			Value: v,
			Score: pts,
			Max:   mt.max,
		})
	}
	lv := m.classify(res.TotalScore)
	res.Level, res.RiskLevel, res.Tier = lv.code, lv.label, lv.tier
	return res
}

func (m *model) classify(total int) level {
	for _, lv := range m.levels {
		if total >= lv.min {
			return lv
		}
	}
	return m.levels[len(m.levels)-1]
}
