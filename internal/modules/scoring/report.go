package scoring

import (
	"encoding/json"

	"github.com/aristath/riskgauge/internal/domain"
)

// Fields each domain reads from its upstream row, echoed back as raw_data.
var rawFields = map[Domain][]string{
	DomainStability:     {"lblt_rate", "bram_depn", "crnt_rate", "quck_rate"},
	DomainProfitability: {"self_cptl_ntin_inrt", "tot_assets_ntin_rate", "sale_totl_rate", "sale_ntin_rate"},
	DomainVolatility:    {"prdy_ctrt", "prdy_vrss_vol_rate", "w52_hgpr_vrss_prpr_ctrt", "vol_tnrt"},
	DomainSupply:        {"hts_frgn_ehrt", "frgn_ntby_qty", "pgtr_ntby_qty", "vol_tnrt"},
}

// scoreKeys keeps the per-domain total field name existing clients read.
var scoreKeys = map[Domain]string{
	DomainStability:     "stability_score",
	DomainProfitability: "profitability_score",
	DomainVolatility:    "volatility_score",
	DomainSupply:        "risk_score",
}

// Report is a scored domain for one symbol, ready to serialize.
type Report struct {
	Symbol     string         `json:"symbol"`
	ReportDate *string        `json:"report_date"`
	RawData    map[string]any `json:"raw_data"`
	Result
}

// Evaluate scores rec for the given domain and wraps it with the symbol,
// the statement period (stac_yymm, statements only) and the raw input fields.
func Evaluate(d Domain, symbol string, rec domain.Record) (Report, error) {
	res, err := Score(d, rec)
	if err != nil {
		return Report{}, err
	}
	rep := Report{
		Symbol:  symbol,
		RawData: rec.Subset(rawFields[d]...),
		Result:  res,
	}
	if d == DomainStability || d == DomainProfitability {
		rep.ReportDate = rec.Optional("stac_yymm")
	}
	return rep, nil
}

// MarshalJSON flattens Result into the report and adds the legacy
// per-domain score key next to total_score.
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	base, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	key, ok := scoreKeys[r.Domain]
	if !ok {
		return base, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	fields[key], _ = json.Marshal(r.TotalScore)
	return json.Marshal(fields)
}
