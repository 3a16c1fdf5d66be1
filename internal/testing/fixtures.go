package testing

import (
	"fmt"
	"time"

	"github.com/aristath/riskgauge/internal/domain"
)

// Samsung is the symbol used by most fixtures
var Samsung = domain.Symbol{Name: "삼성전자", Code: "005930", Market: "KOSPI"}

// NewResolverFixture returns a resolver that knows Samsung
func NewResolverFixture() *MockSymbolResolver {
	return &MockSymbolResolver{Symbols: []domain.Symbol{
		Samsung,
		{Name: "SK하이닉스", Code: "000660", Market: "KOSPI"},
	}}
}

// NewQuoteFixture returns an inquire-price row with every field the
// scorers and the summary read.
func NewQuoteFixture() domain.Record {
	return domain.Record{
		"stck_prpr":               "71,000",
		"prdy_vrss":               "-500",
		"prdy_ctrt":               "-0.70",
		"stck_oprc":               "71500",
		"stck_hgpr":               "72000",
		"stck_lwpr":               "70500",
		"stck_sdpr":               "71500",
		"acml_vol":                "12,345,678",
		"acml_tr_pbmn":            "876543210000",
		"per":                     "13.5",
		"pbr":                     "1.2",
		"eps":                     "5,250",
		"bps":                     "59,000",
		"hts_avls":                "4,238,000",
		"w52_hgpr":                "88000",
		"w52_lwpr":                "49900",
		"w52_hgpr_vrss_prpr_ctrt": "-19.32",
		"prdy_vrss_vol_rate":      "85.0",
		"vol_tnrt":                "0.21",
		"hts_frgn_ehrt":           "55.3",
		"frgn_ntby_qty":           "1200000",
		"pgtr_ntby_qty":           "-300000",
	}
}

// NewStabilityFixture returns stability-ratio rows, newest first
func NewStabilityFixture() []domain.Record {
	return []domain.Record{
		{"stac_yymm": "202312", "lblt_rate": "25.4", "bram_depn": "8.1", "crnt_rate": "258.8", "quck_rate": "189.5"},
		{"stac_yymm": "202212", "lblt_rate": "26.4", "bram_depn": "8.4", "crnt_rate": "278.9", "quck_rate": "211.7"},
	}
}

// NewProfitabilityFixture returns profit-ratio rows, newest first
func NewProfitabilityFixture() []domain.Record {
	return []domain.Record{
		{"stac_yymm": "202312", "tot_assets_ntin_rate": "4.1", "self_cptl_ntin_inrt": "4.2", "sale_ntin_rate": "5.5", "sale_totl_rate": "30.1"},
	}
}

// NewCandleFixture returns n daily-price rows, newest first, one per
// calendar day ending on end. Closes rise by 100 per day from 50,000.
func NewCandleFixture(n int, end time.Time) []domain.Record {
	rows := make([]domain.Record, 0, n)
	for i := 0; i < n; i++ {
		day := end.AddDate(0, 0, -i)
		closePrice := 50000 + 100*(n-1-i)
		rows = append(rows, domain.Record{
			"stck_bsop_date": day.Format("20060102"),
			"stck_oprc":      fmt.Sprint(closePrice - 50),
			"stck_hgpr":      fmt.Sprint(closePrice + 200),
			"stck_lwpr":      fmt.Sprint(closePrice - 200),
			"stck_clpr":      fmt.Sprint(closePrice),
			"acml_vol":       fmt.Sprint(1000000 + i),
		})
	}
	return rows
}
