package scoring

// Threshold tables. Ratios and rates are percentages as KIS reports them.

var stabilityModel = &model{
	domain: DomainStability,
	metrics: []metric{
		{key: "debt_ratio", label: "부채비율", field: "lblt_rate", max: 30,
			rule: lowerBetter(0, band{100, 30}, band{150, 20}, band{200, 10})},
		{key: "fixed_ratio", label: "고정비율", field: "bram_depn", max: 30,
			rule: lowerBetter(0, band{50, 30}, band{75, 20}, band{100, 10})},
		{key: "current_ratio", label: "유동비율", field: "crnt_rate", max: 30,
			rule: higherBetter(0, band{150, 30}, band{100, 20}, band{70, 10})},
		{key: "quick_ratio", label: "당좌비율", field: "quck_rate", max: 30,
			rule: higherBetter(0, band{100, 30}, band{70, 20}, band{50, 10})},
	},
	levels: []level{
		{min: 90, code: "stable", label: "안정", tier: TierFavorable},
		{min: 60, code: "moderate", label: "보통", tier: TierNeutral},
		{min: 0, code: "risky", label: "위험", tier: TierUnfavorable},
	},
}

var profitabilityModel = &model{
	domain: DomainProfitability,
	metrics: []metric{
		{key: "roe", label: "ROE", field: "self_cptl_ntin_inrt", max: 30,
			rule: higherBetter(0, band{15, 30}, band{10, 20}, band{5, 10})},
		// Not every KIS revision of profit-ratio carries ROA.
		{key: "roa", label: "ROA", field: "tot_assets_ntin_rate", max: 30,
			rule: higherBetter(0, band{10, 30}, band{7, 20}, band{4, 10})},
		{key: "operating_margin", label: "영업이익률", field: "sale_totl_rate", max: 20,
			rule: higherBetter(0, band{20, 20}, band{10, 10}, band{5, 5})},
		{key: "net_margin", label: "순이익률", field: "sale_ntin_rate", max: 20,
			rule: higherBetter(0, band{15, 20}, band{10, 10}, band{5, 5})},
	},
	levels: []level{
		{min: 80, code: "excellent", label: "우수", tier: TierFavorable},
		{min: 50, code: "moderate", label: "보통", tier: TierNeutral},
		{min: 0, code: "weak", label: "취약", tier: TierUnfavorable},
	},
}

// Volatility is scored as risk: more movement, more points.
var volatilityModel = &model{
	domain: DomainVolatility,
	metrics: []metric{
		{key: "change_rate", label: "등락률", field: "prdy_ctrt", max: 30, abs: true,
			rule: higherBetter(0, band{7, 30}, band{5, 25}, band{3, 15}, band{1, 5})},
		{key: "volume_change_rate", label: "거래량변동률", field: "prdy_vrss_vol_rate", max: 30,
			rule: higherBetter(0, band{500, 30}, band{300, 25}, band{100, 15}, band{50, 5})},
		{key: "high_52w_disparity", label: "괴리율", field: "w52_hgpr_vrss_prpr_ctrt", max: 20, abs: true,
			rule: higherBetter(0, band{40, 20}, band{30, 15}, band{20, 10}, band{10, 5})},
		{key: "turnover", label: "회전율", field: "vol_tnrt", max: 20,
			rule: higherBetter(0, band{20, 20}, band{10, 15}, band{5, 10}, band{1, 5})},
	},
	levels: []level{
		{min: 70, code: "high", label: "높음", tier: TierUnfavorable},
		{min: 40, code: "moderate", label: "보통", tier: TierNeutral},
		{min: 0, code: "low", label: "낮음", tier: TierFavorable},
	},
}

// netBuy applies to both foreign and institutional (program) flows, in shares.
var netBuy = strictlyAbove(0, band{1_000_000, 25}, band{100_000, 20}, band{0, 15}, band{-100_000, 5})

var supplyModel = &model{
	domain: DomainSupply,
	metrics: []metric{
		// Ownership never scores below 5, including when the field is missing.
		{key: "foreign_ownership", label: "외국인 지분율", field: "hts_frgn_ehrt", max: 30, absent: 5,
			rule: higherBetter(5, band{50, 30}, band{40, 25}, band{30, 20}, band{20, 10})},
		{key: "foreign_net_buy", label: "외국인 순매수", field: "frgn_ntby_qty", max: 25,
			rule: netBuy},
		{key: "institutional_net_buy", label: "기관 순매수", field: "pgtr_ntby_qty", max: 25,
			rule: netBuy},
		{key: "turnover", label: "회전율(유동성)", field: "vol_tnrt", max: 20,
			rule: window{lo: 0.1, hi: 2.0, nearMax: 5.0, inside: 20, near: 10, far: 5}},
	},
	levels: []level{
		{min: 70, code: "low", label: "낮음", tier: TierFavorable},
		{min: 40, code: "moderate", label: "보통", tier: TierNeutral},
		{min: 0, code: "high", label: "높음", tier: TierUnfavorable},
	},
}
