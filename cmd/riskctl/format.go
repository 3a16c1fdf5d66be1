package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/aristath/riskgauge/internal/domain"
	"github.com/aristath/riskgauge/internal/modules/quotes"
	"github.com/aristath/riskgauge/internal/modules/scoring"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatReport(w io.Writer, rep scoring.Report) {
	fmt.Fprintf(w, "%s  %d/%d  %s (%s, %s)\n",
		rep.Domain, rep.TotalScore, rep.MaxScore, rep.RiskLevel, rep.Level, rep.Tier)
	if rep.ReportDate != nil {
		fmt.Fprintf(w, "  report %s\n", *rep.ReportDate)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  METRIC\tVALUE\tSCORE")
	for _, m := range rep.Metrics {
		fmt.Fprintf(tw, "  %s\t%s\t%d/%d\n", m.Label, formatValue(m.Value), m.Score, m.Max)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func formatSummary(w io.Writer, s *quotes.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s %s\n", s.Symbol, s.Name, s.Market)
	rows := []struct {
		label string
		value *float64
	}{
		{"price", s.Price},
		{"change", s.Change},
		{"change %", s.ChangeRate},
		{"open", s.Open},
		{"high", s.High},
		{"low", s.Low},
		{"prev close", s.PreviousClose},
		{"PER", s.PER},
		{"PBR", s.PBR},
		{"52w high", s.High52W},
		{"52w low", s.Low52W},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.label, formatValue(r.value))
	}
	if s.Volume != nil {
		fmt.Fprintf(tw, "volume\t%d\n", *s.Volume)
	} else {
		fmt.Fprintf(tw, "volume\t-\n")
	}
	tw.Flush()
}

func formatSymbols(w io.Writer, list []domain.Symbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tMARKET")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Code, s.Name, s.Market)
	}
	tw.Flush()
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
