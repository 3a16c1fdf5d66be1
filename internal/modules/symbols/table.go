// Package symbols resolves company names and tickers against the listed
// company table.
package symbols

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aristath/riskgauge/internal/domain"
	"github.com/aristath/riskgauge/pkg/embedded"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Table is an immutable, indexed listing. Build it once at startup with one
// of the Load functions and share it.
type Table struct {
	symbols []domain.Symbol
	byName  map[string]int
	byCode  map[string]int
}

var _ domain.SymbolResolver = (*Table)(nil)

// NewTable indexes symbols. Entries without a code are dropped; on duplicate
// keys the first entry wins.
func NewTable(symbols []domain.Symbol) *Table {
	t := &Table{
		byName: make(map[string]int, len(symbols)),
		byCode: make(map[string]int, len(symbols)),
	}
	for _, s := range symbols {
		s.Name = strings.TrimSpace(s.Name)
		s.Code = strings.TrimSpace(s.Code)
		if s.Code == "" {
			continue
		}
		idx := len(t.symbols)
		t.symbols = append(t.symbols, s)
		if _, dup := t.byCode[fold(s.Code)]; !dup {
			t.byCode[fold(s.Code)] = idx
		}
		if name := fold(s.Name); name != "" {
			if _, dup := t.byName[name]; !dup {
				t.byName[name] = idx
			}
		}
	}
	return t
}

// Load reads a JSON array of listing entries.
func Load(r io.Reader) (*Table, error) {
	var entries []domain.Symbol
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode symbol list: %w", err)
	}
	return NewTable(entries), nil
}

// LoadFile reads the listing from path, or from the embedded default when
// path is empty.
func LoadFile(path string) (*Table, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if path == "" {
		f, err = embedded.Files.Open(embedded.StockListPath)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol list: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Resolve matches query against company names and tickers. Matching is exact
// after trimming, width folding (full-width digits and Latin letters),
// NFC normalization and lower-casing.
func (t *Table) Resolve(query string) (domain.Symbol, error) {
	key := fold(query)
	if key == "" {
		return domain.Symbol{}, fmt.Errorf("%w: empty query", domain.ErrSymbolNotFound)
	}
	if idx, ok := t.byName[key]; ok {
		return t.symbols[idx], nil
	}
	if idx, ok := t.byCode[key]; ok {
		return t.symbols[idx], nil
	}
	return domain.Symbol{}, fmt.Errorf("%w: %q", domain.ErrSymbolNotFound, strings.TrimSpace(query))
}

// Search returns entries whose name contains q or whose code starts with q,
// name-prefix matches first. limit <= 0 means no limit.
func (t *Table) Search(q string, limit int) []domain.Symbol {
	key := fold(q)
	if key == "" {
		return t.All(limit)
	}

	type hit struct {
		idx  int
		rank int
	}
	var hits []hit
	for i, s := range t.symbols {
		name := fold(s.Name)
		switch {
		case name == key || fold(s.Code) == key:
			hits = append(hits, hit{i, 0})
		case strings.HasPrefix(name, key) || strings.HasPrefix(fold(s.Code), key):
			hits = append(hits, hit{i, 1})
		case strings.Contains(name, key):
			hits = append(hits, hit{i, 2})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].rank < hits[b].rank })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.Symbol, len(hits))
	for i, h := range hits {
		out[i] = t.symbols[h.idx]
	}
	return out
}

// All returns a copy of the listing in file order.
func (t *Table) All(limit int) []domain.Symbol {
	n := len(t.symbols)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Symbol, n)
	copy(out, t.symbols[:n])
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.symbols)
}

func fold(s string) string {
	s = strings.TrimSpace(s)
	s = width.Fold.String(s)
	s = norm.NFC.String(s)
	return strings.ToLower(s)
}

