// Package embedded provides static assets compiled into the binary.
package embedded

import (
	"embed"
)

// Files contains:
//   - data/stock_list.json - default listed-company table used when no
//     SYMBOL_LIST_PATH is configured
//
//go:embed data
var Files embed.FS

// StockListPath is the path of the default listing inside Files.
const StockListPath = "data/stock_list.json"
