package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/aristath/riskgauge/internal/clientdata"
	"github.com/aristath/riskgauge/internal/domain"
)

// Endpoint paths and transaction ids
const (
	pathInquirePrice      = "/uapi/domestic-stock/v1/quotations/inquire-price"
	pathInquireDailyPrice = "/uapi/domestic-stock/v1/quotations/inquire-daily-price"
	pathStabilityRatio    = "/uapi/domestic-stock/v1/finance/stability-ratio"
	pathProfitRatio       = "/uapi/domestic-stock/v1/finance/profit-ratio"

	trInquirePrice      = "FHKST01010100"
	trInquireDailyPrice = "FHKST01010400"
	trStabilityRatio    = "FHKST66430600"
	trProfitRatio       = "FHKST66430400"

	marketStock = "J" // KRX listed stocks
)

var _ domain.MarketDataClient = (*Client)(nil)

// InquirePrice returns the current quote for symbol.
func (c *Client) InquirePrice(ctx context.Context, symbol string) (domain.Record, error) {
	return cached(c, clientdata.TableQuotes, symbol, clientdata.TTLQuote, false, func() (domain.Record, error) {
		raw, err := c.get(ctx, pathInquirePrice, trInquirePrice, stockParams(symbol))
		if err != nil {
			return nil, err
		}
		return decodeObject(raw, trInquirePrice)
	})
}

// InquireDailyPrice returns daily, weekly or monthly bars for symbol, most
// recent first. Prices are adjusted for corporate actions.
func (c *Client) InquireDailyPrice(ctx context.Context, symbol string, period domain.Period) ([]domain.Record, error) {
	key := clientdata.CandleKey(symbol, string(period))
	return cached(c, clientdata.TableCandles, key, clientdata.TTLCandles, false, func() ([]domain.Record, error) {
		params := stockParams(symbol)
		params.Set("fid_period_div_code", string(period))
		params.Set("fid_org_adj_prc", "1")

		raw, err := c.get(ctx, pathInquireDailyPrice, trInquireDailyPrice, params)
		if err != nil {
			return nil, err
		}
		return decodeRows(raw, trInquireDailyPrice)
	})
}

// StabilityRatio returns the stability ratios per reporting period, most
// recent first. Falls back to stale cached data when the call fails.
func (c *Client) StabilityRatio(ctx context.Context, symbol string) ([]domain.Record, error) {
	return c.statement(ctx, clientdata.TableStability, pathStabilityRatio, trStabilityRatio, symbol)
}

// ProfitRatio returns the profitability ratios per reporting period, most
// recent first. Falls back to stale cached data when the call fails.
func (c *Client) ProfitRatio(ctx context.Context, symbol string) ([]domain.Record, error) {
	return c.statement(ctx, clientdata.TableProfitability, pathProfitRatio, trProfitRatio, symbol)
}

func (c *Client) statement(ctx context.Context, table, path, trID, symbol string) ([]domain.Record, error) {
	return cached(c, table, symbol, clientdata.TTLStatement, true, func() ([]domain.Record, error) {
		params := stockParams(symbol)
		params.Set("fid_div_cls_code", "1") // quarterly

		raw, err := c.get(ctx, path, trID, params)
		if err != nil {
			return nil, err
		}
		return decodeRows(raw, trID)
	})
}

func stockParams(symbol string) url.Values {
	return url.Values{
		"fid_cond_mrkt_div_code": {marketStock},
		"fid_input_iscd":         {symbol},
	}
}

// cached serves fresh entries from the cache, otherwise calls fetch and
// stores its result. With staleOK an expired entry is returned when fetch
// fails.
func cached[T any](c *Client, table, key string, ttl time.Duration, staleOK bool, fetch func() (T, error)) (T, error) {
	var hit T
	if c.cacheRepo != nil {
		found, err := c.cacheRepo.GetIfFresh(table, key, &hit)
		if err != nil {
			c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Cache read failed")
		} else if found {
			c.log.Debug().Str("table", table).Str("key", key).Msg("Serving from cache")
			return hit, nil
		}
	}

	result, err := fetch()
	if err != nil {
		if staleOK && c.cacheRepo != nil {
			var stale T
			if found, cacheErr := c.cacheRepo.Get(table, key, &stale); cacheErr == nil && found {
				c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Upstream failed, serving stale cache")
				return stale, nil
			}
		}
		var zero T
		return zero, err
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(table, key, result, ttl); err != nil {
			c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Failed to cache response")
		}
	}
	return result, nil
}

// decodeObject handles endpoints whose output is a single object.
func decodeObject(raw json.RawMessage, trID string) (domain.Record, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.Record{}, nil
	}
	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &domain.UpstreamError{TrID: trID, StatusCode: 200, Message: fmt.Sprintf("unexpected output: %v", err)}
	}
	return rec, nil
}

// decodeRows handles endpoints whose output is a list. A single object is
// accepted as a one-row list.
func decodeRows(raw json.RawMessage, trID string) ([]domain.Record, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.Record{}, nil
	}
	var rows []domain.Record
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows, nil
	}
	rec, err := decodeObject(raw, trID)
	if err != nil {
		return nil, err
	}
	return []domain.Record{rec}, nil
}
