package collector

import (
	"errors"

	"StockPulse/internal/model"
)

// ErrNoData marks fetch results that came back empty or without the fields
// the monitor needs. It is an expected condition, distinct from transport
// faults, and the refresh loop renders it instead of crashing.
var ErrNoData = errors.New("no usable data returned")

// Fetcher defines the interface for fetching intraday price data.
// Results are ordered oldest to newest.
type Fetcher interface {
	FetchIntraday(symbol, lookback, interval string) ([]model.PricePoint, error)
	Name() string
}
