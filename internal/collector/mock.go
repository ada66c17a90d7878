package collector

import (
	"time"

	"StockPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Points []model.PricePoint
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntraday(_, _, _ string) ([]model.PricePoint, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Points != nil {
		return m.Points, nil
	}
	return GenerateBars(100, 30, time.Minute), nil
}

// GenerateBars produces count synthetic one-step bars drifting around basePrice.
func GenerateBars(basePrice float64, count int, step time.Duration) []model.PricePoint {
	start := time.Now().UTC().Truncate(step).Add(-time.Duration(count) * step)
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Time:  start.Add(time.Duration(i) * step),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return points
}
