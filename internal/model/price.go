package model

import "time"

// PricePoint is a single intraday observation.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds the intraday closes for one symbol, oldest first.
// A series is built fresh each refresh cycle and never mutated afterwards.
type PriceSeries struct {
	Symbol    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of observations.
func (s *PriceSeries) Len() int { return len(s.Points) }

// Tail returns a series trimmed to the most recent n observations.
func (s *PriceSeries) Tail(n int) *PriceSeries {
	if n <= 0 || len(s.Points) <= n {
		return s
	}
	return &PriceSeries{
		Symbol:    s.Symbol,
		Points:    s.Points[len(s.Points)-n:],
		FetchedAt: s.FetchedAt,
	}
}

// Closes extracts the closing prices in order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Latest returns the most recent point, if any.
func (s *PriceSeries) Latest() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
