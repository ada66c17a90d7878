package calculator

import (
	"fmt"
	"math"

	"StockPulse/internal/config"
	"StockPulse/internal/model"
)

// StatusCode classifies the outcome of an indicator computation.
type StatusCode int

const (
	StatusOK StatusCode = iota
	// StatusInsufficientHistory means the series is too short for the
	// configured windows. Expected while a session warms up, not a fault.
	StatusInsufficientHistory
	// StatusNoUsableData means indicators were computed but no position
	// had all four columns defined.
	StatusNoUsableData
)

// Status reports how an indicator computation went.
type Status struct {
	Code StatusCode
	Need int
	Have int
}

func (s Status) OK() bool { return s.Code == StatusOK }

func (s Status) String() string {
	switch s.Code {
	case StatusOK:
		return "OK"
	case StatusInsufficientHistory:
		return fmt.Sprintf("Need %d (Have %d)", s.Need, s.Have)
	case StatusNoUsableData:
		return "No usable data"
	default:
		return "Unknown"
	}
}

// Frame holds the series-aligned indicator rows that survived alignment,
// oldest first. Only rows with all four columns defined are kept.
type Frame struct {
	Rows []model.IndicatorSet
}

// Latest returns the most recent complete row, if any.
func (f *Frame) Latest() (model.IndicatorSet, bool) {
	if f == nil || len(f.Rows) == 0 {
		return model.IndicatorSet{}, false
	}
	return f.Rows[len(f.Rows)-1], true
}

// MinRequired is the minimum series length needed before indicators are
// attempted: the longest window plus a small margin of settled bars.
func MinRequired(ind config.Indicators) int {
	return ind.MaxWindow() + 5
}

// ComputeIndicators derives the MA and RSI columns for the series. It is a
// pure function of its inputs: identical series and config always produce
// an identical frame, so callers may cache the result for a cycle.
func ComputeIndicators(series *model.PriceSeries, ind config.Indicators) (*Frame, Status) {
	need := MinRequired(ind)
	if series == nil || series.Len() < need {
		have := 0
		if series != nil {
			have = series.Len()
		}
		return nil, Status{Code: StatusInsufficientHistory, Need: need, Have: have}
	}

	// Drop points whose price is not a usable number, then re-check.
	clean := make([]model.PricePoint, 0, series.Len())
	for _, p := range series.Points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue
		}
		clean = append(clean, p)
	}
	if len(clean) < need {
		return nil, Status{Code: StatusInsufficientHistory, Need: need, Have: len(clean)}
	}

	closes := make([]float64, len(clean))
	for i, p := range clean {
		closes[i] = p.Close
	}

	shortMA := SMASeries(closes, ind.ShortWindow)
	mediumMA := SMASeries(closes, ind.MediumWindow)
	longMA := SMASeries(closes, ind.LongWindow)
	rsi := RSISeries(closes, ind.RSIWindow)

	frame := &Frame{}
	for i, p := range clean {
		row := model.IndicatorSet{
			Time:     p.Time,
			Close:    p.Close,
			ShortMA:  shortMA[i],
			MediumMA: mediumMA[i],
			LongMA:   longMA[i],
			RSI:      rsi[i],
		}
		if row.Complete() {
			frame.Rows = append(frame.Rows, row)
		}
	}
	if len(frame.Rows) == 0 {
		return frame, Status{Code: StatusNoUsableData, Need: need, Have: len(clean)}
	}
	return frame, Status{Code: StatusOK, Need: need, Have: len(clean)}
}
