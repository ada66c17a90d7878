package model

import "time"

// IndicatorSet holds the computed indicator values for one bar.
type IndicatorSet struct {
	Time     time.Time
	Close    float64
	ShortMA  Value
	MediumMA Value
	LongMA   Value
	RSI      Value
}

// Complete reports whether all four indicator columns are defined.
func (s IndicatorSet) Complete() bool {
	return s.ShortMA.Defined() && s.MediumMA.Defined() && s.LongMA.Defined() && s.RSI.Defined()
}
