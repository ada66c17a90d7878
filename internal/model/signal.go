package model

// TrendSignal is the moving-average alignment verdict for the latest bar.
type TrendSignal string

const (
	TrendBuy  TrendSignal = "BUY"
	TrendSell TrendSignal = "SELL"
	TrendHold TrendSignal = "HOLD"

	// TrendMissing means at least one MA column has no value yet;
	// TrendNaN means a value exists but NaN propagated into it.
	// Both render the same to the user, kept apart for logs.
	TrendMissing TrendSignal = "MA_MISSING"
	TrendNaN     TrendSignal = "MA_NAN"
)

// Available reports whether the signal is an actual trading verdict.
func (t TrendSignal) Available() bool {
	return t == TrendBuy || t == TrendSell || t == TrendHold
}

// MomentumStatus classifies the latest RSI value against the configured
// thresholds.
type MomentumStatus string

const (
	MomentumOverbought MomentumStatus = "Overbought"
	MomentumOversold   MomentumStatus = "Oversold"
	MomentumBullish    MomentumStatus = "Bullish"
	MomentumBearish    MomentumStatus = "Bearish"
	MomentumNeutral    MomentumStatus = "Neutral"

	MomentumMissing MomentumStatus = "RSI_MISSING"
	MomentumNaN     MomentumStatus = "RSI_NAN"
)

// Available reports whether the status carries a usable RSI reading.
func (m MomentumStatus) Available() bool {
	switch m {
	case MomentumOverbought, MomentumOversold, MomentumBullish, MomentumBearish, MomentumNeutral:
		return true
	}
	return false
}

// PriceDirection compares the latest close against the previous cycle's.
type PriceDirection string

const (
	PriceUp      PriceDirection = "up"
	PriceDown    PriceDirection = "down"
	PriceFlat    PriceDirection = "flat"
	PriceUnknown PriceDirection = "" // first cycle after start or ticker change
)
