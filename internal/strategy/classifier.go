package strategy

import (
	"StockPulse/internal/config"
	"StockPulse/internal/model"
)

// ClassifyTrend maps the latest moving averages to a trend verdict.
// Bull alignment: short > medium > long. Bear alignment: short < medium < long.
// Every other defined ordering is HOLD.
func ClassifyTrend(latest model.IndicatorSet) model.TrendSignal {
	mas := []model.Value{latest.ShortMA, latest.MediumMA, latest.LongMA}
	for _, v := range mas {
		if v.IsNaN() {
			return model.TrendNaN
		}
	}
	for _, v := range mas {
		if !v.Defined() {
			return model.TrendMissing
		}
	}

	s, m, l := latest.ShortMA.Float(), latest.MediumMA.Float(), latest.LongMA.Float()
	switch {
	case s > m && m > l:
		return model.TrendBuy
	case s < m && m < l:
		return model.TrendSell
	default:
		return model.TrendHold
	}
}

// ClassifyMomentum maps the latest RSI value to a momentum status. The
// ladder is checked strictly in order: overbought, oversold, above midpoint,
// below midpoint, exactly midpoint. Threshold comparisons are strict, so a
// reading sitting exactly on the overbought line is still only bullish.
// Assumes a validated config (oversold < midpoint < overbought).
func ClassifyMomentum(latest model.IndicatorSet, ind config.Indicators) (model.MomentumStatus, model.Value) {
	if latest.RSI.IsNaN() {
		return model.MomentumNaN, latest.RSI
	}
	if !latest.RSI.Defined() {
		return model.MomentumMissing, latest.RSI
	}

	v := latest.RSI.Float()
	switch {
	case v > ind.Overbought:
		return model.MomentumOverbought, latest.RSI
	case v < ind.Oversold:
		return model.MomentumOversold, latest.RSI
	case v > ind.Midpoint:
		return model.MomentumBullish, latest.RSI
	case v < ind.Midpoint:
		return model.MomentumBearish, latest.RSI
	default:
		return model.MomentumNeutral, latest.RSI
	}
}
