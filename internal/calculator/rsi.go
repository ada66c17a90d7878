package calculator

import "StockPulse/internal/model"

// RSISeries computes the Wilder-smoothed RSI over the given period for
// every position of prices. The first period points are consumed as
// warm-up and stay undefined; the seed average uses the first period
// price changes, after which each position applies one smoothing step.
func RSISeries(prices []float64, period int) []model.Value {
	out := make([]model.Value, len(prices))
	for i := range out {
		out[i] = model.Missing()
	}
	if period <= 0 || len(prices) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) model.Value {
	if avgLoss == 0 {
		return model.Defined(100)
	}
	rs := avgGain / avgLoss
	return model.Defined(100 - 100/(1+rs))
}
