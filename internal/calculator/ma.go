package calculator

import "StockPulse/internal/model"

// SMASeries computes the simple moving average over the given window for
// every position of prices. Positions with fewer than window prior points
// are undefined.
func SMASeries(prices []float64, window int) []model.Value {
	out := make([]model.Value, len(prices))
	if window <= 0 {
		for i := range out {
			out[i] = model.Missing()
		}
		return out
	}

	var sum float64
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i < window-1 {
			out[i] = model.Missing()
			continue
		}
		out[i] = model.Defined(sum / float64(window))
	}
	return out
}
