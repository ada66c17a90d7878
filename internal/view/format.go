package view

import (
	"fmt"
	"time"

	"StockPulse/internal/model"
)

// Display palette, chosen to stay readable on a dark background.
const (
	ColorGreen   = "#32CD32"
	ColorRed     = "#FF4500"
	ColorYellow  = "#FFD700"
	ColorCyan    = "#00FFFF"
	ColorMagenta = "#FF00FF"
	ColorGrey    = "#808080"
	ColorOrange  = "#FFA500"
	ColorDefault = "#FAFAFA"
)

const (
	WeightNormal = "400"
	WeightBold   = "600"
)

// Element is one renderable fragment: text plus style hints. The display
// surface applies the hints however it likes; the formatter never emits
// markup.
type Element struct {
	Text   string `json:"text"`
	Color  string `json:"color"`
	Weight string `json:"weight"`
}

// ViewModel is the complete renderable state of one refresh cycle.
type ViewModel struct {
	Time        Element              `json:"time"`
	Ticker      Element              `json:"ticker"`
	Price       Element              `json:"price"`
	Trend       Element              `json:"trend"`
	Momentum    Element              `json:"momentum"`
	Flash       model.PriceDirection `json:"flash"`
	GeneratedAt time.Time            `json:"generated_at"`
}

func headerElements(symbol string, now time.Time) (Element, Element) {
	t := Element{Text: now.Format("15:04:05"), Color: ColorGrey, Weight: WeightNormal}
	s := Element{Text: symbol, Color: ColorDefault, Weight: WeightBold}
	return t, s
}

// Format builds the view for a successful cycle.
func Format(symbol string, now time.Time, latest model.IndicatorSet,
	trend model.TrendSignal, momentum model.MomentumStatus, rsi model.Value,
	direction model.PriceDirection) ViewModel {

	vm := ViewModel{Flash: direction, GeneratedAt: now}
	vm.Time, vm.Ticker = headerElements(symbol, now)

	vm.Price = Element{
		Text: fmt.Sprintf("P: %.2f @%s | MA: %.2f/%.2f/%.2f",
			latest.Close, latest.Time.Format("15:04:05"),
			latest.ShortMA.Float(), latest.MediumMA.Float(), latest.LongMA.Float()),
		Color:  ColorDefault,
		Weight: WeightNormal,
	}
	vm.Trend = trendElement(trend)
	vm.Momentum = momentumElement(momentum, rsi)
	return vm
}

func trendElement(trend model.TrendSignal) Element {
	switch trend {
	case model.TrendBuy:
		return Element{Text: "MA: >> BUY <<", Color: ColorGreen, Weight: WeightBold}
	case model.TrendSell:
		return Element{Text: "MA: << SELL >>", Color: ColorRed, Weight: WeightBold}
	case model.TrendHold:
		return Element{Text: "MA: HOLD", Color: ColorDefault, Weight: WeightNormal}
	default:
		return Element{Text: fmt.Sprintf("MA: %s", trend), Color: ColorYellow, Weight: WeightNormal}
	}
}

func momentumElement(momentum model.MomentumStatus, rsi model.Value) Element {
	if !momentum.Available() || !rsi.Defined() {
		return Element{Text: fmt.Sprintf("RSI: %s", momentum), Color: ColorYellow, Weight: WeightNormal}
	}
	base := fmt.Sprintf("RSI(%.2f)", rsi.Float())
	switch momentum {
	case model.MomentumOverbought:
		return Element{Text: base + " OB", Color: ColorOrange, Weight: WeightBold}
	case model.MomentumOversold:
		return Element{Text: base + " OS", Color: ColorOrange, Weight: WeightBold}
	case model.MomentumBullish:
		return Element{Text: base + " Bull", Color: ColorCyan, Weight: WeightNormal}
	case model.MomentumBearish:
		return Element{Text: base + " Bear", Color: ColorMagenta, Weight: WeightNormal}
	default:
		return Element{Text: base + " Neut", Color: ColorDefault, Weight: WeightNormal}
	}
}

// FormatStatus builds the view for a cycle where data arrived but the
// indicators could not be computed, e.g. while history is warming up.
func FormatStatus(symbol string, now time.Time, status string) ViewModel {
	vm := ViewModel{GeneratedAt: now}
	vm.Time, vm.Ticker = headerElements(symbol, now)
	vm.Price = Element{Text: fmt.Sprintf("Data Error: %s", status), Color: ColorYellow, Weight: WeightNormal}
	vm.Trend = Element{Text: fmt.Sprintf("MA: %s", status), Color: ColorYellow, Weight: WeightNormal}
	vm.Momentum = Element{Text: fmt.Sprintf("RSI: %s", status), Color: ColorYellow, Weight: WeightNormal}
	return vm
}

// FormatFetchError builds the view for a failed fetch. The error kind is
// surfaced verbatim instead of any stale numbers.
func FormatFetchError(symbol string, now time.Time, reason string) ViewModel {
	vm := ViewModel{GeneratedAt: now}
	vm.Time, vm.Ticker = headerElements(symbol, now)
	vm.Price = Element{Text: fmt.Sprintf("Data Error: %s", reason), Color: ColorYellow, Weight: WeightNormal}
	vm.Trend = Element{Text: "MA: DATA_ERR", Color: ColorYellow, Weight: WeightNormal}
	vm.Momentum = Element{Text: "RSI: DATA_ERR", Color: ColorYellow, Weight: WeightNormal}
	return vm
}

// FormatInit is the placeholder view published before the first cycle.
func FormatInit(symbol string, now time.Time) ViewModel {
	vm := ViewModel{GeneratedAt: now}
	vm.Time, vm.Ticker = headerElements(symbol, now)
	vm.Trend = Element{Text: "MA: INIT", Color: ColorYellow, Weight: WeightNormal}
	vm.Momentum = Element{Text: "RSI: INIT", Color: ColorYellow, Weight: WeightNormal}
	return vm
}
