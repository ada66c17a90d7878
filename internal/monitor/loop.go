package monitor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"StockPulse/internal/calculator"
	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
	"StockPulse/internal/view"
)

// Publisher receives the view of a finished cycle. One-way: the loop does
// not wait for or read back anything.
type Publisher interface {
	Publish(vm view.ViewModel)
}

// Loop drives the refresh cycles: on each scheduler tick it decides whether
// a cycle is due, fetches data, computes indicators, classifies signals and
// publishes the resulting view. At most one cycle runs at a time; a tick
// arriving while a cycle is still in flight is skipped.
type Loop struct {
	cfg     *config.Config
	fetcher collector.Fetcher
	state   *State
	pub     Publisher
	log     *logrus.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	running sync.Mutex
}

// NewLoop assembles a refresh loop around the given collaborators.
func NewLoop(cfg *config.Config, fetcher collector.Fetcher, state *State,
	pub Publisher, log *logrus.Logger, m *metrics.Metrics) *Loop {
	return &Loop{
		cfg:     cfg,
		fetcher: fetcher,
		state:   state,
		pub:     pub,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// State exposes the loop's refresh state for the web layer.
func (l *Loop) State() *State { return l.state }

// SetTicker normalizes and applies a user-supplied symbol.
func (l *Loop) SetTicker(raw string) (string, bool) {
	symbol, changed := l.state.SetSymbol(raw)
	if changed {
		l.metrics.TickerChanges.Inc()
		l.log.WithField("symbol", symbol).Info("ticker changed, next tick forced")
	}
	return symbol, changed
}

// Tick is invoked by the scheduler. It runs a full cycle when one is due
// and is a no-op otherwise, bounding the cycle rate to the configured
// interval no matter how often the scheduler fires. The cron scheduler
// starts every trigger in its own goroutine, so a tick that cannot claim
// the cycle lock means the previous cycle is still fetching; it is skipped
// like any other early tick.
func (l *Loop) Tick() {
	l.metrics.TicksTotal.Inc()
	if !l.running.TryLock() {
		l.metrics.SkippedTicks.Inc()
		return
	}
	defer l.running.Unlock()

	now := l.now()
	if !l.state.Due(now, l.cfg.Refresh.Interval.Duration()) {
		l.metrics.SkippedTicks.Inc()
		return
	}
	l.runCycle(now)
}

func (l *Loop) runCycle(now time.Time) {
	snap := l.state.Snapshot()
	symbol := snap.Symbol
	started := time.Now()

	// A broken invariant must not kill the loop; the cycle surfaces it
	// and the next tick retries.
	defer func() {
		if r := recover(); r != nil {
			l.log.WithField("symbol", symbol).Errorf("cycle panic: %v", r)
			l.pub.Publish(view.FormatFetchError(symbol, now, fmt.Sprintf("internal error: %v", r)))
			l.state.MarkRefreshed(snap.Gen, now, model.Missing())
			l.metrics.CyclesTotal.WithLabelValues("panic").Inc()
		}
	}()

	points, err := l.fetcher.FetchIntraday(symbol, l.cfg.DataSource.Lookback, l.cfg.DataSource.SampleInterval)
	if err != nil {
		kind := "transport"
		if errors.Is(err, collector.ErrNoData) {
			kind = "no_data"
		}
		l.metrics.FetchFailures.WithLabelValues(kind).Inc()
		l.log.WithFields(logrus.Fields{"symbol": symbol, "kind": kind}).
			Warnf("fetch failed: %v", err)

		// The error cycle still counts as a refresh so a failing source
		// is retried once per interval, not once per tick.
		l.pub.Publish(view.FormatFetchError(symbol, now, err.Error()))
		l.state.MarkRefreshed(snap.Gen, now, model.Missing())
		l.metrics.CyclesTotal.WithLabelValues("fetch_error").Inc()
		return
	}

	series := (&model.PriceSeries{Symbol: symbol, Points: points, FetchedAt: now}).
		Tail(l.cfg.DataSource.Retention)

	frame, status := calculator.ComputeIndicators(series, l.cfg.Indicators)
	if !status.OK() {
		l.log.WithFields(logrus.Fields{"symbol": symbol, "status": status.String()}).
			Debug("indicators not computable yet")
		l.pub.Publish(view.FormatStatus(symbol, now, status.String()))
		l.state.MarkRefreshed(snap.Gen, now, model.Missing())
		l.metrics.CyclesTotal.WithLabelValues("no_indicators").Inc()
		return
	}

	latest, _ := frame.Latest()
	trend := strategy.ClassifyTrend(latest)
	momentum, rsi := strategy.ClassifyMomentum(latest, l.cfg.Indicators)
	direction := priceDirection(snap.LastClose, latest.Close)

	l.pub.Publish(view.Format(symbol, now, latest, trend, momentum, rsi, direction))
	l.state.MarkRefreshed(snap.Gen, now, model.Defined(latest.Close))

	l.metrics.CyclesTotal.WithLabelValues("ok").Inc()
	l.metrics.CycleSeconds.Set(time.Since(started).Seconds())
	l.log.WithFields(logrus.Fields{
		"symbol":   symbol,
		"cycle":    snap.Cycles + 1,
		"trend":    trend,
		"momentum": momentum,
		"close":    latest.Close,
	}).Debug("cycle published")
}

// priceDirection compares the new close against the previous cycle's. With
// no remembered close (startup, symbol change) the direction is unknown.
func priceDirection(prev model.Value, close float64) model.PriceDirection {
	if !prev.Defined() {
		return model.PriceUnknown
	}
	switch {
	case close > prev.Float():
		return model.PriceUp
	case close < prev.Float():
		return model.PriceDown
	default:
		return model.PriceFlat
	}
}
