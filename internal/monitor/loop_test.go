package monitor

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/view"
)

type capturePublisher struct {
	views []view.ViewModel
}

func (p *capturePublisher) Publish(vm view.ViewModel) {
	p.views = append(p.views, vm)
}

func (p *capturePublisher) latest(t *testing.T) view.ViewModel {
	t.Helper()
	require.NotEmpty(t, p.views)
	return p.views[len(p.views)-1]
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.DataSource.Symbol = "AAPL"
	cfg.DataSource.SampleInterval = "1m"
	cfg.DataSource.Lookback = "5d"
	cfg.DataSource.Retention = 150
	cfg.Indicators = config.Indicators{
		ShortWindow: 5, MediumWindow: 8, LongWindow: 13, RSIWindow: 14,
		Overbought: 70, Oversold: 30, Midpoint: 50,
	}
	cfg.Refresh.Interval = config.Duration(time.Second)
	return cfg
}

func risingBars(n int, base float64) []model.PricePoint {
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, n)
	for i := range points {
		points[i] = model.PricePoint{
			Time:  start.Add(time.Duration(i) * time.Minute),
			Close: base + float64(i),
		}
	}
	return points
}

func newTestLoop(t *testing.T, fetcher collector.Fetcher) (*Loop, *capturePublisher, *time.Time) {
	t.Helper()
	cfg := testConfig()
	log := logrus.New()
	log.SetOutput(io.Discard)
	pub := &capturePublisher{}
	m := metrics.New(prometheus.NewRegistry())

	loop := NewLoop(cfg, fetcher, NewState(cfg.DataSource.Symbol), pub, log, m)
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	loop.now = func() time.Time { return now }
	return loop, pub, &now
}

func TestLoop_FirstTickRunsUnconditionally(t *testing.T) {
	mock := &collector.MockFetcher{Points: risingBars(20, 100)}
	loop, pub, _ := newTestLoop(t, mock)

	loop.Tick()

	assert.Equal(t, 1, mock.Calls)
	require.Len(t, pub.views, 1)
	assert.Equal(t, uint64(1), loop.State().Snapshot().Cycles)
}

func TestLoop_RisingSeriesClassifiesBuy(t *testing.T) {
	// 20 one-minute bars rising 100..119 with windows 5/8/13: the short MA
	// ends above the medium and long ones, so the verdict is BUY.
	mock := &collector.MockFetcher{Points: risingBars(20, 100)}
	loop, pub, _ := newTestLoop(t, mock)

	loop.Tick()

	vm := pub.latest(t)
	assert.Equal(t, "MA: >> BUY <<", vm.Trend.Text)
	assert.Equal(t, "AAPL", vm.Ticker.Text)
	assert.Contains(t, vm.Momentum.Text, "RSI(100.00)")
	assert.Equal(t, model.PriceUnknown, vm.Flash, "no prior close, no direction")
}

func TestLoop_StalenessGateSkipsEarlyTicks(t *testing.T) {
	mock := &collector.MockFetcher{Points: risingBars(20, 100)}
	loop, pub, now := newTestLoop(t, mock)

	loop.Tick()
	before := loop.State().Snapshot()

	*now = now.Add(300 * time.Millisecond)
	loop.Tick() // below the 1s interval: no-op

	after := loop.State().Snapshot()
	assert.Equal(t, 1, mock.Calls)
	assert.Len(t, pub.views, 1)
	assert.Equal(t, before, after, "a skipped tick must not mutate state")

	*now = now.Add(time.Second)
	loop.Tick()
	assert.Equal(t, 2, mock.Calls)
	assert.Len(t, pub.views, 2)
}

func TestLoop_PriceDirectionAcrossCycles(t *testing.T) {
	mock := &collector.MockFetcher{Points: risingBars(20, 100)}
	loop, pub, now := newTestLoop(t, mock)

	loop.Tick()
	assert.Equal(t, model.PriceUnknown, pub.latest(t).Flash)

	mock.Points = risingBars(20, 101) // latest close 120 vs remembered 119
	*now = now.Add(time.Second)
	loop.Tick()
	assert.Equal(t, model.PriceUp, pub.latest(t).Flash)

	mock.Points = risingBars(20, 95)
	*now = now.Add(time.Second)
	loop.Tick()
	assert.Equal(t, model.PriceDown, pub.latest(t).Flash)
}

func TestLoop_TickerChangeForcesCycleAndResetsDirection(t *testing.T) {
	mock := &collector.MockFetcher{Points: risingBars(20, 100)}
	loop, pub, now := newTestLoop(t, mock)

	loop.Tick()

	symbol, changed := loop.SetTicker("  msft ")
	assert.True(t, changed)
	assert.Equal(t, "MSFT", symbol)

	// Interval has not elapsed, but the reset forces the cycle anyway.
	*now = now.Add(100 * time.Millisecond)
	loop.Tick()

	vm := pub.latest(t)
	assert.Equal(t, "MSFT", vm.Ticker.Text)
	assert.Equal(t, model.PriceUnknown, vm.Flash,
		"first cycle after a ticker change must not compare against the old instrument")
	assert.Equal(t, 2, mock.Calls)
}

func TestLoop_SetTickerNoopCases(t *testing.T) {
	mock := &collector.MockFetcher{Points: risingBars(20, 100)}
	loop, _, _ := newTestLoop(t, mock)

	symbol, changed := loop.SetTicker("aapl")
	assert.False(t, changed, "same symbol after normalization")
	assert.Equal(t, "AAPL", symbol)

	symbol, changed = loop.SetTicker("   ")
	assert.False(t, changed, "blank input is ignored")
	assert.Equal(t, "AAPL", symbol)
}

func TestLoop_FetchFailurePublishesErrorAndStampsRefresh(t *testing.T) {
	mock := &collector.MockFetcher{Err: errors.New("connection reset")}
	loop, pub, now := newTestLoop(t, mock)

	loop.Tick()

	vm := pub.latest(t)
	assert.Equal(t, "MA: DATA_ERR", vm.Trend.Text)
	assert.Contains(t, vm.Price.Text, "connection reset")

	// The failed cycle still stamps the refresh time: the next early tick
	// must not turn into a tight retry loop.
	snap := loop.State().Snapshot()
	assert.Equal(t, *now, snap.LastRefresh)
	assert.False(t, snap.LastClose.Defined())

	*now = now.Add(200 * time.Millisecond)
	loop.Tick()
	assert.Equal(t, 1, mock.Calls)
}

func TestLoop_NoDataKeepsRememberedClose(t *testing.T) {
	mock := &collector.MockFetcher{Points: risingBars(20, 100)}
	loop, _, now := newTestLoop(t, mock)

	loop.Tick()
	require.True(t, loop.State().Snapshot().LastClose.Defined())

	mock.Points = nil
	mock.Err = collector.ErrNoData
	*now = now.Add(time.Second)
	loop.Tick()

	snap := loop.State().Snapshot()
	assert.True(t, snap.LastClose.Defined(), "error cycles keep the remembered close")
	assert.Equal(t, 119.0, snap.LastClose.Float())
}

func TestLoop_InsufficientHistoryRendersStatus(t *testing.T) {
	mock := &collector.MockFetcher{Points: risingBars(10, 100)}
	loop, pub, _ := newTestLoop(t, mock)

	loop.Tick()

	vm := pub.latest(t)
	assert.Equal(t, "MA: Need 19 (Have 10)", vm.Trend.Text)
	assert.Equal(t, "RSI: Need 19 (Have 10)", vm.Momentum.Text)
}

// blockingFetcher parks inside the fetch until released, holding a cycle
// open so overlapping ticks can be provoked.
type blockingFetcher struct {
	entered chan struct{}
	release chan struct{}
	calls   int
}

func (f *blockingFetcher) Name() string { return "blocking" }

func (f *blockingFetcher) FetchIntraday(_, _, _ string) ([]model.PricePoint, error) {
	f.calls++
	f.entered <- struct{}{}
	<-f.release
	return risingBars(20, 100), nil
}

// funcFetcher delegates to a swappable function.
type funcFetcher struct {
	fn func() ([]model.PricePoint, error)
}

func (f *funcFetcher) Name() string { return "func" }

func (f *funcFetcher) FetchIntraday(_, _, _ string) ([]model.PricePoint, error) {
	return f.fn()
}

func TestLoop_OverlappingTicksRunSingleCycle(t *testing.T) {
	fetch := &blockingFetcher{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	loop, pub, _ := newTestLoop(t, fetch)

	done := make(chan struct{})
	go func() {
		loop.Tick()
		close(done)
	}()
	<-fetch.entered

	// The first cycle is parked inside the fetch; these ticks arrive while
	// it is still running and must not start a second one.
	loop.Tick()
	loop.Tick()

	close(fetch.release)
	<-done

	assert.Equal(t, 1, fetch.calls, "only the first tick may fetch")
	assert.Len(t, pub.views, 1)
	assert.Equal(t, uint64(1), loop.State().Snapshot().Cycles)
}

func TestLoop_TickerChangeDuringCycleSurvives(t *testing.T) {
	var loop *Loop
	fetch := &funcFetcher{}
	fetch.fn = func() ([]model.PricePoint, error) {
		// User input lands while the AAPL fetch is in flight.
		loop.SetTicker("MSFT")
		return risingBars(20, 100), nil
	}
	loop, pub, now := newTestLoop(t, fetch)

	loop.Tick()

	snap := loop.State().Snapshot()
	assert.Equal(t, "MSFT", snap.Symbol)
	assert.False(t, snap.LastClose.Defined(),
		"the finished AAPL cycle must not leave its close behind")
	assert.True(t, loop.State().Due(now.Add(time.Millisecond), time.Second),
		"the forced cycle for the new symbol must survive")

	fetch.fn = func() ([]model.PricePoint, error) {
		return risingBars(20, 300), nil
	}
	*now = now.Add(time.Millisecond)
	loop.Tick()

	vm := pub.latest(t)
	assert.Equal(t, "MSFT", vm.Ticker.Text)
	assert.Equal(t, model.PriceUnknown, vm.Flash,
		"the first MSFT cycle must not derive a direction from AAPL's close")
}

func TestLoop_CycleCounterCountsEveryExecutedCycle(t *testing.T) {
	cfg := testConfig()
	log := logrus.New()
	log.SetOutput(io.Discard)
	pub := &capturePublisher{}
	m := metrics.New(prometheus.NewRegistry())
	mock := &collector.MockFetcher{Err: errors.New("connection reset")}

	loop := NewLoop(cfg, mock, NewState(cfg.DataSource.Symbol), pub, log, m)
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	loop.now = func() time.Time { return now }

	loop.Tick() // fetch error

	mock.Err = nil
	mock.Points = risingBars(10, 100)
	now = now.Add(time.Second)
	loop.Tick() // insufficient history

	mock.Points = risingBars(20, 100)
	now = now.Add(time.Second)
	loop.Tick() // ok

	total := testutil.ToFloat64(m.CyclesTotal.WithLabelValues("ok")) +
		testutil.ToFloat64(m.CyclesTotal.WithLabelValues("fetch_error")) +
		testutil.ToFloat64(m.CyclesTotal.WithLabelValues("no_indicators")) +
		testutil.ToFloat64(m.CyclesTotal.WithLabelValues("panic"))

	snap := loop.State().Snapshot()
	assert.Equal(t, uint64(3), snap.Cycles)
	assert.Equal(t, float64(snap.Cycles), total,
		"the labeled cycle counter must sum to the state cycle counter")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues("fetch_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues("no_indicators")))
}

func TestState_DueTransitions(t *testing.T) {
	state := NewState("AAPL")
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

	assert.True(t, state.Due(now, time.Second), "INIT forces the first cycle")

	state.MarkRefreshed(state.Snapshot().Gen, now, model.Defined(100))
	assert.False(t, state.Due(now.Add(500*time.Millisecond), time.Second))
	assert.True(t, state.Due(now.Add(time.Second), time.Second))

	_, changed := state.SetSymbol("MSFT")
	require.True(t, changed)
	assert.True(t, state.Due(now.Add(time.Millisecond), time.Second), "RESET forces the next cycle")
}

func TestState_StaleGenerationDoesNotClobberSymbolChange(t *testing.T) {
	state := NewState("AAPL")
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	snap := state.Snapshot()

	// The symbol changes while a cycle started under snap is still running.
	_, changed := state.SetSymbol("MSFT")
	require.True(t, changed)

	state.MarkRefreshed(snap.Gen, now, model.Defined(119))

	after := state.Snapshot()
	assert.Equal(t, "MSFT", after.Symbol)
	assert.False(t, after.LastClose.Defined(), "the old instrument's close must not survive")
	assert.True(t, state.Due(now, time.Hour), "the forced cycle must survive")
	assert.Equal(t, uint64(1), after.Cycles, "the stale cycle still counts as executed")

	// A cycle under the current generation records normally.
	state.MarkRefreshed(after.Gen, now.Add(time.Second), model.Defined(310))
	final := state.Snapshot()
	assert.Equal(t, 310.0, final.LastClose.Float())
	assert.False(t, state.Due(now.Add(time.Second), time.Hour))
}
