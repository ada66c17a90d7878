package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the refresh loop.
type Metrics struct {
	TicksTotal    prometheus.Counter
	CyclesTotal   *prometheus.CounterVec // labels: result
	SkippedTicks  prometheus.Counter
	FetchFailures *prometheus.CounterVec // labels: kind
	TickerChanges prometheus.Counter
	CycleSeconds  prometheus.Gauge
}

// New registers and returns the monitor metrics on the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monitor_ticks_total",
			Help: "Total scheduler ticks, including skipped ones",
		}),
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monitor_cycles_total",
			Help: "Executed refresh cycles by result; sums to the state cycle counter",
		}, []string{"result"}),
		SkippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monitor_skipped_ticks_total",
			Help: "Ticks skipped because the refresh interval had not elapsed",
		}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monitor_fetch_failures_total",
			Help: "Fetch failures by kind",
		}, []string{"kind"}),
		TickerChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monitor_ticker_changes_total",
			Help: "Ticker symbol changes requested by the user",
		}),
		CycleSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "monitor_last_cycle_seconds",
			Help: "Wall-clock duration of the last executed cycle",
		}),
	}
	reg.MustRegister(m.TicksTotal, m.CyclesTotal, m.SkippedTicks,
		m.FetchFailures, m.TickerChanges, m.CycleSeconds)
	return m
}
