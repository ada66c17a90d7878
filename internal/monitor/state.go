package monitor

import (
	"strings"
	"sync"
	"time"

	"StockPulse/internal/model"
)

// Snapshot is a point-in-time copy of the refresh state. Gen identifies the
// symbol generation the snapshot was taken under; it increments on every
// symbol change.
type Snapshot struct {
	Symbol      string
	Gen         uint64
	LastRefresh time.Time
	LastClose   model.Value
	Cycles      uint64
}

// State is the single mutable record the refresh loop owns: current symbol,
// last successful refresh time, last observed close and the cycle counter.
// The web layer changes the symbol concurrently with a running cycle, so a
// cycle records its results under the generation it started with and the
// results are discarded when the generation moved on.
type State struct {
	mu          sync.Mutex
	symbol      string
	gen         uint64
	lastRefresh time.Time
	lastClose   model.Value
	cycles      uint64
	forceNext   bool
}

// NewState initializes the state with the default symbol. The first tick
// always executes a cycle regardless of elapsed time.
func NewState(symbol string) *State {
	return &State{
		symbol:    NormalizeSymbol(symbol),
		lastClose: model.Missing(),
		forceNext: true,
	}
}

// NormalizeSymbol trims and uppercases free-text ticker input.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Symbol:      s.symbol,
		Gen:         s.gen,
		LastRefresh: s.lastRefresh,
		LastClose:   s.lastClose,
		Cycles:      s.cycles,
	}
}

// SetSymbol switches the monitored instrument. On an actual change the
// remembered close is cleared, so the next cycle cannot derive a price
// direction against a different instrument, and the next tick is forced.
// Returns the normalized symbol and whether it changed.
func (s *State) SetSymbol(raw string) (string, bool) {
	normalized := NormalizeSymbol(raw)
	if normalized == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.symbol, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if normalized == s.symbol {
		return s.symbol, false
	}
	s.symbol = normalized
	s.gen++
	s.lastClose = model.Missing()
	s.forceNext = true
	return normalized, true
}

// Due reports whether a tick at now should run a full cycle: either enough
// wall-clock time has elapsed since the last refresh, or a cycle has been
// forced by startup or a symbol change.
func (s *State) Due(now time.Time, interval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forceNext || now.Sub(s.lastRefresh) >= interval
}

// MarkRefreshed records the end of a cycle that started under gen. The
// refresh timestamp advances even for error cycles, bounding retries to the
// configured interval. When the symbol changed while the cycle was in
// flight, the cycle's close belongs to the old instrument and the forced
// cycle belongs to the new one: both are left alone.
func (s *State) MarkRefreshed(gen uint64, now time.Time, close model.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRefresh = now
	s.cycles++
	if gen != s.gen {
		return
	}
	s.forceNext = false
	if close.Defined() {
		s.lastClose = close
	}
}
