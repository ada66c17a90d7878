package web

import (
	"sync"

	"StockPulse/internal/view"
)

// Board holds the most recently published view. The refresh loop writes it,
// the server reads it; neither knows about the other.
type Board struct {
	mu     sync.RWMutex
	latest view.ViewModel
}

// NewBoard creates a board primed with an initial view.
func NewBoard(initial view.ViewModel) *Board {
	return &Board{latest: initial}
}

// Publish stores the latest view model. Implements monitor.Publisher;
// fire-and-forget, never blocks the loop.
func (b *Board) Publish(vm view.ViewModel) {
	b.mu.Lock()
	b.latest = vm
	b.mu.Unlock()
}

// Latest returns the most recently published view.
func (b *Board) Latest() view.ViewModel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}
