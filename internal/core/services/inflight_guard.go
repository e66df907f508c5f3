package services

import (
	"sync"

	"fuelgenie-api/internal/core/domain"
)

// InflightGuard serializes mutating payment operations per credit account.
// Settlement and payment writes against one account must never interleave;
// a second submission while the first is still running is rejected rather
// than queued so the caller sees the conflict immediately.
type InflightGuard struct {
	mu     sync.Mutex
	active map[string]bool // key = credit account CID
}

// NewInflightGuard creates an empty guard. Payment and verification services
// must share one instance so their operations serialize against each other.
func NewInflightGuard() *InflightGuard {
	return &InflightGuard{active: make(map[string]bool)}
}

// acquire marks the account busy. Returns ErrOperationInFlight when another
// operation already holds it.
func (g *InflightGuard) acquire(cid string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active[cid] {
		return domain.ErrOperationInFlight
	}
	g.active[cid] = true
	return nil
}

// release frees the account for the next operation
func (g *InflightGuard) release(cid string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, cid)
}
