// Package cost tracks per-provider spend for a processing run.
package cost

import "sync"

// Ledger accumulates cost per provider plus a grand total. Created once
// per run and shared by every dispatcher; totals only ever grow.
type Ledger struct {
	mu          sync.Mutex
	perProvider map[string]float64
	total       float64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{perProvider: make(map[string]float64)}
}

// Add records spend against a provider.
func (l *Ledger) Add(provider string, amount float64) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.perProvider[provider] += amount
	l.total += amount
}

// Total returns the grand total for the run.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// PerProvider returns a copy of the per-provider totals.
func (l *Ledger) PerProvider() map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]float64, len(l.perProvider))
	for provider, amount := range l.perProvider {
		out[provider] = amount
	}
	return out
}
