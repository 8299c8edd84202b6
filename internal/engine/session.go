package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// ChildKey identifies the cached inputs of one chart session.
type ChildKey struct {
	ChildID string
	Gender  Gender
}

// Snapshot is the set of inputs the datasets of one child are built from.
// Absent inputs are zero values: no records, no grid, nil prediction,
// non-VIP entitlement.
type Snapshot struct {
	Key          ChildKey
	Measurements []MeasurementRecord
	Reference    map[Metric][]ReferencePoint
	Prediction   *Prediction
	Entitlement  Entitlement
	LoadedAt     time.Time
}

// SessionCache holds the snapshot of the active child only.
// Storing a different key replaces the entry.
type SessionCache struct {
	mu    sync.Mutex
	entry *Snapshot
}

// Get returns the snapshot cached for key.
func (c *SessionCache) Get(key ChildKey) (*Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil || c.entry.Key != key {
		return nil, false
	}
	return c.entry, true
}

// Store replaces the cached snapshot.
func (c *SessionCache) Store(s *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = s
}

// Invalidate drops the cached snapshot.
func (c *SessionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

// Generation is a monotonic counter identifying the latest load.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new generation and returns its ticket.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// IsCurrent reports whether no newer generation was started since ticket.
func (g *Generation) IsCurrent(ticket uint64) bool {
	return g.n.Load() == ticket
}
