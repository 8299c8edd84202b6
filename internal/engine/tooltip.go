package engine

import (
	"sync"

	"github.com/tartampluch/go-growth/internal/config"
)

// TooltipState is the visible state of a chart tooltip.
type TooltipState struct {
	Visible bool
	Hit     Hit
}

// Tooltip tracks the Hidden/Visible machine of a chart tooltip.
// A hit shows it and (re)starts the dismiss timer; a miss, the timer or
// Dismiss hides it. Only the latest hit counts.
type Tooltip struct {
	clock    Clock
	onChange func(TooltipState)

	mu    sync.Mutex
	state TooltipState
	timer Timer
	seq   uint64
}

// NewTooltip creates a hidden tooltip. onChange, if set, is called after every
// transition, outside the internal lock and possibly from a timer goroutine.
func NewTooltip(clock Clock, onChange func(TooltipState)) *Tooltip {
	if clock == nil {
		clock = RealClock{}
	}
	return &Tooltip{clock: clock, onChange: onChange}
}

// Show makes the tooltip visible for hit and restarts the dismiss timer.
func (t *Tooltip) Show(hit Hit) {
	t.mu.Lock()
	t.stopLocked()
	t.seq++
	seq := t.seq
	t.state = TooltipState{Visible: true, Hit: hit}
	t.timer = t.clock.AfterFunc(config.TooltipDismissDelay, func() { t.expire(seq) })
	st := t.state
	t.mu.Unlock()

	t.notify(st)
}

// Dismiss hides the tooltip.
func (t *Tooltip) Dismiss() {
	t.mu.Lock()
	if !t.state.Visible {
		t.mu.Unlock()
		return
	}
	t.stopLocked()
	t.seq++
	t.state = TooltipState{}
	t.mu.Unlock()

	t.notify(TooltipState{})
}

// Handle applies the result of a hit test.
func (t *Tooltip) Handle(hit Hit, ok bool) {
	if ok {
		t.Show(hit)
		return
	}
	t.Dismiss()
}

// State returns the current state.
func (t *Tooltip) State() TooltipState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// expire runs on the timer. A stale timer whose hit was replaced is ignored.
func (t *Tooltip) expire(seq uint64) {
	t.mu.Lock()
	if seq != t.seq || !t.state.Visible {
		t.mu.Unlock()
		return
	}
	t.state = TooltipState{}
	t.timer = nil
	t.mu.Unlock()

	t.notify(TooltipState{})
}

func (t *Tooltip) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tooltip) notify(st TooltipState) {
	if t.onChange != nil {
		t.onChange(st)
	}
}
