package debounce

import (
	"strings"
	"sync"
	"time"
)

// DefaultQuietPeriod is how long input must stay unchanged before a search.
const DefaultQuietPeriod = 100 * time.Millisecond

// Gate coalesces rapid input into one stable emission per pause. Every
// Input supersedes whatever was scheduled before it. Callbacks run one at a
// time and must not block or call back into the gate.
type Gate struct {
	quiet    time.Duration
	onStable func(text string)
	onClear  func()

	// emit is held from the seq re-check until the callback returns, so a
	// superseded emission can never run after the one that replaced it.
	// Lock order: emit, then mu.
	emit sync.Mutex

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	stopped bool
}

func New(quiet time.Duration, onStable func(text string), onClear func()) *Gate {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Gate{
		quiet:    quiet,
		onStable: onStable,
		onClear:  onClear,
	}
}

// Input restarts the quiet period for text. Blank text clears immediately.
func (g *Gate) Input(text string) {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}

	g.seq++
	seq := g.seq
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}

	if strings.TrimSpace(text) == "" {
		g.mu.Unlock()
		g.clear(seq)
		return
	}

	g.timer = time.AfterFunc(g.quiet, func() {
		g.fire(seq, text)
	})
	g.mu.Unlock()
}

func (g *Gate) fire(seq uint64, text string) {
	g.emit.Lock()
	defer g.emit.Unlock()

	if !g.current(seq) {
		return
	}
	g.onStable(text)
}

func (g *Gate) clear(seq uint64) {
	g.emit.Lock()
	defer g.emit.Unlock()

	if !g.current(seq) {
		return
	}
	g.onClear()
}

// current reports whether seq is still the newest input.
func (g *Gate) current(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped || seq != g.seq {
		return false
	}
	g.timer = nil
	return true
}

// Stop drops any pending emission and ignores further input. It waits for
// an emission already running, so no callback runs after Stop returns.
func (g *Gate) Stop() {
	g.emit.Lock()
	defer g.emit.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopped = true
	g.seq++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
