package placeholder

import (
	"context"
	"sync"
	"time"
)

const (
	TypeDelay  = 200 * time.Millisecond
	HoldDelay  = 2 * time.Second
	ClearDelay = time.Second
)

// DefaultSuggestions cycle through the empty search box.
var DefaultSuggestions = []string{
	"Kathmandu",
	"Covid Testing",
	"Health Facilities",
	"Quarantine",
}

type Phase int

const (
	Idle Phase = iota
	Typing
	Holding
	Clearing
	NextWord
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case Holding:
		return "holding"
	case Clearing:
		return "clearing"
	case NextWord:
		return "next-word"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Machine types each suggestion out one rune at a time, holds it, clears it
// and moves to the next one, forever, until stopped.
type Machine struct {
	mu     sync.Mutex
	words  [][]rune
	word   int
	cursor int
	phase  Phase
}

func NewMachine(words []string) *Machine {
	m := &Machine{words: make([][]rune, 0, len(words))}
	for _, w := range words {
		if w != "" {
			m.words = append(m.words, []rune(w))
		}
	}
	return m
}

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Text is the placeholder to show right now.
func (m *Machine) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.phase {
	case Typing, Holding, Clearing:
		return string(m.words[m.word][:m.cursor])
	default:
		return ""
	}
}

// Step performs one transition and returns how long to wait before the
// next one.
func (m *Machine) Step() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.words) == 0 {
		m.phase = Stopped
	}

	switch m.phase {
	case Idle:
		m.phase = Typing
		m.cursor = 0
		return m.typeRune()

	case Typing:
		return m.typeRune()

	case Holding:
		m.phase = Clearing
		return ClearDelay

	case Clearing:
		m.cursor = 0
		m.phase = NextWord
		return 0

	case NextWord:
		m.word = (m.word + 1) % len(m.words)
		m.phase = Typing
		return m.typeRune()
	}

	return 0
}

func (m *Machine) typeRune() time.Duration {
	m.cursor++
	if m.cursor >= len(m.words[m.word]) {
		m.phase = Holding
		return HoldDelay
	}
	return TypeDelay
}

// Stop ends the animation for good; the placeholder becomes empty.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = Stopped
	m.cursor = 0
}

// Run drives m with a single timer, calling show after every step, until
// ctx is done or m is stopped.
func Run(ctx context.Context, m *Machine, show func(text string)) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if m.Phase() == Stopped {
			show("")
			return
		}

		delay := m.Step()
		if m.Phase() == Stopped {
			show("")
			return
		}
		show(m.Text())
		timer.Reset(delay)
	}
}
