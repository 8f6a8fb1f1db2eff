package cui

import (
	"sync"

	"dashsearch/internal/domain/models"
)

// Snapshot is what the results view shows at one moment.
type Snapshot struct {
	Generation  uint64
	Results     models.ResultList
	Cleared     bool
	Placeholder string
}

// Screen holds the latest published state. It is the coordinator's sink;
// redraws always read the newest snapshot, so the order in which queued
// redraws run does not matter.
type Screen struct {
	mu       sync.Mutex
	snapshot Snapshot
	onChange func()
}

func NewScreen() *Screen {
	return &Screen{snapshot: Snapshot{Cleared: true}}
}

// OnChange registers f to run after every accepted update.
func (s *Screen) OnChange(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = f
}

func (s *Screen) Publish(generation uint64, results models.ResultList) {
	s.update(generation, func(snap *Snapshot) {
		snap.Results = results
		snap.Cleared = false
	})
}

func (s *Screen) Clear(generation uint64) {
	s.update(generation, func(snap *Snapshot) {
		snap.Results = nil
		snap.Cleared = true
	})
}

func (s *Screen) SetPlaceholder(text string) {
	s.mu.Lock()
	s.snapshot.Placeholder = text
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (s *Screen) update(generation uint64, apply func(*Snapshot)) {
	s.mu.Lock()
	if generation < s.snapshot.Generation {
		s.mu.Unlock()
		return
	}
	s.snapshot.Generation = generation
	apply(&s.snapshot)
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (s *Screen) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}
