package metrics

import (
	"log/slog"
	"sync"
	"time"

	"dashsearch/internal/utils"
)

// Metrics counts query generations by outcome.
type Metrics struct {
	mu                   sync.Mutex
	totalGenerations     int
	publishedGenerations int
	discardedGenerations int
	totalSearchTime      time.Duration
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Total     int
	Published int
	Discarded int
	AvgSearch time.Duration
}

func (m *Metrics) RecordPublished(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalGenerations++
	m.publishedGenerations++
	m.totalSearchTime += duration
}

func (m *Metrics) RecordDiscarded(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalGenerations++
	m.discardedGenerations++
	m.totalSearchTime += duration
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	avg := time.Duration(0)
	if m.totalGenerations > 0 {
		avg = m.totalSearchTime / time.Duration(m.totalGenerations)
	}

	return Snapshot{
		Total:     m.totalGenerations,
		Published: m.publishedGenerations,
		Discarded: m.discardedGenerations,
		AvgSearch: avg,
	}
}

func (m *Metrics) PrintMetrics(log *slog.Logger) {
	s := m.Snapshot()

	log.Info("Metrics",
		"Total Generations", s.Total,
		"Published", s.Published,
		"Discarded", s.Discarded,
		"Avg Search Time", utils.FormatDuration(s.AvgSearch),
	)
}
