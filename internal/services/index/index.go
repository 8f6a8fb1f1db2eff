package index

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"dashsearch/internal/domain/models"
	"dashsearch/internal/services/tokenizer"
)

// Index is an in-memory searchable structure over one dataset.
type Index interface {
	Name() string
	// Limit is the default number of results callers should keep; 0 means no cap.
	Limit() int
	// Search returns the records matching every query token by prefix, in
	// index order. limit <= 0 returns all matches.
	Search(ctx context.Context, query string, limit int) ([]models.Record, error)
}

type Config struct {
	Name   string
	Fields []string
	Limit  int
}

// Static is an index over a fixed collection of records.
type Static struct {
	log     *slog.Logger
	cfg     Config
	backend Backend

	mu      sync.RWMutex
	records []models.Record
}

func NewStatic(log *slog.Logger, cfg Config, backend Backend) *Static {
	return &Static{
		log:     log.With(slog.String("index", cfg.Name)),
		cfg:     cfg,
		backend: backend,
	}
}

func (s *Static) Name() string {
	return s.cfg.Name
}

func (s *Static) Limit() int {
	return s.cfg.Limit
}

// Len returns the number of indexed records.
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Build replaces the index content with records. Building twice with the
// same input yields the same index.
func (s *Static) Build(ctx context.Context, records []models.Record) error {
	const op = "index.Static.Build"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Reset(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.records = nil

	indexed := make([]models.Record, 0, len(records))
	for _, record := range records {
		values := make([]string, 0, len(s.cfg.Fields))
		for _, field := range s.cfg.Fields {
			values = append(values, record.Get(field))
		}

		seq := uint64(len(indexed))
		if err := s.backend.Add(ctx, seq, tokenizer.Unique(values...)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		indexed = append(indexed, record.Clone())
	}
	s.records = indexed

	s.log.Debug("index built", slog.Int("records", len(indexed)))

	return nil
}

func (s *Static) Search(ctx context.Context, query string, limit int) ([]models.Record, error) {
	const op = "index.Static.Search"

	tokens := tokenizer.Unique(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched map[uint64]struct{}
	for _, token := range tokens {
		seqs, err := s.backend.Lookup(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if matched == nil {
			matched = seqs
		} else {
			for seq := range matched {
				if _, ok := seqs[seq]; !ok {
					delete(matched, seq)
				}
			}
		}

		if len(matched) == 0 {
			return nil, nil
		}
	}

	ordered := make([]uint64, 0, len(matched))
	for seq := range matched {
		ordered = append(ordered, seq)
	}
	slices.Sort(ordered)

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	results := make([]models.Record, 0, len(ordered))
	for _, seq := range ordered {
		if seq >= uint64(len(s.records)) {
			continue
		}
		results = append(results, s.records[seq])
	}

	return results, nil
}
