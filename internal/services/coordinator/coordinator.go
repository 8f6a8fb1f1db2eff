package coordinator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"dashsearch/internal/domain/models"
	"dashsearch/internal/lib/logger/sl"
	"dashsearch/internal/services/index"
	"dashsearch/internal/utils"
	"dashsearch/internal/utils/metrics"

	"golang.org/x/sync/errgroup"
)

// Source is one registered index. Sources are merged in registration order.
type Source struct {
	Kind  models.Kind
	Index index.Index
	// Take caps the matches kept from this source; 0 falls back to the
	// index's own limit.
	Take int
}

// Sink receives the outcome of each query generation. It is called with the
// coordinator's lock held and must not call back into the coordinator.
type Sink interface {
	Publish(generation uint64, results models.ResultList)
	Clear(generation uint64)
}

type discardSink struct{}

func (discardSink) Publish(uint64, models.ResultList) {}
func (discardSink) Clear(uint64)                      {}

// DiscardSink drops everything; for callers that only use Search.
var DiscardSink Sink = discardSink{}

// Coordinator fans a query out to every source and merges the answers.
// Each Dispatch or Clear starts a new generation; only the newest
// generation ever reaches the sink.
type Coordinator struct {
	log     *slog.Logger
	sources []Source
	regions *models.RegionTable
	sink    Sink
	metrics *metrics.Metrics

	mu         sync.Mutex
	generation uint64

	wg sync.WaitGroup
}

func New(
	log *slog.Logger,
	regions *models.RegionTable,
	sink Sink,
	m *metrics.Metrics,
	sources ...Source,
) *Coordinator {
	if m == nil {
		m = &metrics.Metrics{}
	}
	if sink == nil {
		sink = DiscardSink
	}
	return &Coordinator{
		log:     log,
		sources: sources,
		regions: regions,
		sink:    sink,
		metrics: m,
	}
}

// Search aggregates the matches of every source for query. It does not
// touch generations or the sink.
func (c *Coordinator) Search(ctx context.Context, query string) models.ResultList {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.ResultList{}
	}

	slots := make([][]models.MatchResult, len(c.sources))

	var g errgroup.Group
	for i, src := range c.sources {
		g.Go(func() error {
			slots[i] = c.searchSource(ctx, src, query)
			return nil
		})
	}
	_ = g.Wait()

	size := 0
	for _, slot := range slots {
		size += len(slot)
	}
	results := make(models.ResultList, 0, size)
	for _, slot := range slots {
		results = append(results, slot...)
	}

	return results
}

func (c *Coordinator) searchSource(ctx context.Context, src Source, query string) []models.MatchResult {
	take := src.Take
	if take <= 0 {
		take = src.Index.Limit()
	}

	// normalization may drop district matches, so the cap applies after it
	limit := take
	if src.Kind == models.KindDistrict {
		limit = 0
	}

	records, err := src.Index.Search(ctx, query, limit)
	if err != nil {
		c.log.Error("source search failed",
			slog.String("index", src.Index.Name()),
			slog.String("query", query),
			sl.Err(err),
		)
		return nil
	}

	results := c.normalize(src.Kind, records)
	if take > 0 && len(results) > take {
		results = results[:take]
	}

	return results
}

// Dispatch runs query as a new generation in the background and returns
// the generation number. A blank query is a Clear.
func (c *Coordinator) Dispatch(ctx context.Context, query string) uint64 {
	if strings.TrimSpace(query) == "" {
		return c.Clear()
	}

	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx, generation, query)
	}()

	return generation
}

func (c *Coordinator) run(ctx context.Context, generation uint64, query string) {
	start := time.Now()
	results := c.Search(ctx, query)
	took := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || ctx.Err() != nil {
		c.metrics.RecordDiscarded(took)
		c.log.Debug("stale results discarded",
			slog.Uint64("generation", generation),
			slog.Uint64("current", c.generation),
			slog.String("query", query),
		)
		return
	}

	c.metrics.RecordPublished(took)
	c.log.Debug("results published",
		slog.Uint64("generation", generation),
		slog.String("query", query),
		slog.Int("results", len(results)),
		slog.String("took", utils.FormatDuration(took)),
	)
	c.sink.Publish(generation, results)
}

// Clear invalidates every in-flight generation and clears the sink at once.
func (c *Coordinator) Clear() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.sink.Clear(c.generation)
	return c.generation
}

// Generation returns the newest generation number.
func (c *Coordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Wait blocks until every dispatched generation has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
