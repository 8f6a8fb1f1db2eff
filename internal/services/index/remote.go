package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"dashsearch/internal/domain/models"
	"dashsearch/internal/lib/logger/sl"
	"dashsearch/internal/utils"
)

var ErrLoadInProgress = errors.New("remote load in progress")

// Source provides the records of a remote index.
type Source interface {
	Load(ctx context.Context) ([]models.Record, error)
}

type State int32

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Remote is an index whose records come from a Source. It answers with no
// results until the first load completes and never blocks a search on it.
type Remote struct {
	static *Static
	log    *slog.Logger
	source Source

	state atomic.Int32
	wg    sync.WaitGroup
}

func NewRemote(log *slog.Logger, cfg Config, backend Backend, source Source) *Remote {
	return &Remote{
		static: NewStatic(log, cfg, backend),
		log:    log.With(slog.String("index", cfg.Name)),
		source: source,
	}
}

func (r *Remote) Name() string {
	return r.static.Name()
}

func (r *Remote) Limit() int {
	return r.static.Limit()
}

func (r *Remote) Len() int {
	return r.static.Len()
}

func (r *Remote) State() State {
	return State(r.state.Load())
}

// Prefetch starts loading in the background unless a load already ran.
// It reports whether a new load was started.
func (r *Remote) Prefetch(ctx context.Context) bool {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateLoading)) {
		return false
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.load(ctx)
	}()
	return true
}

// Reload retries a failed (or never started) load and waits for it.
func (r *Remote) Reload(ctx context.Context) error {
	const op = "index.Remote.Reload"

	if !r.state.CompareAndSwap(int32(StateFailed), int32(StateLoading)) &&
		!r.state.CompareAndSwap(int32(StateIdle), int32(StateLoading)) {
		if r.State() == StateReady {
			return nil
		}
		return fmt.Errorf("%s: %w", op, ErrLoadInProgress)
	}

	r.wg.Add(1)
	defer r.wg.Done()

	return r.load(ctx)
}

// Wait blocks until no load is running.
func (r *Remote) Wait() {
	r.wg.Wait()
}

func (r *Remote) load(ctx context.Context) error {
	const op = "index.Remote.load"

	start := time.Now()

	records, err := r.source.Load(ctx)
	if err != nil {
		r.state.Store(int32(StateFailed))
		r.log.Error("remote load failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.static.Build(ctx, records); err != nil {
		r.state.Store(int32(StateFailed))
		r.log.Error("remote index build failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	r.state.Store(int32(StateReady))
	r.log.Info("remote index ready",
		slog.Int("records", len(records)),
		slog.String("took", utils.FormatDuration(time.Since(start))),
	)

	return nil
}

func (r *Remote) Search(ctx context.Context, query string, limit int) ([]models.Record, error) {
	if r.State() != StateReady {
		r.Prefetch(context.WithoutCancel(ctx))
		return nil, nil
	}

	return r.static.Search(ctx, query, limit)
}
