package workers

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"dashsearch/internal/lib/logger/sl"
)

// WorkerPool runs jobs on a fixed number of goroutines. Results must be
// drained by the caller until the channel is closed.
type WorkerPool[T any] struct {
	log           *slog.Logger
	workersCount  int
	jobs          chan Job[T]
	results       chan Result[T]
	Done          chan struct{}
	activeWorkers int32
	closeOnce     sync.Once
}

func New[T any](log *slog.Logger, numWorkers int) *WorkerPool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T]{
		log:          log,
		workersCount: numWorkers,
		jobs:         make(chan Job[T]),
		results:      make(chan Result[T]),
		Done:         make(chan struct{}),
	}
}

// AddJob blocks until a worker accepts the job or ctx is done.
func (wp *WorkerPool[T]) AddJob(ctx context.Context, job Job[T]) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that no more jobs will be added.
func (wp *WorkerPool[T]) Close() {
	wp.closeOnce.Do(func() { close(wp.jobs) })
}

func (wp *WorkerPool[T]) Results() <-chan Result[T] {
	return wp.results
}

func (wp *WorkerPool[T]) ActiveWorkersCount() int32 {
	return atomic.LoadInt32(&wp.activeWorkers)
}

// Run starts the workers and blocks until the job channel is closed and
// drained, or ctx is done.
func (wp *WorkerPool[T]) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < wp.workersCount; i++ {
		wg.Add(1)
		go wp.worker(ctx, &wg)
	}

	wg.Wait()
	close(wp.results)
	close(wp.Done)
}

func (wp *WorkerPool[T]) worker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	atomic.AddInt32(&wp.activeWorkers, 1)
	defer atomic.AddInt32(&wp.activeWorkers, -1)

	for {
		select {
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			result := job.execute(ctx)
			if result.Err != nil {
				attrs := []any{
					slog.String("id", string(job.Description.ID)),
					slog.String("type", string(job.Description.JobType)),
					sl.Err(result.Err),
				}
				for k, v := range job.Description.Metadata {
					attrs = append(attrs, slog.String(k, v))
				}
				wp.log.Warn("job failed", attrs...)
			}
			select {
			case wp.results <- result:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			wp.log.Debug("worker cancelled", sl.Err(ctx.Err()))
			return
		}
	}
}
