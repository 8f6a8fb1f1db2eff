package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"dashsearch/config"
	"dashsearch/internal/domain/models"
	"dashsearch/internal/lib/logger/sl"
	"dashsearch/internal/services/coordinator"
	"dashsearch/internal/services/debounce"
	"dashsearch/internal/services/index"
	"dashsearch/internal/services/loader"
	"dashsearch/internal/utils/metrics"
	"dashsearch/internal/workers"
)

const (
	RegionsIndex   = "regions"
	DistrictsIndex = "districts"
	ResourcesIndex = "resources"

	remoteIndexLimit = 5

	jobPrefetch workers.JobType = "prefetch"
)

var (
	regionFields   = []string{models.FieldName}
	districtFields = []string{models.FieldDistrict}
	resourceFields = []string{
		models.FieldCategory,
		models.FieldCity,
		models.FieldContact,
		models.FieldDescription,
		models.FieldOrganisation,
		models.FieldState,
	}
)

type App struct {
	log *slog.Logger
	cfg *config.Config

	Regions     *models.RegionTable
	RegionIndex *index.Static
	Districts   *index.Remote
	Resources   *index.Remote
	Coordinator *coordinator.Coordinator
	Gate        *debounce.Gate
	Metrics     *metrics.Metrics
	StorageApp  *StorageApp
}

// New wires every index into a coordinator publishing to sink. The gate
// dispatches stable queries under ctx.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config, sink coordinator.Sink) (*App, error) {
	const op = "app.New"

	regions, err := models.NewRegionTable(cfg.Regions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storageApp := NewStorageApp(cfg.Index.StorageDir)

	newBackend := func(name string) (index.Backend, error) {
		return index.NewBackend(cfg.Index.Engine, name, storageApp.Open)
	}

	regionBackend, err := newBackend(RegionsIndex)
	if err != nil {
		_ = storageApp.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	regionIndex := index.NewStatic(log, index.Config{
		Name:   RegionsIndex,
		Fields: regionFields,
		Limit:  cfg.Search.StateLimit,
	}, regionBackend)
	if err := regionIndex.Build(ctx, regions.Records()); err != nil {
		_ = storageApp.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := &http.Client{Timeout: cfg.Remote.Timeout}
	retry := loader.RetryPolicy{
		MaxRetries:      cfg.Remote.Retries,
		InitialInterval: cfg.Remote.RetryInterval,
		MaxInterval:     8 * cfg.Remote.RetryInterval,
	}

	districtBackend, err := newBackend(DistrictsIndex)
	if err != nil {
		_ = storageApp.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	districts := index.NewRemote(log, index.Config{
		Name:   DistrictsIndex,
		Fields: districtFields,
		Limit:  remoteIndexLimit,
	}, districtBackend, loader.NewLoader(log, client, cfg.Remote.DistrictsURL, loader.DistrictTransform, retry))

	resourceBackend, err := newBackend(ResourcesIndex)
	if err != nil {
		_ = storageApp.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resources := index.NewRemote(log, index.Config{
		Name:   ResourcesIndex,
		Fields: resourceFields,
		Limit:  remoteIndexLimit,
	}, resourceBackend, loader.NewLoader(log, client, cfg.Remote.ResourcesURL, loader.ResourceTransform, retry))

	m := &metrics.Metrics{}

	coord := coordinator.New(log, regions, sink, m,
		coordinator.Source{Kind: models.KindState, Index: regionIndex, Take: cfg.Search.StateLimit},
		coordinator.Source{Kind: models.KindDistrict, Index: districts, Take: cfg.Search.DistrictLimit},
		coordinator.Source{Kind: models.KindResource, Index: resources, Take: cfg.Search.ResourceLimit},
	)

	gate := debounce.New(cfg.Search.QuietPeriod,
		func(query string) { coord.Dispatch(ctx, query) },
		func() { coord.Clear() },
	)

	log.Info("indexes initialised",
		slog.String("engine", cfg.Index.Engine),
		slog.Int("regions", regionIndex.Len()),
	)

	return &App{
		log:         log,
		cfg:         cfg,
		Regions:     regions,
		RegionIndex: regionIndex,
		Districts:   districts,
		Resources:   resources,
		Coordinator: coord,
		Gate:        gate,
		Metrics:     m,
		StorageApp:  storageApp,
	}, nil
}

// Prefetch loads every remote index on the worker pool and blocks until all
// of them are ready or have failed.
func (a *App) Prefetch(ctx context.Context) {
	remotes := []*index.Remote{a.Districts, a.Resources}
	urls := map[string]string{
		DistrictsIndex: a.cfg.Remote.DistrictsURL,
		ResourcesIndex: a.cfg.Remote.ResourcesURL,
	}

	pool := workers.New[*index.Remote](a.log, a.cfg.Workers.Count)
	go pool.Run(ctx)

	go func() {
		defer pool.Close()
		for _, r := range remotes {
			job := workers.Job[*index.Remote]{
				Description: workers.JobDescriptor{
					ID:       workers.JobID(r.Name()),
					JobType:  jobPrefetch,
					Metadata: map[string]string{"url": urls[r.Name()]},
				},
				Args: r,
				ExecFn: prefetchRemote,
			}
			if err := pool.AddJob(ctx, job); err != nil {
				return
			}
		}
	}()

	for res := range pool.Results() {
		if res.Err != nil {
			continue
		}
		a.log.Debug("prefetch done",
			slog.String("index", res.Value.Name()),
			slog.String("state", res.Value.State().String()),
		)
	}
}

// Status summarises the remote indexes for display.
func (a *App) Status() string {
	return fmt.Sprintf("%s: %s (%d) | %s: %s (%d)",
		a.Districts.Name(), a.Districts.State(), a.Districts.Len(),
		a.Resources.Name(), a.Resources.State(), a.Resources.Len(),
	)
}

// prefetchRemote loads r, or waits for a load a search already started.
func prefetchRemote(ctx context.Context, r *index.Remote) (*index.Remote, error) {
	err := r.Reload(ctx)
	if errors.Is(err, index.ErrLoadInProgress) {
		r.Wait()
		if r.State() == index.StateReady {
			return r, nil
		}
	}
	return r, err
}

// Stop cancels pending keystrokes, waits for in-flight queries and closes
// the posting stores. Remote loads still running are abandoned.
func (a *App) Stop() {
	a.Gate.Stop()
	a.Coordinator.Wait()

	a.Metrics.PrintMetrics(a.log)

	if err := a.StorageApp.Stop(); err != nil {
		a.log.Error("failed to close storage", sl.Err(err))
	}
}
