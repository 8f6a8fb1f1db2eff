package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dashsearch/internal/domain/models"
	"dashsearch/internal/lib/logger/sl"

	"golang.org/x/sync/singleflight"
	"gopkg.in/cenkalti/backoff.v1"
)

var (
	ErrFetch            = errors.New("remote fetch failed")
	ErrMalformedPayload = errors.New("malformed payload")
)

// RetryPolicy bounds the retries of a single fetch.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Loader fetches one remote payload and memoizes the transformed records
// for the process lifetime. A failed fetch is not memoized.
type Loader struct {
	log       *slog.Logger
	client    *http.Client
	url       string
	transform TransformFunc
	retry     RetryPolicy

	group singleflight.Group

	mu      sync.RWMutex
	records []models.Record
	loaded  bool
}

func NewLoader(log *slog.Logger, client *http.Client, url string, transform TransformFunc, retry RetryPolicy) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		log:       log.With(slog.String("url", url)),
		client:    client,
		url:       url,
		transform: transform,
		retry:     retry,
	}
}

func (l *Loader) URL() string {
	return l.url
}

// Load returns the memoized records, fetching them first if needed.
// Concurrent callers share one in-flight fetch.
func (l *Loader) Load(ctx context.Context) ([]models.Record, error) {
	if records, ok := l.cached(); ok {
		return records, nil
	}

	v, err, _ := l.group.Do(l.url, func() (interface{}, error) {
		if records, ok := l.cached(); ok {
			return records, nil
		}

		start := time.Now()
		raw, err := l.Fetch(ctx)
		if err != nil {
			return nil, err
		}

		records, skipped, err := l.transform(raw)
		if err != nil {
			l.log.Error("payload rejected", sl.Err(err))
			return nil, err
		}
		if skipped > 0 {
			l.log.Warn("skipped malformed records", slog.Int("skipped", skipped))
		}

		l.mu.Lock()
		l.records = records
		l.loaded = true
		l.mu.Unlock()

		l.log.Debug("remote payload loaded",
			slog.Int("records", len(records)),
			slog.Int("bytes", len(raw)),
			slog.Duration("took", time.Since(start)),
		)
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.Record), nil
}

func (l *Loader) cached() ([]models.Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records, l.loaded
}

// Fetch GETs the raw payload, retrying transport errors and 5xx responses.
func (l *Loader) Fetch(ctx context.Context) ([]byte, error) {
	const op = "loader.Fetch"

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if l.retry.MaxRetries > 0 {
		exp := backoff.NewExponentialBackOff()
		if l.retry.InitialInterval > 0 {
			exp.InitialInterval = l.retry.InitialInterval
		}
		if l.retry.MaxInterval > 0 {
			exp.MaxInterval = l.retry.MaxInterval
		}
		exp.MaxElapsedTime = 0
		policy = backoff.WithMaxTries(exp, l.retry.MaxRetries)
	}

	var body []byte
	attempt := func() error {
		b, err := l.get(ctx)
		if err != nil {
			return err
		}
		body = b
		return nil
	}
	notify := func(err error, next time.Duration) {
		l.log.Warn("fetch failed, retrying", sl.Err(err), slog.Duration("in", next))
	}

	err := backoff.RetryNotify(attempt, backoff.WithContext(policy, ctx), notify)
	if err != nil {
		l.log.Error("fetch failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return body, nil
}

func (l *Loader) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrFetch, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	return body, nil
}
