package index

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"dashsearch/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	release chan struct{}
	records []models.Record
	err     error
	calls   atomic.Int32
}

func (f *fakeSource) Load(ctx context.Context) ([]models.Record, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.records, f.err
}

var districts = []models.Record{
	{models.FieldDistrict: "Kathmandu", models.FieldState: "Bagmati"},
	{models.FieldDistrict: "Kaski", models.FieldState: "Gandaki"},
	{models.FieldDistrict: "Kavrepalanchok", models.FieldState: "Bagmati"},
}

func newDistrictIndex(source Source) *Remote {
	return NewRemote(discardLogger(), Config{Name: "districts", Fields: []string{models.FieldDistrict}, Limit: 5}, NewTrieBackend(), source)
}

func TestRemoteEmptyUntilLoaded(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{release: make(chan struct{}), records: districts}
	idx := newDistrictIndex(source)

	assert.Equal(t, StateIdle, idx.State())

	got, err := idx.Search(ctx, "ka", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, StateLoading, idx.State())

	// searching again while loading does not start a second fetch
	got, err = idx.Search(ctx, "ka", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	close(source.release)
	idx.Wait()

	assert.Equal(t, StateReady, idx.State())
	assert.EqualValues(t, 1, source.calls.Load())

	got, err = idx.Search(ctx, "ka", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Kathmandu", got[0].Get(models.FieldDistrict))
	assert.Equal(t, "Kaski", got[1].Get(models.FieldDistrict))
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 5, idx.Limit())
	assert.Equal(t, "districts", idx.Name())
}

func TestRemotePrefetchOnce(t *testing.T) {
	source := &fakeSource{records: districts}
	idx := newDistrictIndex(source)

	assert.True(t, idx.Prefetch(context.Background()))
	assert.False(t, idx.Prefetch(context.Background()))
	idx.Wait()
	assert.False(t, idx.Prefetch(context.Background()))

	assert.EqualValues(t, 1, source.calls.Load())
	assert.Equal(t, StateReady, idx.State())
}

func TestRemoteFailureStaysEmptyUntilReload(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{err: errors.New("connection refused")}
	idx := newDistrictIndex(source)

	idx.Prefetch(ctx)
	idx.Wait()
	assert.Equal(t, StateFailed, idx.State())

	got, err := idx.Search(ctx, "kath", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.EqualValues(t, 1, source.calls.Load(), "failed index must not refetch on search")

	source.err = nil
	source.records = districts
	require.NoError(t, idx.Reload(ctx))
	assert.Equal(t, StateReady, idx.State())

	got, err = idx.Search(ctx, "kath", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// reload of a ready index is a no-op
	require.NoError(t, idx.Reload(ctx))
	assert.EqualValues(t, 2, source.calls.Load())
}

func TestRemoteReloadWhileLoading(t *testing.T) {
	source := &fakeSource{release: make(chan struct{}), records: districts}
	idx := newDistrictIndex(source)

	idx.Prefetch(context.Background())
	require.ErrorIs(t, idx.Reload(context.Background()), ErrLoadInProgress)

	close(source.release)
	idx.Wait()
}

func TestRemoteLoadSurvivesQueryCancel(t *testing.T) {
	source := &fakeSource{release: make(chan struct{}), records: districts}
	idx := newDistrictIndex(source)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := idx.Search(ctx, "ka", 0)
	require.NoError(t, err)
	cancel()

	close(source.release)
	idx.Wait()
	assert.Equal(t, StateReady, idx.State())
}
