package servmatch

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/servmatch/catalog"
	"github.com/poiesic/servmatch/core"
	"github.com/poiesic/servmatch/features"
	"github.com/poiesic/servmatch/search"
)

func testProviders() []core.Provider {
	return []core.Provider{
		{ID: 1, Name: "Ram Plumbing", ServiceType: "Plumber", Location: "Kathmandu", Rating: 4.5,
			Skills: "Pipe Repair, Leak Fix", Days: "Mon–Fri", Contact: "98000001"},
		{ID: 2, Name: "Sita Electric", ServiceType: "Electrician", Location: "Lalitpur", Rating: 3.8,
			Skills: "Wiring", Days: "Tue–Sat", Contact: "98000002"},
		{ID: 3, Name: "Hari Paints", ServiceType: "Painter", Location: "Bhaktapur", Rating: 4.2,
			Skills: "Interior", Days: "Wed–Sun", Contact: "98000003"},
	}
}

func writeCatalog(t *testing.T, dir string, providers []core.Provider) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, catalog.Write(&buf, providers))
	path := filepath.Join(dir, "service_dataset.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	path := writeCatalog(t, t.TempDir(), testProviders())
	e, err := Open(context.Background(), NewConfig(WithDataPath(path), WithInMemory(true)))
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestOpen_BuildsWhenArtifactsAbsent(t *testing.T) {
	e := openTestEngine(t)

	stats := e.Stats()
	assert.True(t, stats.Rebuilt)
	assert.Equal(t, 3, stats.Providers)
	assert.Equal(t, 3, stats.ServiceTypeTerms)
	assert.Equal(t, 3, stats.Locations)
	assert.Equal(t, 7, stats.Days)
	assert.NotZero(t, stats.Fingerprint)
	assert.False(t, stats.FittedAt.IsZero())
}

func TestOpen_ReusesStoredArtifacts(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, testProviders())
	cfg := NewConfig(WithDataPath(path), WithArtifactDir(filepath.Join(dir, "models")))
	ctx := context.Background()

	first, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, first.Stats().Rebuilt)
	require.NoError(t, first.Close())

	// the catalog is no longer needed once artifacts exist
	require.NoError(t, os.Remove(path))

	second, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer second.Close()
	assert.False(t, second.Stats().Rebuilt)
	assert.Equal(t, 3, second.Stats().Providers)
}

func TestOpen_RebuildOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, testProviders())
	artifacts := filepath.Join(dir, "models")
	ctx := context.Background()

	e, err := Open(ctx, NewConfig(WithDataPath(path), WithArtifactDir(artifacts)))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	writeCatalog(t, dir, testProviders()[:2])

	t.Run("disabled keeps stale artifacts", func(t *testing.T) {
		e, err := Open(ctx, NewConfig(WithDataPath(path), WithArtifactDir(artifacts)))
		require.NoError(t, err)
		defer e.Close()
		assert.False(t, e.Stats().Rebuilt)
		assert.Equal(t, 3, e.Stats().Providers)
	})

	t.Run("enabled rebuilds", func(t *testing.T) {
		e, err := Open(ctx, NewConfig(WithDataPath(path), WithArtifactDir(artifacts), WithRebuildOnChange(true)))
		require.NoError(t, err)
		defer e.Close()
		assert.True(t, e.Stats().Rebuilt)
		assert.Equal(t, 2, e.Stats().Providers)
	})
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("dataset not found", func(t *testing.T) {
		cfg := NewConfig(WithDataPath(filepath.Join(t.TempDir(), "missing.csv")), WithInMemory(true))
		_, err := Open(ctx, cfg)
		assert.ErrorIs(t, err, ErrDatasetNotFound)
	})

	t.Run("missing column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(path, []byte("ID,Name\n1,Ram\n"), 0o644))
		_, err := Open(ctx, NewConfig(WithDataPath(path), WithInMemory(true)))
		assert.ErrorIs(t, err, catalog.ErrMissingColumn)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := Open(ctx, NewConfig(WithTopN(0)))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestEngine_RecommendDefaultRatingFloor(t *testing.T) {
	providers := append(testProviders(), core.Provider{
		ID: 4, Name: "Mina Cleaning", ServiceType: "Cleaner", Location: "Kathmandu", Rating: 0.5, Days: "Sun",
	})
	path := writeCatalog(t, t.TempDir(), providers)
	e, err := Open(context.Background(), NewConfig(WithDataPath(path), WithInMemory(true)))
	require.NoError(t, err)
	defer e.Close()

	recs, err := e.Recommend(e.NewRequest(core.Query{Location: "Kathmandu"}))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].ID)

	recs, err = e.Recommend(e.NewRequest(core.Query{Location: "Kathmandu", MinRating: core.Floor(0)}))
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestEngine_Recommend(t *testing.T) {
	e := openTestEngine(t)

	t.Run("scenario", func(t *testing.T) {
		req := e.NewRequest(core.Query{
			ServiceType: "Plumber",
			Location:    "Kathmandu",
			MinRating:   core.Floor(4.0),
			Days:        "Mon-Fri",
		})
		recs, err := e.Recommend(req)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, int64(1), recs[0].ID)
	})

	t.Run("empty result", func(t *testing.T) {
		recs, err := e.Recommend(e.NewRequest(core.Query{MinRating: core.Floor(5)}))
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("invalid top n", func(t *testing.T) {
		_, err := e.Recommend(search.Request{TopN: 0})
		assert.ErrorIs(t, err, core.ErrInvalidTopN)
	})
}

func TestEngine_RecommendRecoversPanic(t *testing.T) {
	e := &Engine{logger: slog.Default()}

	recs, err := e.Recommend(search.Request{TopN: 10})
	assert.ErrorIs(t, err, ErrRecommendationFailed)
	assert.Nil(t, recs)
}

func TestEngine_Explain(t *testing.T) {
	e := openTestEngine(t)
	monitor := &countingMonitor{}

	recs, err := e.Explain(e.NewRequest(core.Query{Days: "Sun"}), monitor)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(3), recs[0].ID)
	assert.Equal(t, 2, monitor.filters)
}

func TestEngine_RecommendBatch(t *testing.T) {
	e := openTestEngine(t)
	ctx := context.Background()

	reqs := []search.Request{
		e.NewRequest(core.Query{ServiceType: "Painter"}),
		e.NewRequest(core.Query{MinRating: core.Floor(5)}),
	}
	results, err := e.RecommendBatch(ctx, reqs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, results[0], 1)
	assert.Equal(t, int64(3), results[0][0].ID)
	assert.Empty(t, results[1])

	_, err = e.RecommendBatch(ctx, []search.Request{{TopN: -1}})
	assert.ErrorIs(t, err, core.ErrInvalidTopN)
}

func TestEngine_Lookups(t *testing.T) {
	e := openTestEngine(t)

	p, err := e.Provider(2)
	require.NoError(t, err)
	assert.Equal(t, "Sita Electric", p.Name)

	_, err = e.Provider(99)
	assert.ErrorIs(t, err, ErrProviderNotFound)

	assert.Equal(t, testProviders(), e.Providers())

	assert.Equal(t, Facets{
		ServiceTypes: []string{"Electrician", "Painter", "Plumber"},
		Locations:    []string{"Bhaktapur", "Kathmandu", "Lalitpur"},
	}, e.Facets())
}

func TestEngine_Rebuild(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, testProviders())
	ctx := context.Background()

	e, err := Open(ctx, NewConfig(WithDataPath(path), WithArtifactDir(filepath.Join(dir, "models"))))
	require.NoError(t, err)

	writeCatalog(t, dir, append(testProviders(), core.Provider{
		ID: 4, Name: "Gita Gardens", ServiceType: "Gardener", Location: "Pokhara", Rating: 4.8, Days: "Sat",
	}))

	next, err := e.Rebuild(ctx)
	require.NoError(t, err)

	// the first engine is untouched
	assert.Equal(t, 3, e.Stats().Providers)
	assert.Equal(t, 4, next.Stats().Providers)
	assert.True(t, next.Stats().Rebuilt)

	// closing the first engine leaves the store open for the rebuilt engine
	require.NoError(t, e.Close())
	again, err := next.Rebuild(ctx)
	require.NoError(t, err)
	require.NoError(t, next.Close())
	require.NoError(t, again.Close())
}

func TestEngine_ConcurrentRecommend(t *testing.T) {
	e := openTestEngine(t)
	req := e.NewRequest(core.Query{ServiceType: "Plumber"})
	want, err := e.Recommend(req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Recommend(req)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

// countingMonitor counts the filters that ran
type countingMonitor struct {
	filters int
}

func (m *countingMonitor) Start(search.Request)                 {}
func (m *countingMonitor) AfterQueryEncoding([]features.Column) {}
func (m *countingMonitor) AfterSimilarity([]search.Scored)      {}
func (m *countingMonitor) AfterFilter(search.FilterStage, int)  { m.filters++ }
func (m *countingMonitor) Finish([]search.Scored)               {}
