package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/servmatch/catalog"
	"github.com/poiesic/servmatch/core"
	"github.com/poiesic/servmatch/features"
	"github.com/poiesic/servmatch/storage"
)

// Pipeline builds the feature matrix and encoder set from a provider
// catalog, encoding rows concurrently.
type Pipeline struct {
	pool             *ants.Pool
	progress         io.Writer
	progressInterval int
	logger           *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for row encoding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgress reports encoding progress to w every interval rows.
func WithProgress(w io.Writer, interval int) Option {
	return func(p *Pipeline) error {
		p.progress = w
		p.progressInterval = interval
		return nil
	}
}

// DefaultPoolSize returns the pool size used when none is configured.
func DefaultPoolSize() int {
	return max(runtime.NumCPU()/2, 1)
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	pool, err := ants.NewPool(DefaultPoolSize())
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		pool:             pool,
		progressInterval: 1000,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Build fits the encoders over providers and encodes every row. The
// providers slice is not modified. An empty catalog yields an empty matrix.
func (p *Pipeline) Build(ctx context.Context, providers []core.Provider) (*features.Matrix, *features.EncoderSet, error) {
	start := time.Now()

	encoders, err := features.FitEncoders(providers)
	if err != nil {
		return nil, nil, err
	}

	width := encoders.Schema.Len()
	values := make([]float64, len(providers)*width)

	var tracker *progressTracker
	if p.progress != nil {
		tracker = newProgressTracker(p.progress, len(providers), p.progressInterval)
		tracker.start()
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for i := range providers {
		if ctx.Err() != nil {
			break
		}
		row := values[i*width : (i+1)*width]
		provider := &providers[i]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := encoders.EncodeProvider(provider, row); err != nil {
				fail(fmt.Errorf("provider %d: %w", provider.ID, err))
				return
			}
			if tracker != nil {
				tracker.increment(1)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("failed to submit row %d: %w", i, submitErr))
			break
		}
	}
	wg.Wait()

	if tracker != nil {
		tracker.finish()
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}

	matrix, err := features.NewMatrix(encoders.Schema.Columns(), providers, values)
	if err != nil {
		return nil, nil, err
	}

	p.logger.Info("catalog encoded",
		"rows", matrix.Rows(),
		"columns", matrix.Width(),
		"service_type_terms", encoders.Schema.BlockLen(features.BlockServiceType),
		"skills", encoders.Schema.BlockLen(features.BlockSkill),
		"days", encoders.Schema.BlockLen(features.BlockDay),
		"locations", encoders.Schema.BlockLen(features.BlockLocation),
		"elapsed", time.Since(start))
	return matrix, encoders, nil
}

// BuildFromFile loads the catalog at path and builds its artifacts. The
// encoder set records the catalog fingerprint.
func (p *Pipeline) BuildFromFile(ctx context.Context, path string) (*features.Matrix, *features.EncoderSet, error) {
	cat, err := catalog.Open(path, catalog.WithLogger(p.logger))
	if err != nil {
		return nil, nil, err
	}
	p.logger.Debug("catalog loaded", "path", path, "providers", len(cat.Providers), "dropped", cat.Dropped)

	matrix, encoders, err := p.Build(ctx, cat.Providers)
	if err != nil {
		return nil, nil, err
	}
	encoders.Fingerprint = cat.Fingerprint
	return matrix, encoders, nil
}

// Rebuild builds the artifacts from the catalog at path and saves them to repo.
func (p *Pipeline) Rebuild(ctx context.Context, path string, repo storage.ArtifactRepository) (*features.Matrix, *features.EncoderSet, error) {
	if repo == nil {
		return nil, nil, ErrRepositoryRequired
	}

	matrix, encoders, err := p.BuildFromFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.SaveArtifacts(ctx, matrix, encoders); err != nil {
		return nil, nil, fmt.Errorf("failed to save artifacts: %w", err)
	}
	return matrix, encoders, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
