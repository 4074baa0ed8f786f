// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package servmatch recommends home service providers for a request.
//
// An Engine owns the encoded provider catalog. Open loads the encoded
// artifacts from the artifact store, rebuilding them from the catalog CSV
// when they are absent, unreadable or inconsistent. Once open, an Engine
// never changes and may be shared by any number of goroutines.
package servmatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/poiesic/servmatch/core"
	"github.com/poiesic/servmatch/features"
	"github.com/poiesic/servmatch/ingestion"
	"github.com/poiesic/servmatch/search"
	"github.com/poiesic/servmatch/storage"
	"github.com/poiesic/servmatch/storage/badger"
)

// Engine answers recommendation requests over an encoded catalog.
type Engine struct {
	cfg      Config
	store    *sharedStore
	matrix   *features.Matrix
	encoders *features.EncoderSet
	ranker   *search.Ranker
	facets   Facets
	rebuilt  bool
	logger   *slog.Logger
	progress io.Writer
}

// Facets lists the distinct values offered for request form fields.
type Facets struct {
	ServiceTypes []string `json:"service_types" yaml:"service_types"`
	Locations    []string `json:"locations" yaml:"locations"`
}

// Stats describes the encoded catalog.
type Stats struct {
	Providers        int              `json:"providers" yaml:"providers"`
	Columns          int              `json:"columns" yaml:"columns"`
	ServiceTypeTerms int              `json:"service_type_terms" yaml:"service_type_terms"`
	Skills           int              `json:"skills" yaml:"skills"`
	Days             int              `json:"days" yaml:"days"`
	Locations        int              `json:"locations" yaml:"locations"`
	Fingerprint      core.Fingerprint `json:"fingerprint" yaml:"fingerprint"`
	FittedAt         time.Time        `json:"fitted_at" yaml:"fitted_at"`
	Rebuilt          bool             `json:"rebuilt" yaml:"rebuilt"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithProgress reports row encoding progress to w whenever the catalog is
// re-encoded.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) {
		e.progress = w
	}
}

// sharedStore is the artifact store shared by an Engine and the engines
// derived from it by Rebuild. The backend closes with the last reference.
type sharedStore struct {
	backend *badger.Backend
	repo    storage.ArtifactRepository
	refs    atomic.Int32
}

func (s *sharedStore) acquire() *sharedStore {
	s.refs.Add(1)
	return s
}

func (s *sharedStore) release() error {
	if s.refs.Add(-1) > 0 {
		return nil
	}
	if err := s.repo.Close(); err != nil {
		return err
	}
	return s.backend.Close()
}

// Open validates cfg, opens the artifact store and loads or rebuilds the
// encoded catalog. Rebuilding happens synchronously before Open returns.
func Open(ctx context.Context, cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    *cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	backend, err := badger.OpenBackend(cfg.ArtifactDir, cfg.InMemory, badger.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store %s: %w", cfg.ArtifactDir, err)
	}
	repo, err := badger.NewArtifactRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	store := &sharedStore{backend: backend, repo: repo}
	store.acquire()

	matrix, encoders := repo.LoadArtifacts(ctx)
	if reason := e.rebuildReason(matrix, encoders); reason != "" {
		e.logger.Info("encoding catalog", "reason", reason, "data", cfg.DataPath)
		matrix, encoders, err = e.rebuild(ctx, repo)
		if err != nil {
			store.release()
			return nil, err
		}
		e.rebuilt = true
	} else {
		e.logger.Debug("artifacts loaded", "rows", matrix.Rows(), "columns", matrix.Width())
	}

	if err := e.install(store, matrix, encoders); err != nil {
		store.release()
		return nil, err
	}
	return e, nil
}

// rebuildReason explains why stored artifacts cannot be used, or returns
// the empty string when they can.
func (e *Engine) rebuildReason(matrix *features.Matrix, encoders *features.EncoderSet) string {
	if matrix == nil || encoders == nil {
		return "artifacts absent"
	}
	if err := matrix.Aligned(encoders); err != nil {
		e.logger.Warn("stored artifacts disagree", "err", err)
		return "artifacts inconsistent"
	}
	if !e.cfg.RebuildOnChange {
		return ""
	}
	content, err := os.ReadFile(e.cfg.DataPath)
	if err != nil {
		e.logger.Warn("cannot fingerprint catalog, keeping stored artifacts", "data", e.cfg.DataPath, "err", err)
		return ""
	}
	if core.FingerprintFromContent(content) != encoders.Fingerprint {
		return "catalog changed"
	}
	return ""
}

func (e *Engine) rebuild(ctx context.Context, repo storage.ArtifactRepository) (*features.Matrix, *features.EncoderSet, error) {
	opts := []ingestion.Option{ingestion.WithLogger(e.logger)}
	if e.cfg.PoolSize > 0 {
		opts = append(opts, ingestion.WithPoolSize(e.cfg.PoolSize))
	}
	if e.progress != nil {
		opts = append(opts, ingestion.WithProgress(e.progress, 1000))
	}

	pipeline, err := ingestion.NewPipeline(opts...)
	if err != nil {
		return nil, nil, err
	}
	defer pipeline.Release()

	return pipeline.Rebuild(ctx, e.cfg.DataPath, repo)
}

// install makes matrix and encoders the engine's state.
func (e *Engine) install(store *sharedStore, matrix *features.Matrix, encoders *features.EncoderSet) error {
	opts := []search.Option{search.WithLogger(e.logger)}
	if e.cfg.PoolSize > 0 {
		opts = append(opts, search.WithPoolSize(e.cfg.PoolSize))
	}
	ranker, err := search.NewRanker(matrix, encoders, opts...)
	if err != nil {
		return err
	}

	e.store = store
	e.matrix = matrix
	e.encoders = encoders
	e.ranker = ranker
	e.facets = buildFacets(matrix)
	return nil
}

func buildFacets(matrix *features.Matrix) Facets {
	serviceTypes := make([]string, 0)
	locations := make([]string, 0)
	for i := range matrix.Rows() {
		p := matrix.Provider(i)
		if s := strings.TrimSpace(p.ServiceType); s != "" {
			serviceTypes = append(serviceTypes, s)
		}
		if s := strings.TrimSpace(p.Location); s != "" {
			locations = append(locations, s)
		}
	}
	slices.Sort(serviceTypes)
	slices.Sort(locations)
	return Facets{
		ServiceTypes: slices.Compact(serviceTypes),
		Locations:    slices.Compact(locations),
	}
}

// Rebuild re-encodes the catalog, saves the artifacts and returns a new
// Engine over them. The receiver keeps serving its own state and must
// still be closed.
func (e *Engine) Rebuild(ctx context.Context) (*Engine, error) {
	matrix, encoders, err := e.rebuild(ctx, e.store.repo)
	if err != nil {
		return nil, err
	}

	next := &Engine{
		cfg:      e.cfg,
		rebuilt:  true,
		logger:   e.logger,
		progress: e.progress,
	}
	store := e.store.acquire()
	if err := next.install(store, matrix, encoders); err != nil {
		store.release()
		return nil, err
	}
	return next, nil
}

// Recommend ranks the catalog for req. A non-positive TopN is rejected
// with core.ErrInvalidTopN. A failure inside ranking is reported as
// ErrRecommendationFailed; the process keeps running.
func (e *Engine) Recommend(req search.Request) (recs []core.Recommendation, err error) {
	if err := core.ValidateTopN(req.TopN); err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("recommendation panicked", "panic", p)
			recs = nil
			err = fmt.Errorf("%w: %v", ErrRecommendationFailed, p)
		}
	}()

	return e.ranker.Rank(req), nil
}

// Explain ranks like Recommend and reports every stage to monitor.
func (e *Engine) Explain(req search.Request, monitor search.RankMonitor) (recs []core.Recommendation, err error) {
	if err := core.ValidateTopN(req.TopN); err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("recommendation panicked", "panic", p)
			recs = nil
			err = fmt.Errorf("%w: %v", ErrRecommendationFailed, p)
		}
	}()

	return e.ranker.RankWithMonitor(req, monitor), nil
}

// RecommendBatch ranks independent requests concurrently. Results keep
// request order.
func (e *Engine) RecommendBatch(ctx context.Context, reqs []search.Request) ([][]core.Recommendation, error) {
	for i := range reqs {
		if err := core.ValidateTopN(reqs[i].TopN); err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
	}

	results, err := e.ranker.RankBatch(ctx, reqs)
	if errors.Is(err, search.ErrRankFailed) {
		return nil, fmt.Errorf("%w: %w", ErrRecommendationFailed, err)
	}
	return results, err
}

// NewRequest builds a request for q with the engine's default TopN and
// similarity ordering.
func (e *Engine) NewRequest(q core.Query) search.Request {
	return search.Request{
		Query:     q,
		TopN:      e.cfg.TopN,
		SortBy:    core.SortBySimilarity,
		SortOrder: core.Descending,
	}
}

// Provider returns the provider with the given catalog ID.
func (e *Engine) Provider(id int64) (core.Provider, error) {
	p, ok := e.matrix.ProviderByID(id)
	if !ok {
		return core.Provider{}, fmt.Errorf("%w: %d", ErrProviderNotFound, id)
	}
	return *p, nil
}

// Providers returns every provider in catalog order.
func (e *Engine) Providers() []core.Provider {
	return e.matrix.Providers()
}

// Facets returns the sorted distinct service types and locations.
func (e *Engine) Facets() Facets {
	return Facets{
		ServiceTypes: slices.Clone(e.facets.ServiceTypes),
		Locations:    slices.Clone(e.facets.Locations),
	}
}

// Stats describes the encoded catalog.
func (e *Engine) Stats() Stats {
	schema := e.encoders.Schema
	return Stats{
		Providers:        e.matrix.Rows(),
		Columns:          e.matrix.Width(),
		ServiceTypeTerms: schema.BlockLen(features.BlockServiceType),
		Skills:           schema.BlockLen(features.BlockSkill),
		Days:             schema.BlockLen(features.BlockDay),
		Locations:        schema.BlockLen(features.BlockLocation),
		Fingerprint:      e.encoders.Fingerprint,
		FittedAt:         e.encoders.FittedAt,
		Rebuilt:          e.rebuilt,
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Close releases the artifact store once no derived engine uses it.
func (e *Engine) Close() error {
	if err := e.store.release(); err != nil {
		e.logger.Error("error closing artifact store", "err", err)
		return err
	}
	return nil
}
