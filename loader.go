package servmatch

import (
	"context"
	"sync"
)

// Loader opens an Engine on first use. Concurrent callers of Engine block
// until the single initialization finishes and then share its outcome,
// including a failure.
type Loader struct {
	cfg  *Config
	opts []Option

	once   sync.Once
	engine *Engine
	err    error
}

// NewLoader creates a loader that opens an Engine with cfg and opts.
func NewLoader(cfg *Config, opts ...Option) *Loader {
	return &Loader{cfg: cfg, opts: opts}
}

// Engine returns the engine, opening it on the first call.
func (l *Loader) Engine(ctx context.Context) (*Engine, error) {
	l.once.Do(func() {
		l.engine, l.err = Open(ctx, l.cfg, l.opts...)
	})
	return l.engine, l.err
}

// Close closes the engine if it was opened. A loader that was never used
// is closed without opening, and later calls to Engine fail with
// ErrLoaderClosed.
func (l *Loader) Close() error {
	l.once.Do(func() {
		l.err = ErrLoaderClosed
	})
	if l.engine == nil {
		return nil
	}
	return l.engine.Close()
}
