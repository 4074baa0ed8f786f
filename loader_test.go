package servmatch

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_OpensOnce(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), testProviders())
	loader := NewLoader(NewConfig(WithDataPath(path), WithInMemory(true)))
	defer loader.Close()

	engines := make([]*Engine, 8)
	var wg sync.WaitGroup
	for i := range engines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := loader.Engine(context.Background())
			assert.NoError(t, err)
			engines[i] = e
		}()
	}
	wg.Wait()

	require.NotNil(t, engines[0])
	for _, e := range engines {
		assert.Same(t, engines[0], e)
	}
}

func TestLoader_SharesFailure(t *testing.T) {
	loader := NewLoader(NewConfig(WithDataPath(filepath.Join(t.TempDir(), "missing.csv")), WithInMemory(true)))

	_, err := loader.Engine(context.Background())
	assert.ErrorIs(t, err, ErrDatasetNotFound)
	_, err = loader.Engine(context.Background())
	assert.ErrorIs(t, err, ErrDatasetNotFound)
	assert.NoError(t, loader.Close())
}

func TestLoader_CloseBeforeUse(t *testing.T) {
	loader := NewLoader(DefaultConfig())
	require.NoError(t, loader.Close())

	_, err := loader.Engine(context.Background())
	assert.ErrorIs(t, err, ErrLoaderClosed)
}
