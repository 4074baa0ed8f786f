package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/servmatch/catalog"
	"github.com/poiesic/servmatch/core"
)

func TestGenerate(t *testing.T) {
	t.Run("deterministic for a seed", func(t *testing.T) {
		assert.Equal(t, generate(50, 7), generate(50, 7))
		assert.NotEqual(t, generate(50, 7), generate(50, 8))
	})

	t.Run("rows are valid", func(t *testing.T) {
		providers := generate(100, 3)
		require.Len(t, providers, 100)
		for i := range providers {
			p := &providers[i]
			assert.Equal(t, int64(i+1), p.ID)
			assert.NoError(t, core.ValidateProvider(p))
			assert.NotEmpty(t, p.Skills)
		}
	})
}

func TestWriteCatalog_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.csv")
	providers := generate(25, 11)
	require.NoError(t, writeCatalog(path, providers))

	loaded, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, providers, loaded)
}
