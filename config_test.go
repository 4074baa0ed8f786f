package servmatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/servmatch/core"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join("data", "service_dataset.csv"), cfg.DataPath)
	assert.Equal(t, "models", cfg.ArtifactDir)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 0, cfg.PoolSize)
	assert.False(t, cfg.RebuildOnChange)
	assert.False(t, cfg.InMemory)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithDataPath("catalog.csv"),
		WithArtifactDir("/var/lib/servmatch"),
		WithInMemory(true),
		WithTopN(5),
		WithPoolSize(3),
		WithRebuildOnChange(true),
		WithListenAddr("127.0.0.1:9000"),
	)

	assert.Equal(t, &Config{
		DataPath:        "catalog.csv",
		ArtifactDir:     "/var/lib/servmatch",
		InMemory:        true,
		TopN:            5,
		PoolSize:        3,
		RebuildOnChange: true,
		ListenAddr:      "127.0.0.1:9000",
	}, cfg)
}

func TestConfigNormalize(t *testing.T) {
	cfg := NewConfig(
		WithDataPath("  ./data//service_dataset.csv "),
		WithArtifactDir("models/"),
		WithListenAddr(" :8080 "),
	)
	cfg.Normalize()

	assert.Equal(t, filepath.Join("data", "service_dataset.csv"), cfg.DataPath)
	assert.Equal(t, "models", cfg.ArtifactDir)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"missing data path", NewConfig(WithDataPath(" ")), true},
		{"missing artifact dir", NewConfig(WithArtifactDir("")), true},
		{"in memory without artifact dir", NewConfig(WithArtifactDir(""), WithInMemory(true)), false},
		{"zero top n", NewConfig(WithTopN(0)), true},
		{"negative pool size", NewConfig(WithPoolSize(-1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("top n error keeps domain sentinel", func(t *testing.T) {
		err := NewConfig(WithTopN(-3)).Validate()
		assert.ErrorIs(t, err, core.ErrInvalidTopN)
	})
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("overrides defaults", func(t *testing.T) {
		path := filepath.Join(dir, "servmatch.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
data_path = "catalog/providers.csv"
top_n = 25
rebuild_on_change = true
`), 0o644))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "catalog/providers.csv", cfg.DataPath)
		assert.Equal(t, 25, cfg.TopN)
		assert.True(t, cfg.RebuildOnChange)
		assert.Equal(t, "models", cfg.ArtifactDir)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "typo.toml")
		require.NoError(t, os.WriteFile(path, []byte(`topn = 3`), 0o644))

		_, err := LoadConfigFile(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(dir, "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte(`top_n = "ten"`), 0o644))

		_, err := LoadConfigFile(path)
		assert.Error(t, err)
	})
}
