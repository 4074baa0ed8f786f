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


package servmatch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/poiesic/servmatch/core"
)

// Config holds the settings of an Engine.
type Config struct {
	// DataPath is the provider catalog CSV.
	// Default: "data/service_dataset.csv"
	DataPath string `toml:"data_path"`

	// ArtifactDir is the BadgerDB directory holding the encoded artifacts.
	// Default: "models"
	ArtifactDir string `toml:"artifact_dir"`

	// InMemory keeps artifacts in memory only; ArtifactDir is ignored.
	InMemory bool `toml:"in_memory"`

	// TopN is the number of recommendations returned when a request does
	// not say otherwise.
	// Default: 10
	TopN int `toml:"top_n"`

	// PoolSize is the worker count for row encoding and batch ranking.
	// Zero picks runtime.NumCPU() / 2.
	PoolSize int `toml:"pool_size"`

	// RebuildOnChange re-encodes the catalog when its content no longer
	// matches the fingerprint stored with the artifacts.
	// Default: false
	RebuildOnChange bool `toml:"rebuild_on_change"`

	// ListenAddr is the HTTP listen address of the serve command.
	// Default: ":8080"
	ListenAddr string `toml:"listen_addr"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDataPath sets the catalog CSV path.
func WithDataPath(path string) ConfigOption {
	return func(c *Config) {
		c.DataPath = path
	}
}

// WithArtifactDir sets the artifact directory.
func WithArtifactDir(dir string) ConfigOption {
	return func(c *Config) {
		c.ArtifactDir = dir
	}
}

// WithInMemory keeps artifacts in memory.
func WithInMemory(inMemory bool) ConfigOption {
	return func(c *Config) {
		c.InMemory = inMemory
	}
}

// WithTopN sets the default result count.
func WithTopN(n int) ConfigOption {
	return func(c *Config) {
		c.TopN = n
	}
}

// WithPoolSize sets the worker pool size.
func WithPoolSize(n int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = n
	}
}

// WithRebuildOnChange enables fingerprint based rebuilds.
func WithRebuildOnChange(enabled bool) ConfigOption {
	return func(c *Config) {
		c.RebuildOnChange = enabled
	}
}

// WithListenAddr sets the HTTP listen address.
func WithListenAddr(addr string) ConfigOption {
	return func(c *Config) {
		c.ListenAddr = addr
	}
}

// DefaultConfig returns a Config with the defaults used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		DataPath:    filepath.Join("data", "service_dataset.csv"),
		ArtifactDir: "models",
		TopN:        core.DefaultTopN,
		ListenAddr:  ":8080",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithDataPath("testdata/providers.csv"),
//	    WithInMemory(true),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfigFile reads a TOML config file over the defaults. Keys the file
// sets override the defaults; unknown keys are rejected.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s in %s", ErrInvalidConfig, strings.Join(keys, ", "), path)
	}
	return cfg, nil
}

// Normalize trims whitespace and cleans paths.
func (c *Config) Normalize() {
	c.DataPath = strings.TrimSpace(c.DataPath)
	if c.DataPath != "" {
		c.DataPath = filepath.Clean(c.DataPath)
	}
	c.ArtifactDir = strings.TrimSpace(c.ArtifactDir)
	if c.ArtifactDir != "" {
		c.ArtifactDir = filepath.Clean(c.ArtifactDir)
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.DataPath == "" {
		return fmt.Errorf("%w: DataPath is required", ErrInvalidConfig)
	}
	if c.ArtifactDir == "" && !c.InMemory {
		return fmt.Errorf("%w: ArtifactDir is required", ErrInvalidConfig)
	}
	if err := core.ValidateTopN(c.TopN); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: PoolSize cannot be negative", ErrInvalidConfig)
	}
	return nil
}
