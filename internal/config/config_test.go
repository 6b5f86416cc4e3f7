package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehoard/gamehoard/internal/config"
	"github.com/gamehoard/gamehoard/internal/models"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.Scan.MaxDepth)
	assert.Equal(t, 4, cfg.Scan.Parallelism)
	assert.Equal(t, 64, cfg.Scan.MaxArchiveParts)
	assert.Equal(t, "normalized", cfg.Match.Strategy)
	assert.Equal(t, 0.9, cfg.Match.FuzzyThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "negative max depth",
			mutate:  func(c *config.Config) { c.Scan.MaxDepth = -1 },
			wantErr: "max_depth",
		},
		{
			name:    "zero parallelism",
			mutate:  func(c *config.Config) { c.Scan.Parallelism = 0 },
			wantErr: "parallelism",
		},
		{
			name:    "zero archive parts",
			mutate:  func(c *config.Config) { c.Scan.MaxArchiveParts = 0 },
			wantErr: "max_archive_parts",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *config.Config) { c.Match.Strategy = "psychic" },
			wantErr: "match strategy",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *config.Config) { c.Match.FuzzyThreshold = 1.5 },
			wantErr: "fuzzy_threshold",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Log.Level = "verbose" },
			wantErr: "log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Log.Format = "xml" },
			wantErr: "log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"scan": {"max_depth": 9, "parallelism": 2},
		"match": {"strategy": "fuzzy", "fuzzy_threshold": 0.85}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := config.NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Scan.MaxDepth)
	assert.Equal(t, 2, cfg.Scan.Parallelism)
	assert.Equal(t, "fuzzy", cfg.Match.Strategy)
	assert.Equal(t, 0.85, cfg.Match.FuzzyThreshold)
	// Untouched fields keep their defaults.
	assert.Equal(t, 64, cfg.Scan.MaxArchiveParts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	_, err := config.NewLoader(filepath.Join(t.TempDir(), "absent.json")).Load()
	assert.Error(t, err)
}

func TestLoader_InvalidFileContentRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"match": {"strategy": "psychic"}}`), 0600))

	_, err := config.NewLoader(path).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = filepath.Join(base, "data")
	cfg.Storage.StateDir = filepath.Join(base, "data", "state")
	cfg.Storage.TempDir = filepath.Join(base, "data", "temp")
	cfg.Catalog.DatabasePath = filepath.Join(base, "data", "catalog.db")

	require.NoError(t, cfg.EnsureDirectories())

	for _, dir := range []string{cfg.Storage.DataDir, cfg.Storage.StateDir, cfg.Storage.TempDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
