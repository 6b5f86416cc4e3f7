package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	// Scan behavior
	Scan ScanConfig `json:"scan" mapstructure:"scan"`

	// Identity matching
	Match MatchConfig `json:"match" mapstructure:"match"`

	// Metadata catalog
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`

	// Storage paths
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Logging
	Log LogConfig `json:"log" mapstructure:"log"`
}

// ScanConfig controls tree traversal and detection.
type ScanConfig struct {
	MaxDepth        int      `json:"max_depth" mapstructure:"max_depth"`
	IncludeHidden   bool     `json:"include_hidden" mapstructure:"include_hidden"`
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns"`
	Parallelism     int      `json:"parallelism" mapstructure:"parallelism"`

	// MaxArchiveParts bounds sequential existence probes per naming family.
	MaxArchiveParts int `json:"max_archive_parts" mapstructure:"max_archive_parts"`
}

// MatchConfig controls identity resolution across sources and against
// the metadata catalog.
type MatchConfig struct {
	Strategy       string  `json:"strategy" mapstructure:"strategy"`
	FuzzyThreshold float64 `json:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	MaxCandidates  int     `json:"max_candidates" mapstructure:"max_candidates"`
}

// CatalogConfig locates the metadata catalog database.
type CatalogConfig struct {
	DatabasePath string `json:"database_path" mapstructure:"database_path"`
}

// StorageConfig for local file paths.
type StorageConfig struct {
	DataDir  string `json:"data_dir" mapstructure:"data_dir"`
	StateDir string `json:"state_dir" mapstructure:"state_dir"`
	TempDir  string `json:"temp_dir" mapstructure:"temp_dir"`
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	Format    string `json:"format" mapstructure:"format"`
	File      string `json:"file" mapstructure:"file"`
	Color     bool   `json:"color" mapstructure:"color"`
	Timestamp bool   `json:"timestamp" mapstructure:"timestamp"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".gamehoard"

	return &Config{
		Scan: ScanConfig{
			MaxDepth:        5,
			IncludeHidden:   false,
			ExcludePatterns: []string{"node_modules", "*.tmp", "$recycle.bin"},
			Parallelism:     4,
			MaxArchiveParts: 64,
		},
		Match: MatchConfig{
			Strategy:       "normalized",
			FuzzyThreshold: 0.9,
			MaxCandidates:  10,
		},
		Catalog: CatalogConfig{
			DatabasePath: filepath.Join(dataDir, "catalog.db"),
		},
		Storage: StorageConfig{
			DataDir:  dataDir,
			StateDir: filepath.Join(dataDir, "state"),
			TempDir:  filepath.Join(dataDir, "temp"),
		},
		Log: LogConfig{
			Level:     "info",
			Format:    "text",
			File:      "",
			Color:     true,
			Timestamp: true,
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < 0 {
		return errors.New("scan.max_depth must not be negative")
	}

	if c.Scan.Parallelism <= 0 {
		return errors.New("scan.parallelism must be positive")
	}

	if c.Scan.MaxArchiveParts <= 0 {
		return errors.New("scan.max_archive_parts must be positive")
	}

	validStrategies := map[string]bool{
		"exact": true, "normalized": true, "fuzzy": true,
		"external-id": true, "manual": true,
	}
	if !validStrategies[c.Match.Strategy] {
		return fmt.Errorf("invalid match strategy: %s", c.Match.Strategy)
	}

	if c.Match.FuzzyThreshold < 0 || c.Match.FuzzyThreshold > 1 {
		return errors.New("match.fuzzy_threshold must be in [0,1]")
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDir,
		c.Storage.StateDir,
		c.Storage.TempDir,
		filepath.Dir(c.Catalog.DatabasePath),
	}

	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
