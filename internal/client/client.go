// Package client wires the scanner, catalog and library into the
// high-level API used by the CLI.
package client

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/config"
	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/library"
	"github.com/gamehoard/gamehoard/internal/match"
	"github.com/gamehoard/gamehoard/internal/metadata"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/scanner"
	"github.com/gamehoard/gamehoard/internal/services/identify"
	"github.com/gamehoard/gamehoard/internal/storage"
)

// Client provides the high-level API for gamehoard operations.
type Client struct {
	Catalog  metadata.Catalog
	Library  *library.Catalog
	Identify *identify.Service

	config  *config.Config
	logger  *events.Logger
	adapter storage.Adapter
}

// New creates a client from configuration. All services are explicitly
// constructed here; nothing is registered globally.
func New(cfg *config.Config, logger *events.Logger) (*Client, error) {
	adapter, err := storage.NewLocalAdapter(cfg.Storage.TempDir, logger)
	if err != nil {
		return nil, err
	}

	catalog, err := metadata.NewSQLiteCatalog(cfg.Catalog.DatabasePath, logger)
	if err != nil {
		return nil, err
	}

	matcher := match.NewMatcher(match.Strategy(cfg.Match.Strategy), cfg.Match.FuzzyThreshold)
	lib := library.NewCatalog(matcher, logger)

	identifier := identify.NewService(catalog, cfg.Match.FuzzyThreshold, cfg.Match.MaxCandidates, logger)

	return &Client{
		Catalog:  catalog,
		Library:  lib,
		Identify: identifier,
		config:   cfg,
		logger:   logger,
		adapter:  adapter,
	}, nil
}

// Scan runs the detection pipeline over a local directory tree. Each
// run carries a fresh scan ID through the context so concurrent scans
// are distinguishable in the logs.
func (c *Client) Scan(ctx context.Context, root string) (*models.ScanResult, error) {
	ctx = events.WithScanID(events.WithLogger(ctx, c.logger), uuid.NewString())

	assembler := scanner.NewAssembler(
		c.adapter,
		scanner.WalkerOptions{
			MaxDepth:        c.config.Scan.MaxDepth,
			IncludeHidden:   c.config.Scan.IncludeHidden,
			ExcludePatterns: c.config.Scan.ExcludePatterns,
			Parallelism:     c.config.Scan.Parallelism,
		},
		c.config.Scan.MaxArchiveParts,
		events.FromContext(ctx),
	)

	return assembler.Scan(ctx, root)
}

// LibraryPath returns the on-disk location of the library snapshot.
func (c *Client) LibraryPath() string {
	return filepath.Join(c.config.Storage.StateDir, "library.json")
}

// LoadLibrary restores the persisted unified catalog, if present.
func (c *Client) LoadLibrary() error {
	return c.Library.Load(c.LibraryPath())
}

// SaveLibrary persists the unified catalog.
func (c *Client) SaveLibrary() error {
	return c.Library.Save(c.LibraryPath())
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.Catalog.Close()
}
