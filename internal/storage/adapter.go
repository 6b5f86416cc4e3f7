package storage

import (
	"context"

	"github.com/gamehoard/gamehoard/internal/models"
)

// Adapter is the narrow contract every storage backend implements.
// Concrete backends (local disk, cloud drives) live behind this
// interface; the scanner never touches a backend directly.
//
// A missing path is a normal negative result on Exists and IsDirectory,
// not an error.
type Adapter interface {
	// Kind identifies the repository class this adapter serves.
	Kind() models.RepositoryKind

	// ListFiles returns the immediate children of a directory.
	ListFiles(ctx context.Context, path string) ([]string, error)

	// GetFileInfo returns metadata for a single path.
	GetFileInfo(ctx context.Context, path string) (models.FileRecord, error)

	// Exists reports whether a path exists.
	Exists(ctx context.Context, path string) (bool, error)

	// IsDirectory reports whether a path exists and is a directory.
	IsDirectory(ctx context.Context, path string) (bool, error)

	// DownloadToTemp materializes a remote file locally and returns the
	// local path. Local backends may return the path unchanged.
	DownloadToTemp(ctx context.Context, path string) (string, error)

	// GetSize returns the size of a file in bytes.
	GetSize(ctx context.Context, path string) (int64, error)
}
