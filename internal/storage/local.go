package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/models"
)

// LocalAdapter serves files from the local filesystem.
type LocalAdapter struct {
	tempDir string
	logger  *events.Logger
}

// NewLocalAdapter creates a local filesystem adapter. tempDir receives
// DownloadToTemp copies; it is created if absent.
func NewLocalAdapter(tempDir string, logger *events.Logger) (*LocalAdapter, error) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0700); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	return &LocalAdapter{
		tempDir: tempDir,
		logger:  logger.WithField("component", "local_adapter"),
	}, nil
}

// Kind identifies the repository class.
func (a *LocalAdapter) Kind() models.RepositoryKind {
	return models.RepositoryLocal
}

// ListFiles returns the immediate children of a directory.
func (a *LocalAdapter) ListFiles(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, &models.AdapterError{Op: "list", Path: path, Err: err}
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(path, entry.Name()))
	}

	return paths, nil
}

// GetFileInfo returns metadata for a single path.
func (a *LocalAdapter) GetFileInfo(ctx context.Context, path string) (models.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.FileRecord{}, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return models.FileRecord{}, &models.AdapterError{Op: "stat", Path: path, Err: err}
	}

	return models.FileRecord{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        stat.Size(),
		IsDirectory: stat.IsDir(),
		ModifiedAt:  stat.ModTime(),
		Extension:   strings.ToLower(filepath.Ext(path)),
	}, nil
}

// Exists reports whether a path exists. A missing path is a negative
// result, not an error.
func (a *LocalAdapter) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, &models.AdapterError{Op: "exists", Path: path, Err: err}
}

// IsDirectory reports whether a path exists and is a directory.
func (a *LocalAdapter) IsDirectory(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &models.AdapterError{Op: "isdir", Path: path, Err: err}
	}

	return stat.IsDir(), nil
}

// DownloadToTemp copies a file into the temp directory and returns the
// copy's path.
func (a *LocalAdapter) DownloadToTemp(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(path)
	if err != nil {
		return "", &models.AdapterError{Op: "download", Path: path, Err: err}
	}
	defer src.Close()

	dst, err := os.CreateTemp(a.tempDir, "gamehoard-*"+filepath.Ext(path))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("copy to temp: %w", err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	a.logger.WithFields(map[string]interface{}{
		"path": path,
		"temp": dst.Name(),
	}).Debug("Copied file to temp")

	return dst.Name(), nil
}

// GetSize returns the size of a file in bytes.
func (a *LocalAdapter) GetSize(ctx context.Context, path string) (int64, error) {
	info, err := a.GetFileInfo(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}
