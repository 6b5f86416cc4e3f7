package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gamehoard/gamehoard/internal/models"
)

// MockAdapter provides an in-memory adapter for testing. Paths use
// forward slashes regardless of platform.
type MockAdapter struct {
	mu    sync.RWMutex
	files map[string]mockFile
	dirs  map[string]bool

	// ListErr, when set for a path, makes ListFiles fail there.
	listErrs map[string]error
}

type mockFile struct {
	size    int64
	modTime time.Time
}

// NewMockAdapter creates an empty mock adapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		files:    make(map[string]mockFile),
		dirs:     map[string]bool{"/": true},
		listErrs: make(map[string]error),
	}
}

// AddFile registers a file and its ancestor directories.
func (m *MockAdapter) AddFile(filePath string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = path.Clean("/" + strings.TrimPrefix(filePath, "/"))
	m.files[filePath] = mockFile{size: size, modTime: time.Now()}

	for dir := path.Dir(filePath); ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" {
			break
		}
	}
}

// AddDir registers an empty directory.
func (m *MockAdapter) AddDir(dirPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dirPath = path.Clean("/" + strings.TrimPrefix(dirPath, "/"))
	for dir := dirPath; ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" {
			break
		}
	}
}

// FailListing makes ListFiles return an error for the given directory.
func (m *MockAdapter) FailListing(dirPath string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErrs[path.Clean("/"+strings.TrimPrefix(dirPath, "/"))] = err
}

// Kind identifies the repository class.
func (m *MockAdapter) Kind() models.RepositoryKind {
	return models.RepositoryMock
}

// ListFiles returns the immediate children of a directory.
func (m *MockAdapter) ListFiles(ctx context.Context, dirPath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	dirPath = path.Clean("/" + strings.TrimPrefix(dirPath, "/"))

	if err, ok := m.listErrs[dirPath]; ok {
		return nil, &models.AdapterError{Op: "list", Path: dirPath, Err: err}
	}

	if !m.dirs[dirPath] {
		return nil, &models.AdapterError{Op: "list", Path: dirPath, Err: fmt.Errorf("not a directory")}
	}

	seen := make(map[string]bool)
	var children []string

	collect := func(p string) {
		if path.Dir(p) == dirPath && !seen[p] {
			seen[p] = true
			children = append(children, p)
		}
	}

	for p := range m.files {
		collect(p)
	}
	for p := range m.dirs {
		if p != "/" {
			collect(p)
		}
	}

	sort.Strings(children)
	return children, nil
}

// GetFileInfo returns metadata for a single path.
func (m *MockAdapter) GetFileInfo(ctx context.Context, filePath string) (models.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.FileRecord{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = path.Clean("/" + strings.TrimPrefix(filePath, "/"))

	if f, ok := m.files[filePath]; ok {
		return models.FileRecord{
			Path:       filePath,
			Name:       path.Base(filePath),
			Size:       f.size,
			ModifiedAt: f.modTime,
			Extension:  strings.ToLower(path.Ext(filePath)),
		}, nil
	}

	if m.dirs[filePath] {
		return models.FileRecord{
			Path:        filePath,
			Name:        path.Base(filePath),
			IsDirectory: true,
		}, nil
	}

	return models.FileRecord{}, &models.AdapterError{
		Op: "stat", Path: filePath, Err: fmt.Errorf("no such file"),
	}
}

// Exists reports whether a path exists.
func (m *MockAdapter) Exists(ctx context.Context, filePath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = path.Clean("/" + strings.TrimPrefix(filePath, "/"))
	_, isFile := m.files[filePath]
	return isFile || m.dirs[filePath], nil
}

// IsDirectory reports whether a path exists and is a directory.
func (m *MockAdapter) IsDirectory(ctx context.Context, filePath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.dirs[path.Clean("/"+strings.TrimPrefix(filePath, "/"))], nil
}

// DownloadToTemp returns the path unchanged; mock files have no content.
func (m *MockAdapter) DownloadToTemp(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return filePath, nil
}

// GetSize returns the size of a file in bytes.
func (m *MockAdapter) GetSize(ctx context.Context, filePath string) (int64, error) {
	info, err := m.GetFileInfo(ctx, filePath)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}
