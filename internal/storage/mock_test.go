package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/storage"
)

func TestMockAdapter_AddFileRegistersAncestors(t *testing.T) {
	m := storage.NewMockAdapter()
	m.AddFile("/games/doom/doom.exe", 100)
	ctx := context.Background()

	for _, dir := range []string{"/", "/games", "/games/doom"} {
		isDir, err := m.IsDirectory(ctx, dir)
		require.NoError(t, err)
		assert.True(t, isDir, dir)
	}

	ok, err := m.Exists(ctx, "/games/doom/doom.exe")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMockAdapter_ListFilesSorted(t *testing.T) {
	m := storage.NewMockAdapter()
	m.AddFile("/games/zelda.nes", 100)
	m.AddFile("/games/doom.exe", 100)
	m.AddDir("/games/saves")

	children, err := m.ListFiles(context.Background(), "/games")
	require.NoError(t, err)
	assert.Equal(t, []string{"/games/doom.exe", "/games/saves", "/games/zelda.nes"}, children)
}

func TestMockAdapter_ListFilesNotADirectory(t *testing.T) {
	m := storage.NewMockAdapter()
	m.AddFile("/games/doom.exe", 100)

	_, err := m.ListFiles(context.Background(), "/games/doom.exe")
	require.Error(t, err)

	var adapterErr *models.AdapterError
	assert.ErrorAs(t, err, &adapterErr)
}

func TestMockAdapter_FailListing(t *testing.T) {
	m := storage.NewMockAdapter()
	m.AddFile("/games/doom.exe", 100)
	cause := errors.New("transient")
	m.FailListing("/games", cause)

	_, err := m.ListFiles(context.Background(), "/games")
	assert.ErrorIs(t, err, cause)
}

func TestMockAdapter_GetFileInfoLowercasesExtension(t *testing.T) {
	m := storage.NewMockAdapter()
	m.AddFile("/games/DOOM.EXE", 42)

	info, err := m.GetFileInfo(context.Background(), "/games/DOOM.EXE")
	require.NoError(t, err)
	assert.Equal(t, ".exe", info.Extension)
	assert.Equal(t, int64(42), info.Size)
}

func TestMockAdapter_CancelledContext(t *testing.T) {
	m := storage.NewMockAdapter()
	m.AddFile("/games/doom.exe", 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.ListFiles(ctx, "/games")
	assert.ErrorIs(t, err, context.Canceled)
}
