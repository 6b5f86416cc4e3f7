package scanner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/scanner"
	"github.com/gamehoard/gamehoard/internal/storage"
)

func scan(t *testing.T, adapter *storage.MockAdapter, root string) *models.ScanResult {
	t.Helper()

	a := scanner.NewAssembler(adapter, scanner.WalkerOptions{MaxDepth: 5}, 64, testLogger())
	result, err := a.Scan(context.Background(), root)
	require.NoError(t, err)
	return result
}

func findByType(result *models.ScanResult, typ models.DetectedGameType) []models.DetectedGame {
	var out []models.DetectedGame
	for _, g := range result.Games {
		if g.Type == typ {
			out = append(out, g)
		}
	}
	return out
}

func TestScan_DetectsInstaller(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/downloads/setup_doom_2.0.exe", 5<<20)

	result := scan(t, adapter, "/downloads")

	installers := findByType(result, models.TypeInstallerExecutable)
	require.Len(t, installers, 1)
	assert.Equal(t, "Doom", installers[0].Name)
	assert.Equal(t, 0.9, installers[0].Confidence)
	assert.Equal(t, models.RepositoryMock, installers[0].Location.Repository)
}

func TestScan_DetectsPlatformInstaller(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/downloads/heroes.msi", 5<<20)

	result := scan(t, adapter, "/downloads")

	installers := findByType(result, models.TypeInstallerPlatform)
	require.Len(t, installers, 1)
	assert.Equal(t, 0.9, installers[0].Confidence)
	assert.Equal(t, "Heroes", installers[0].Name)
}

func TestScan_DetectsROM(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/roms/mario.sfc", 1<<20)

	result := scan(t, adapter, "/roms")

	roms := findByType(result, models.TypeROM)
	require.Len(t, roms, 1)
	assert.Equal(t, "Mario", roms[0].Name)
	assert.Equal(t, 0.95, roms[0].Confidence)
}

func TestScan_MarkdownReadmeIsNotAROM(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/roms/sonic.gen", 1<<20)
	adapter.AddFile("/roms/README.md", 1<<10)

	result := scan(t, adapter, "/roms")

	roms := findByType(result, models.TypeROM)
	require.Len(t, roms, 1)
	assert.Equal(t, "/roms/sonic.gen", roms[0].Location.Path)
}

func TestScan_MultiPartArchiveSurfacesOnce(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/archives/game.z01", 100<<20)
	adapter.AddFile("/archives/game.z02", 100<<20)
	adapter.AddFile("/archives/game.zip", 50<<20)

	result := scan(t, adapter, "/archives")

	archived := findByType(result, models.TypeArchived)
	require.Len(t, archived, 1)

	g := archived[0]
	assert.Equal(t, 0.85, g.Confidence)
	assert.True(t, g.Location.IsArchived)
	assert.Equal(t, "/archives/game.z01", g.Location.Path)
	assert.Len(t, g.Location.ArchiveParts, 3)
}

func TestScan_SingleArchive(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/archives/quake.zip", 50<<20)

	result := scan(t, adapter, "/archives")

	archived := findByType(result, models.TypeArchived)
	require.Len(t, archived, 1)
	assert.Equal(t, 0.8, archived[0].Confidence)
	assert.Equal(t, "/archives/quake.zip", archived[0].Location.Path)
	assert.True(t, archived[0].Location.IsArchived)
	assert.Empty(t, archived[0].Location.ArchiveParts)
}

func TestScan_PortableNamedFromDirectory(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/games/alone_in_the_dark/alone.exe", 8<<20)
	adapter.AddFile("/games/alone_in_the_dark/unins000.exe", 1<<20)
	adapter.AddFile("/games/alone_in_the_dark/readme.txt", 1<<10)

	result := scan(t, adapter, "/games")

	portable := findByType(result, models.TypePortableGame)
	require.Len(t, portable, 1)
	assert.Equal(t, "Alone In The Dark", portable[0].Name)
	assert.Equal(t, 0.7, portable[0].Confidence)
	assert.Equal(t, "/games/alone_in_the_dark/alone.exe", portable[0].Location.Path)
}

func TestScan_DOSBoxSiblingChangesType(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/games/commander_keen/keen.exe", 2<<20)
	adapter.AddFile("/games/commander_keen/dosbox.exe", 4<<20)

	result := scan(t, adapter, "/games")

	dosbox := findByType(result, models.TypeRequiresDOSBox)
	require.Len(t, dosbox, 1)
	assert.Equal(t, "/games/commander_keen/keen.exe", dosbox[0].Location.Path)
}

func TestScan_MissingRootFatal(t *testing.T) {
	adapter := storage.NewMockAdapter()
	a := scanner.NewAssembler(adapter, scanner.WalkerOptions{MaxDepth: 5}, 64, testLogger())

	_, err := a.Scan(context.Background(), "/nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrScanRootMissing)
}

func TestScan_Statistics(t *testing.T) {
	adapter := storage.NewMockAdapter()
	adapter.AddFile("/games/a/one.exe", 1<<20)
	adapter.AddFile("/games/b/two.sfc", 1<<20)

	result := scan(t, adapter, "/games")

	assert.Equal(t, 2, result.FilesScanned)
	assert.Equal(t, 3, result.DirectoriesScanned)
	assert.Empty(t, result.Errors)
}
