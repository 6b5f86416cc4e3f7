package metadata_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/metadata"
	"github.com/gamehoard/gamehoard/internal/models"
)

func testLogger() *events.Logger {
	return events.NewTestLogger(events.ErrorLevel, "text", discard{})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func openCatalog(t *testing.T) *metadata.SQLiteCatalog {
	t.Helper()

	catalog, err := metadata.NewSQLiteCatalog(filepath.Join(t.TempDir(), "catalog.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close() })
	return catalog
}

func sampleRecords() []models.GameMetadata {
	return []models.GameMetadata{
		{
			ID:          "igdb-1",
			Title:       "Doom II",
			Platform:    "DOS",
			Developer:   "id Software",
			Publisher:   "GT Interactive",
			ReleaseDate: time.Date(1994, 9, 30, 0, 0, 0, 0, time.UTC),
			Genres:      []string{"FPS"},
			Rating:      9.2,
			Source:      "igdb",
		},
		{
			ID:       "igdb-2",
			Title:    "Doom 3",
			Platform: "Windows",
			Source:   "igdb",
		},
		{
			ID:       "igdb-3",
			Title:    "Heroes of Might and Magic",
			Platform: "DOS",
			Source:   "igdb",
		},
	}
}

func TestSQLiteCatalog_ImportAndExactSearch(t *testing.T) {
	catalog := openCatalog(t)
	ctx := context.Background()
	require.NoError(t, catalog.Import(ctx, sampleRecords()))

	populated, err := catalog.IsPopulated(ctx)
	require.NoError(t, err)
	assert.True(t, populated)

	// Exact search normalizes the query title.
	results, err := catalog.SearchExact(ctx, "DOOM II!", "")
	require.NoError(t, err)
	require.Len(t, results, 1)

	rec := results[0]
	assert.Equal(t, "igdb-1", rec.ID)
	assert.Equal(t, "Doom II", rec.Title)
	assert.Equal(t, []string{"FPS"}, rec.Genres)
	assert.Equal(t, 1994, rec.ReleaseDate.Year())
}

func TestSQLiteCatalog_ExactSearchPlatformFilter(t *testing.T) {
	catalog := openCatalog(t)
	ctx := context.Background()
	require.NoError(t, catalog.Import(ctx, sampleRecords()))

	results, err := catalog.SearchExact(ctx, "Doom II", "dos")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = catalog.SearchExact(ctx, "Doom II", "Amiga")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSQLiteCatalog_FuzzySearchRanksBySimilarity(t *testing.T) {
	catalog := openCatalog(t)
	ctx := context.Background()
	require.NoError(t, catalog.Import(ctx, sampleRecords()))

	results, err := catalog.SearchFuzzy(ctx, "doom ii", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "igdb-1", results[0].ID)
}

func TestSQLiteCatalog_FuzzySearchReachesInnerSubstrings(t *testing.T) {
	catalog := openCatalog(t)
	ctx := context.Background()
	require.NoError(t, catalog.Import(ctx, sampleRecords()))

	// A query differing from the stored title in its leading characters
	// must still surface the record for ranking.
	results, err := catalog.SearchFuzzy(ctx, "might and magic", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "igdb-3", results[0].ID)
}

func TestSQLiteCatalog_ImportUpserts(t *testing.T) {
	catalog := openCatalog(t)
	ctx := context.Background()
	require.NoError(t, catalog.Import(ctx, sampleRecords()))

	updated := []models.GameMetadata{{
		ID:       "igdb-1",
		Title:    "Doom II: Hell on Earth",
		Platform: "DOS",
		Source:   "igdb",
	}}
	require.NoError(t, catalog.Import(ctx, updated))

	results, err := catalog.SearchExact(ctx, "Doom II: Hell on Earth", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "igdb-1", results[0].ID)

	// The old normalized title no longer resolves to that record.
	results, err = catalog.SearchExact(ctx, "Doom II", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSQLiteCatalog_Touch(t *testing.T) {
	catalog := openCatalog(t)
	ctx := context.Background()
	require.NoError(t, catalog.Import(ctx, sampleRecords()))

	require.NoError(t, catalog.Touch(ctx, "igdb-1"))
	// Touching an unknown id is a no-op, not an error.
	require.NoError(t, catalog.Touch(ctx, "missing"))
}

func TestSQLiteCatalog_EmptyIsNotPopulated(t *testing.T) {
	catalog := openCatalog(t)

	populated, err := catalog.IsPopulated(context.Background())
	require.NoError(t, err)
	assert.False(t, populated)
}
