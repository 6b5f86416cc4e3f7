package library_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/library"
	"github.com/gamehoard/gamehoard/internal/match"
	"github.com/gamehoard/gamehoard/internal/models"
)

func testLogger() *events.Logger {
	return events.NewTestLogger(events.ErrorLevel, "text", discard{})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newCatalog() *library.Catalog {
	return library.NewCatalog(match.NewMatcher(match.StrategyNormalized, 0.9), testLogger())
}

func source(sourceID, name string, repo models.RepositoryKind) models.GameSource {
	return models.GameSource{
		SourceID: sourceID,
		Detected: models.DetectedGame{
			ID:   sourceID,
			Name: name,
			Type: models.TypePortableGame,
			Location: models.GameLocation{
				Repository: repo,
				Path:       "/games/" + name,
			},
			Confidence: 0.7,
			DetectedAt: time.Now(),
		},
	}
}

func TestAddDetectedGame_NormalizedTitlesUnify(t *testing.T) {
	c := newCatalog()

	g1 := c.AddDetectedGame(source("local-1", "Alone in the Dark", models.RepositoryLocal))
	g2 := c.AddDetectedGame(source("cloud-1", "alone-in-the-dark", models.RepositoryCloud))

	assert.Equal(t, g1.ID, g2.ID)
	assert.Equal(t, 1, c.Len())

	game, ok := c.Get(g1.ID)
	require.True(t, ok)
	assert.Len(t, game.Sources, 2)
	assert.Equal(t, "Alone in the Dark", game.Title)
}

func TestAddDetectedGame_DistinctTitlesStaySeparate(t *testing.T) {
	c := newCatalog()

	c.AddDetectedGame(source("s1", "Doom", models.RepositoryLocal))
	c.AddDetectedGame(source("s2", "Quake", models.RepositoryLocal))

	assert.Equal(t, 2, c.Len())
}

func TestConsolidation_InstalledAndPlaytime(t *testing.T) {
	c := newCatalog()

	s1 := source("s1", "Doom", models.RepositoryLocal)
	s1.Installed = true
	s1.Playtime = 2 * time.Hour
	s1.LastPlayed = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s2 := source("s2", "Doom", models.RepositoryCloud)
	s2.Playtime = 3 * time.Hour
	s2.LastPlayed = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	g := c.AddDetectedGame(s1)
	c.AddDetectedGame(s2)

	game, ok := c.Get(g.ID)
	require.True(t, ok)
	assert.True(t, game.IsInstalled)
	assert.Equal(t, 5*time.Hour, game.TotalPlaytime)
	assert.Equal(t, s2.LastPlayed, game.LastPlayed)
}

func TestAddIdentification_PromotesMetadataTitle(t *testing.T) {
	c := newCatalog()
	g := c.AddDetectedGame(source("s1", "doom 2", models.RepositoryLocal))

	err := c.AddIdentification(g.ID, "catalog", models.IdentificationResult{
		Metadata: &models.GameMetadata{
			ID:       "igdb-123",
			Title:    "Doom II",
			Platform: "DOS",
			CoverURL: "https://covers.test/doom2.jpg",
		},
		Confidence: 0.95,
	})
	require.NoError(t, err)

	game, ok := c.Get(g.ID)
	require.True(t, ok)
	assert.Equal(t, "Doom II", game.Title)
	assert.Equal(t, "DOS", game.Platform)
	require.Len(t, game.Identifications, 1)
	assert.Equal(t, "catalog", game.Identifications[0].IdentifierID)
	assert.False(t, game.Identifications[0].IdentifiedAt.IsZero())
}

func TestAddIdentification_UnknownGame(t *testing.T) {
	c := newCatalog()
	err := c.AddIdentification("missing", "catalog", models.IdentificationResult{})
	assert.ErrorIs(t, err, models.ErrGameNotFound)
}

func TestBestIdentificationWins(t *testing.T) {
	c := newCatalog()
	g := c.AddDetectedGame(source("s1", "heroes", models.RepositoryLocal))

	require.NoError(t, c.AddIdentification(g.ID, "guess", models.IdentificationResult{
		Metadata:   &models.GameMetadata{Title: "Heroes?"},
		Confidence: 0.6,
	}))
	require.NoError(t, c.AddIdentification(g.ID, "catalog", models.IdentificationResult{
		Metadata:   &models.GameMetadata{Title: "Heroes of Might and Magic"},
		Confidence: 0.95,
	}))

	game, _ := c.Get(g.ID)
	assert.Equal(t, "Heroes of Might and Magic", game.Title)
}

func TestMergeGames(t *testing.T) {
	c := newCatalog()
	a := c.AddDetectedGame(source("s1", "Doom", models.RepositoryLocal))
	b := c.AddDetectedGame(source("s2", "Doom 2", models.RepositoryLocal))

	require.NoError(t, c.MergeGames(a.ID, b.ID))

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(b.ID)
	assert.False(t, ok)

	merged, ok := c.Get(a.ID)
	require.True(t, ok)
	assert.Len(t, merged.Sources, 2)
}

func TestMergeGames_SelfAndMissing(t *testing.T) {
	c := newCatalog()
	a := c.AddDetectedGame(source("s1", "Doom", models.RepositoryLocal))

	assert.Error(t, c.MergeGames(a.ID, a.ID))
	assert.ErrorIs(t, c.MergeGames(a.ID, "missing"), models.ErrGameNotFound)
	assert.ErrorIs(t, c.MergeGames("missing", a.ID), models.ErrGameNotFound)
}

func TestSplitSource(t *testing.T) {
	c := newCatalog()

	s1 := source("s1", "Doom", models.RepositoryLocal)
	s2 := source("s2", "Quake", models.RepositoryCloud)

	a := c.AddDetectedGame(s1)
	require.NoError(t, c.MergeGames(a.ID, c.AddDetectedGame(s2).ID))

	split, err := c.SplitSource(a.ID, "s2")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, split.ID)
	assert.Equal(t, 2, c.Len())

	remaining, ok := c.Get(a.ID)
	require.True(t, ok)
	assert.Len(t, remaining.Sources, 1)
	assert.Equal(t, "s1", remaining.Sources[0].SourceID)
}

func TestSplitSource_LastSourceDestroysGame(t *testing.T) {
	c := newCatalog()
	a := c.AddDetectedGame(source("s1", "Doom", models.RepositoryLocal))

	split, err := c.SplitSource(a.ID, "s1")
	require.NoError(t, err)

	_, ok := c.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
	assert.Len(t, split.Sources, 1)
}

func TestSplitSource_Errors(t *testing.T) {
	c := newCatalog()
	a := c.AddDetectedGame(source("s1", "Doom", models.RepositoryLocal))

	_, err := c.SplitSource("missing", "s1")
	assert.ErrorIs(t, err, models.ErrGameNotFound)

	_, err = c.SplitSource(a.ID, "missing")
	assert.ErrorIs(t, err, models.ErrSourceNotFound)
}

func TestApplyUserEdit(t *testing.T) {
	c := newCatalog()
	a := c.AddDetectedGame(source("s1", "Doom", models.RepositoryLocal))

	notes := "classic"
	favorite := true
	tags := []string{"fps", "retro"}
	require.NoError(t, c.ApplyUserEdit(a.ID, library.UserEdit{
		Notes:    &notes,
		Favorite: &favorite,
		Tags:     &tags,
	}))

	game, _ := c.Get(a.ID)
	assert.Equal(t, "classic", game.Notes)
	assert.True(t, game.Favorite)
	assert.Equal(t, []string{"fps", "retro"}, game.Tags)
	// Unset fields remain untouched.
	assert.Zero(t, game.Rating)
	assert.False(t, game.Hidden)
}

func TestGetReturnsSnapshot(t *testing.T) {
	c := newCatalog()
	a := c.AddDetectedGame(source("s1", "Doom", models.RepositoryLocal))

	game, _ := c.Get(a.ID)
	game.Sources[0].SourceID = "mutated"
	game.Title = "mutated"

	fresh, _ := c.Get(a.ID)
	assert.Equal(t, "s1", fresh.Sources[0].SourceID)
	assert.Equal(t, "Doom", fresh.Title)
}
