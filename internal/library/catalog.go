// Package library maintains the unified catalog: one logical record per
// game, aggregating detections and identifications across sources.
package library

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/match"
	"github.com/gamehoard/gamehoard/internal/models"
)

// Catalog is a mutable in-memory registry of unified games. It is safe
// for concurrent use.
type Catalog struct {
	mu      sync.Mutex
	games   map[string]*models.UnifiedGame
	order   []string
	matcher *match.Matcher
	logger  *events.Logger
}

// NewCatalog creates an empty unified catalog using the given matcher
// for cross-source identity resolution.
func NewCatalog(matcher *match.Matcher, logger *events.Logger) *Catalog {
	return &Catalog{
		games:   make(map[string]*models.UnifiedGame),
		matcher: matcher,
		logger:  logger.WithField("component", "library"),
	}
}

// AddDetectedGame folds a new per-source detection into the catalog.
// The first unified game with a matching source absorbs it; otherwise a
// new unified game is created. Returns the affected game.
func (c *Catalog) AddDetectedGame(source models.GameSource) *models.UnifiedGame {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.addDetectedGameLocked(source)
}

func (c *Catalog) addDetectedGameLocked(source models.GameSource) *models.UnifiedGame {
	target := candidateFor(source)

	for _, id := range c.order {
		game := c.games[id]
		for i := range game.Sources {
			if c.matcher.Match(candidateFor(game.Sources[i]), target) {
				game.Sources = append(game.Sources, source)
				c.consolidate(game)

				c.logger.WithFields(map[string]interface{}{
					"game_id":   game.ID,
					"source_id": source.SourceID,
					"sources":   len(game.Sources),
				}).Debug("Merged detection into existing game")

				return game
			}
		}
	}

	now := time.Now()
	game := &models.UnifiedGame{
		ID:        uuid.NewString(),
		Sources:   []models.GameSource{source},
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.consolidate(game)

	c.games[game.ID] = game
	c.order = append(c.order, game.ID)

	c.logger.WithFields(map[string]interface{}{
		"game_id": game.ID,
		"title":   game.Title,
	}).Debug("Created unified game")

	return game
}

// AddIdentification appends an identifier's verdict to a game and
// reconsolidates display fields.
func (c *Catalog) AddIdentification(gameID, identifierID string, result models.IdentificationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, ok := c.games[gameID]
	if !ok {
		return fmt.Errorf("add identification %s: %w", gameID, models.ErrGameNotFound)
	}

	result.IdentifierID = identifierID
	if result.IdentifiedAt.IsZero() {
		result.IdentifiedAt = time.Now()
	}

	game.Identifications = append(game.Identifications, result)
	c.consolidate(game)

	return nil
}

// MergeGames moves all sources and identifications from id2 into id1
// and deletes id2.
func (c *Catalog) MergeGames(id1, id2 string) error {
	if id1 == id2 {
		return fmt.Errorf("merge: cannot merge a game into itself")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dst, ok := c.games[id1]
	if !ok {
		return fmt.Errorf("merge target %s: %w", id1, models.ErrGameNotFound)
	}
	src, ok := c.games[id2]
	if !ok {
		return fmt.Errorf("merge source %s: %w", id2, models.ErrGameNotFound)
	}

	dst.Sources = append(dst.Sources, src.Sources...)
	dst.Identifications = append(dst.Identifications, src.Identifications...)
	c.consolidate(dst)

	c.removeLocked(id2)

	c.logger.WithFields(map[string]interface{}{
		"into":    id1,
		"from":    id2,
		"sources": len(dst.Sources),
	}).Info("Merged unified games")

	return nil
}

// SplitSource removes one source from a game and re-adds it standalone,
// which may re-match it into another existing game. A game left with no
// sources is destroyed to preserve the at-least-one-source invariant.
// Returns the unified game now holding the split source.
func (c *Catalog) SplitSource(gameID, sourceID string) (*models.UnifiedGame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, ok := c.games[gameID]
	if !ok {
		return nil, fmt.Errorf("split %s: %w", gameID, models.ErrGameNotFound)
	}

	idx := -1
	for i := range game.Sources {
		if game.Sources[i].SourceID == sourceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("split %s/%s: %w", gameID, sourceID, models.ErrSourceNotFound)
	}

	source := game.Sources[idx]
	game.Sources = append(game.Sources[:idx], game.Sources[idx+1:]...)

	if len(game.Sources) == 0 {
		c.removeLocked(gameID)
	} else {
		c.consolidate(game)
	}

	return c.addDetectedGameLocked(source), nil
}

// Get returns a snapshot of one unified game.
func (c *Catalog) Get(gameID string) (*models.UnifiedGame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, ok := c.games[gameID]
	if !ok {
		return nil, false
	}
	return snapshot(game), true
}

// List returns snapshots of every unified game in insertion order.
func (c *Catalog) List() []*models.UnifiedGame {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*models.UnifiedGame, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, snapshot(c.games[id]))
	}
	return out
}

// Len returns the number of unified games.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.games)
}

// UserEdit carries user-editable field updates; nil fields are left
// untouched.
type UserEdit struct {
	Tags     *[]string
	Notes    *string
	Rating   *int
	Favorite *bool
	Hidden   *bool
}

// ApplyUserEdit updates user-editable fields on a game.
func (c *Catalog) ApplyUserEdit(gameID string, edit UserEdit) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, ok := c.games[gameID]
	if !ok {
		return fmt.Errorf("edit %s: %w", gameID, models.ErrGameNotFound)
	}

	if edit.Tags != nil {
		game.Tags = append([]string(nil), (*edit.Tags)...)
	}
	if edit.Notes != nil {
		game.Notes = *edit.Notes
	}
	if edit.Rating != nil {
		game.Rating = *edit.Rating
	}
	if edit.Favorite != nil {
		game.Favorite = *edit.Favorite
	}
	if edit.Hidden != nil {
		game.Hidden = *edit.Hidden
	}

	game.UpdatedAt = time.Now()
	return nil
}

// consolidate recomputes every derived field from the current sources
// and identifications. Always a full recomputation, never a patch.
func (c *Catalog) consolidate(game *models.UnifiedGame) {
	game.IsInstalled = false
	game.TotalPlaytime = 0
	game.LastPlayed = time.Time{}

	for i := range game.Sources {
		src := &game.Sources[i]
		if src.Installed {
			game.IsInstalled = true
		}
		game.TotalPlaytime += src.Playtime
		if src.LastPlayed.After(game.LastPlayed) {
			game.LastPlayed = src.LastPlayed
		}
	}

	game.Title = ""
	game.Platform = ""
	game.CoverURL = ""

	if best := game.BestIdentification(); best != nil && best.Metadata != nil {
		game.Title = best.Metadata.Title
		game.Platform = best.Metadata.Platform
		game.CoverURL = best.Metadata.CoverURL
	}

	if game.Title == "" && len(game.Sources) > 0 {
		game.Title = game.Sources[0].Detected.Name
	}

	game.UpdatedAt = time.Now()
}

func (c *Catalog) removeLocked(gameID string) {
	delete(c.games, gameID)
	for i, id := range c.order {
		if id == gameID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// candidateFor builds the matcher view of a game source.
func candidateFor(src models.GameSource) match.Candidate {
	cand := match.Candidate{Title: src.Detected.Name}
	if src.Identification != nil && src.Identification.Metadata != nil {
		cand.ExternalID = src.Identification.Metadata.ID
	}
	return cand
}

// snapshot copies a game so callers cannot mutate catalog state.
func snapshot(game *models.UnifiedGame) *models.UnifiedGame {
	copied := *game
	copied.Sources = append([]models.GameSource(nil), game.Sources...)
	copied.Identifications = append([]models.IdentificationResult(nil), game.Identifications...)
	copied.Tags = append([]string(nil), game.Tags...)
	return &copied
}
