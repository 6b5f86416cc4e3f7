package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gamehoard/gamehoard/internal/models"
)

// CurrentSchemaVersion for library snapshots.
const CurrentSchemaVersion = 1

// librarySnapshot is the on-disk form of the catalog.
type librarySnapshot struct {
	SchemaVersion int                   `json:"schema_version"`
	SavedAt       time.Time             `json:"saved_at"`
	Games         []*models.UnifiedGame `json:"games"`
}

// Save writes the catalog to path atomically (temp file + rename).
func (c *Catalog) Save(path string) error {
	snap := librarySnapshot{
		SchemaVersion: CurrentSchemaVersion,
		SavedAt:       time.Now().UTC(),
		Games:         c.List(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal library: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tempPath := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"path":  path,
		"games": len(snap.Games),
	}).Debug("Saved library snapshot")

	return nil
}

// Load replaces the catalog contents with a saved snapshot. A missing
// file leaves the catalog empty and is not an error.
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read library snapshot: %w", err)
	}

	var snap librarySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse library snapshot: %w", err)
	}

	if snap.SchemaVersion > CurrentSchemaVersion {
		return fmt.Errorf("library snapshot schema %d is newer than supported %d",
			snap.SchemaVersion, CurrentSchemaVersion)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.games = make(map[string]*models.UnifiedGame, len(snap.Games))
	c.order = c.order[:0]

	for _, game := range snap.Games {
		if len(game.Sources) == 0 {
			// Never admit a game that violates the source invariant.
			continue
		}
		c.games[game.ID] = game
		c.order = append(c.order, game.ID)
	}

	return nil
}
