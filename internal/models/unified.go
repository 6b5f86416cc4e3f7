package models

import "time"

// IdentificationResult records one identifier's verdict for a game.
type IdentificationResult struct {
	IdentifierID string        `json:"identifier_id"`
	Metadata     *GameMetadata `json:"metadata,omitempty"`
	Confidence   float64       `json:"confidence"`
	IdentifiedAt time.Time     `json:"identified_at"`
}

// SourceDetails carries the small set of per-source attributes that are
// known per backend. Kept as a typed struct rather than an open map so
// unexpected keys fail at compile time.
type SourceDetails struct {
	InstallPath string `json:"install_path,omitempty"`
	StoreKey    string `json:"store_key,omitempty"`
	LibraryName string `json:"library_name,omitempty"`
}

// GameSource is one source's view of a game. A GameSource is owned
// exclusively by the UnifiedGame that contains it.
type GameSource struct {
	SourceID       string                `json:"source_id"`
	Detected       DetectedGame          `json:"detected"`
	Identification *IdentificationResult `json:"identification,omitempty"`
	Installed      bool                  `json:"installed"`
	LastPlayed     time.Time             `json:"last_played,omitempty"`
	Playtime       time.Duration         `json:"playtime,omitempty"`
	Details        SourceDetails         `json:"details,omitempty"`
}

// UnifiedGame aggregates every per-source detection and identification
// that resolved to the same logical game.
//
// Invariants: Sources is never empty, and every consolidated field is
// derivable from the current Sources and Identifications. Consolidation
// is a full recomputation on each mutation, never an incremental patch.
type UnifiedGame struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	Sources         []GameSource           `json:"sources"`
	Identifications []IdentificationResult `json:"identifications,omitempty"`

	// Consolidated fields, recomputed from sources/identifications.
	Platform      string        `json:"platform,omitempty"`
	CoverURL      string        `json:"cover_url,omitempty"`
	IsInstalled   bool          `json:"is_installed"`
	TotalPlaytime time.Duration `json:"total_playtime"`
	LastPlayed    time.Time     `json:"last_played,omitempty"`

	// User-editable fields, untouched by consolidation.
	Tags     []string `json:"tags,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	Rating   int      `json:"rating,omitempty"`
	Favorite bool     `json:"favorite"`
	Hidden   bool     `json:"hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SourceByID returns the contained source with the given ID, if any.
func (g *UnifiedGame) SourceByID(sourceID string) (*GameSource, bool) {
	for i := range g.Sources {
		if g.Sources[i].SourceID == sourceID {
			return &g.Sources[i], true
		}
	}
	return nil, false
}

// BestIdentification returns the highest-confidence identification, or
// nil when the game has none.
func (g *UnifiedGame) BestIdentification() *IdentificationResult {
	var best *IdentificationResult
	for i := range g.Identifications {
		if best == nil || g.Identifications[i].Confidence > best.Confidence {
			best = &g.Identifications[i]
		}
	}
	return best
}
