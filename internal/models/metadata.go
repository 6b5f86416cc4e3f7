package models

import "time"

// GameMetadata is a reference record from an external metadata catalog.
// Treated as read-only input everywhere in this codebase.
type GameMetadata struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform"`
	Developer   string    `json:"developer,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	ReleaseDate time.Time `json:"release_date,omitempty"`
	Description string    `json:"description,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Source      string    `json:"source"`
}

// IdentifiedGame pairs a detection with catalog metadata, when a match
// was found. Metadata is nil and MatchConfidence zero for unidentified
// detections; a low-confidence match is reported as unidentified rather
// than asserted.
type IdentifiedGame struct {
	Detected        DetectedGame  `json:"detected"`
	Metadata        *GameMetadata `json:"metadata,omitempty"`
	MatchConfidence float64       `json:"match_confidence"`
	Identifier      string        `json:"identifier"`
}
