package models

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DetectedGameType classifies how a detected game is delivered.
type DetectedGameType string

const (
	TypeInstallerExecutable DetectedGameType = "installer-executable"
	TypeInstallerPlatform   DetectedGameType = "installer-platform"
	TypePortableGame        DetectedGameType = "portable-game"
	TypeROM                 DetectedGameType = "rom"
	TypeArchived            DetectedGameType = "archived"
	TypeRequiresDOSBox      DetectedGameType = "requires-dosbox"
	TypeRequiresScummVM     DetectedGameType = "requires-scummvm"
	TypeRequiresEmulator    DetectedGameType = "requires-emulator"
	TypeUnknown             DetectedGameType = "unknown"
)

// RepositoryKind names the class of storage backend a detection came from.
type RepositoryKind string

const (
	RepositoryLocal RepositoryKind = "local"
	RepositoryCloud RepositoryKind = "cloud"
	RepositoryMock  RepositoryKind = "mock"
)

// GameLocation pins a detection to a place in some repository.
type GameLocation struct {
	Repository   RepositoryKind `json:"repository"`
	Path         string         `json:"path"`
	IsArchived   bool           `json:"is_archived"`
	ArchiveParts []string       `json:"archive_parts,omitempty"`
}

// DetectedGame is one per-source observation that a game exists at some
// location. Records are immutable after creation; a re-scan produces new
// records rather than mutating old ones.
type DetectedGame struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Type       DetectedGameType `json:"type"`
	Location   GameLocation     `json:"location"`
	Confidence float64          `json:"confidence"`
	DetectedAt time.Time        `json:"detected_at"`
}

// DetectionID derives a stable identifier from repository, path and type,
// so repeated scans of the same tree produce comparable IDs.
func DetectionID(repo RepositoryKind, path string, typ DetectedGameType) string {
	sum := xxhash.Sum64String(string(repo) + "|" + path + "|" + string(typ))
	return fmt.Sprintf("%016x", sum)
}

// ExtractedName is the normalized decomposition of a raw filename.
// It is a pure function of the input string and is never cached.
type ExtractedName struct {
	CleanName  string   `json:"clean_name"`
	Platform   string   `json:"platform,omitempty"`
	Region     string   `json:"region,omitempty"`
	Version    string   `json:"version,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	IsPart     bool     `json:"is_part"`
	PartNumber int      `json:"part_number,omitempty"`

	// Confidence is capped at 0.95: heuristic output is never certain.
	Confidence float64 `json:"confidence"`
}
