package models

import (
	"path/filepath"
	"strings"
	"time"
)

// FileRecord describes a single file as seen through a storage adapter.
// Records are produced per walker visit and never persisted.
type FileRecord struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	IsDirectory bool      `json:"is_directory"`
	ModifiedAt  time.Time `json:"modified_at"`
	Extension   string    `json:"extension"`
}

// NormalizedPath returns the cleaned, forward-slash path.
func (f *FileRecord) NormalizedPath() string {
	return strings.ReplaceAll(filepath.Clean(f.Path), "\\", "/")
}

// FileCategory is the semantic class assigned to a file by the classifier.
type FileCategory string

const (
	CategoryExecutable FileCategory = "executable"
	CategoryInstaller  FileCategory = "installer"
	CategoryArchive    FileCategory = "archive"
	CategoryROM        FileCategory = "rom"
	CategoryDirectory  FileCategory = "directory"
	CategoryDocument   FileCategory = "document"
	CategoryImage      FileCategory = "image"
	CategoryUnknown    FileCategory = "unknown"
)

// ClassifiedFile is a FileRecord plus its semantic category. Immutable
// once created.
type ClassifiedFile struct {
	FileRecord

	Category FileCategory `json:"category"`

	// IsExecutable is independent of Category: a file may carry an
	// executable extension without being classified as installer.
	IsExecutable bool `json:"is_executable"`
}

// ArchiveKind identifies the container format of an archive file.
type ArchiveKind string

const (
	ArchiveZip      ArchiveKind = "zip"
	ArchiveRar      ArchiveKind = "rar"
	ArchiveSevenZip ArchiveKind = "7z"
	ArchiveTar      ArchiveKind = "tar"
	ArchiveGzip     ArchiveKind = "gzip"
	ArchiveBzip2    ArchiveKind = "bzip2"
	ArchiveCab      ArchiveKind = "cab"
	ArchiveArj      ArchiveKind = "arj"
	// ArchiveSplit covers bare numeric split volumes (name.001, name.002).
	ArchiveSplit ArchiveKind = "split"
)

// ArchiveInfo describes a confirmed archive, possibly spanning several
// sibling part files. Parts, when present, holds every confirmed part in
// sequence order; every listed path existed at detection time.
type ArchiveInfo struct {
	MainPath    string      `json:"main_path"`
	Kind        ArchiveKind `json:"kind"`
	IsMultiPart bool        `json:"is_multi_part"`
	Parts       []string    `json:"parts,omitempty"`
}

// PartCount returns the number of confirmed parts (1 for single-part).
func (a *ArchiveInfo) PartCount() int {
	if !a.IsMultiPart {
		return 1
	}
	return len(a.Parts)
}
