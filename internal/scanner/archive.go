package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/storage"
)

// kindByExtension maps archive extensions to container kinds.
var kindByExtension = map[string]models.ArchiveKind{
	".zip": models.ArchiveZip,
	".rar": models.ArchiveRar,
	".7z":  models.ArchiveSevenZip,
	".tar": models.ArchiveTar,
	".gz":  models.ArchiveGzip,
	".tgz": models.ArchiveGzip,
	".bz2": models.ArchiveBzip2,
	".cab": models.ArchiveCab,
	".arj": models.ArchiveArj,
}

// Multi-part naming families, applied in order; the first family whose
// pattern matches a filename claims it, even when a later family would
// also match textually.
var (
	partNPattern = regexp.MustCompile(`(?i)^(.+)\.(part)(\d+)\.(rar|zip|7z)$`)
	zNNPattern   = regexp.MustCompile(`(?i)^(.+)\.(z)(\d{2})$`)
	rNNPattern   = regexp.MustCompile(`(?i)^(.+)\.(r)(\d{2})$`)
	nNNPattern   = regexp.MustCompile(`^(.+)\.(\d{3})$`)
)

// ArchiveGrouper resolves classified archive files into single- or
// multi-part archive descriptions, probing sibling existence through
// the storage adapter.
type ArchiveGrouper struct {
	adapter  storage.Adapter
	logger   *events.Logger
	maxParts int
}

// NewArchiveGrouper creates a grouper. maxParts bounds sequential
// existence probes per naming family.
func NewArchiveGrouper(adapter storage.Adapter, maxParts int, logger *events.Logger) *ArchiveGrouper {
	if maxParts <= 0 {
		maxParts = 64
	}
	return &ArchiveGrouper{
		adapter:  adapter,
		logger:   logger.WithField("component", "archive_grouper"),
		maxParts: maxParts,
	}
}

// DetectArchive returns the archive description for a classified file,
// or nil when the file is not an archive of a known kind. Probing a
// naming family stops at the first missing index; sets with fewer than
// two confirmed parts degrade to a single-part archive.
func (g *ArchiveGrouper) DetectArchive(ctx context.Context, file models.ClassifiedFile) (*models.ArchiveInfo, error) {
	if file.Category != models.CategoryArchive {
		return nil, nil
	}

	kind, ok := archiveKind(file.Name)
	if !ok {
		return nil, nil
	}

	dir := filepath.Dir(file.Path)

	parts, partKind, err := g.probeFamily(ctx, dir, file.Name)
	if err != nil {
		return nil, err
	}

	if len(parts) >= 2 {
		return &models.ArchiveInfo{
			MainPath:    parts[0],
			Kind:        partKind,
			IsMultiPart: true,
			Parts:       parts,
		}, nil
	}

	return &models.ArchiveInfo{
		MainPath:    file.Path,
		Kind:        kind,
		IsMultiPart: false,
	}, nil
}

// probeFamily applies the first matching naming family and confirms the
// theoretical part sequence against the adapter. Sibling names derive
// from the original filename, keeping the base and the matched family
// token in their original case, so mixed-case sets probe correctly on
// case-sensitive backends. Returns nil parts when no family matches.
func (g *ArchiveGrouper) probeFamily(ctx context.Context, dir, name string) ([]string, models.ArchiveKind, error) {
	lower := strings.ToLower(name)

	switch {
	case partNPattern.MatchString(name):
		m := partNPattern.FindStringSubmatch(name)
		base, token, ext := m[1], m[2], m[4]
		kind := kindByExtension["."+strings.ToLower(ext)]
		parts, err := g.probeSequence(ctx, func(i int) string {
			return filepath.Join(dir, fmt.Sprintf("%s.%s%d.%s", base, token, i, ext))
		}, 1)
		return parts, kind, err

	case zNNPattern.MatchString(name):
		m := zNNPattern.FindStringSubmatch(name)
		return g.probeZipVolumes(ctx, dir, m[1], m[2])

	case strings.HasSuffix(lower, ".zip"):
		// A .zip can be the trailing part of a zNN set.
		base := name[:len(name)-len(".zip")]
		if ok, err := g.exists(ctx, filepath.Join(dir, base+".z01")); err != nil || !ok {
			return nil, "", err
		}
		return g.probeZipVolumes(ctx, dir, base, "z")

	case rNNPattern.MatchString(name):
		m := rNNPattern.FindStringSubmatch(name)
		return g.probeRarVolumes(ctx, dir, m[1], m[2])

	case strings.HasSuffix(lower, ".rar"):
		// A .rar can be the leading part of an rNN set.
		base := name[:len(name)-len(".rar")]
		if ok, err := g.exists(ctx, filepath.Join(dir, base+".r00")); err != nil || !ok {
			return nil, "", err
		}
		return g.probeRarVolumes(ctx, dir, base, "r")

	case nNNPattern.MatchString(name):
		base := nNNPattern.FindStringSubmatch(name)[1]
		parts, err := g.probeSequence(ctx, func(i int) string {
			return filepath.Join(dir, fmt.Sprintf("%s.%03d", base, i))
		}, 1)
		return parts, models.ArchiveSplit, err
	}

	return nil, "", nil
}

// probeZipVolumes confirms base.z01..zNN and the trailing base.zip.
func (g *ArchiveGrouper) probeZipVolumes(ctx context.Context, dir, base, letter string) ([]string, models.ArchiveKind, error) {
	parts, err := g.probeSequence(ctx, func(i int) string {
		return filepath.Join(dir, fmt.Sprintf("%s.%s%02d", base, letter, i))
	}, 1)
	if err != nil {
		return nil, "", err
	}

	if len(parts) > 0 {
		zipPath := filepath.Join(dir, base+".zip")
		if ok, err := g.exists(ctx, zipPath); err != nil {
			return nil, "", err
		} else if ok {
			parts = append(parts, zipPath)
		}
	}

	return parts, models.ArchiveZip, nil
}

// probeRarVolumes confirms the leading base.rar followed by base.r00..rNN.
func (g *ArchiveGrouper) probeRarVolumes(ctx context.Context, dir, base, letter string) ([]string, models.ArchiveKind, error) {
	var parts []string

	rarPath := filepath.Join(dir, base+".rar")
	if ok, err := g.exists(ctx, rarPath); err != nil {
		return nil, "", err
	} else if ok {
		parts = append(parts, rarPath)
	}

	rest, err := g.probeSequence(ctx, func(i int) string {
		return filepath.Join(dir, fmt.Sprintf("%s.%s%02d", base, letter, i))
	}, 0)
	if err != nil {
		return nil, "", err
	}

	return append(parts, rest...), models.ArchiveRar, nil
}

// probeSequence confirms generated part names in order, stopping at the
// first absence. No gap-filling: a missing index N means parts beyond N
// are never probed.
func (g *ArchiveGrouper) probeSequence(ctx context.Context, name func(int) string, start int) ([]string, error) {
	var parts []string
	for i := start; i < start+g.maxParts; i++ {
		p := name(i)
		ok, err := g.exists(ctx, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func (g *ArchiveGrouper) exists(ctx context.Context, path string) (bool, error) {
	ok, err := g.adapter.Exists(ctx, path)
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", path, err)
	}
	return ok, nil
}

// archiveKind resolves the container kind for a filename, covering both
// plain extensions and split-volume extensions.
func archiveKind(name string) (models.ArchiveKind, bool) {
	lower := strings.ToLower(name)

	if kind, ok := kindByExtension[filepath.Ext(lower)]; ok {
		return kind, true
	}
	if zipVolumePattern.MatchString(lower) {
		return models.ArchiveZip, true
	}
	if rarVolumePattern.MatchString(lower) {
		return models.ArchiveRar, true
	}
	if splitVolumePattern.MatchString(lower) {
		return models.ArchiveSplit, true
	}

	return "", false
}
