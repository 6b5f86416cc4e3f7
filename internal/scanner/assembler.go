package scanner

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gamehoard/gamehoard/internal/events"
	"github.com/gamehoard/gamehoard/internal/models"
	"github.com/gamehoard/gamehoard/internal/naming"
	"github.com/gamehoard/gamehoard/internal/storage"
)

// Detection confidence per rule.
const (
	installerConfidence        = 0.9
	romConfidence              = 0.95
	multiPartArchiveConfidence = 0.85
	archiveConfidence          = 0.8
	portableConfidence         = 0.7
)

// toolNamePenalties lower the main-executable score for filenames that
// suggest tooling rather than the game itself.
var toolNamePenalties = map[string]float64{
	"unins":    10,
	"uninst":   10,
	"setup":    8,
	"install":  8,
	"vcredist": 10,
	"dxsetup":  10,
	"redist":   8,
	"config":   5,
	"settings": 5,
	"updater":  5,
	"patch":    5,
	"dosbox":   6,
	"scummvm":  6,
}

// Assembler consumes the stream of classified files and emits
// confidence-scored game detections grouped by directory.
type Assembler struct {
	adapter    storage.Adapter
	walker     *Walker
	classifier *Classifier
	grouper    *ArchiveGrouper
	logger     *events.Logger
}

// NewAssembler wires the detection pipeline over one adapter.
func NewAssembler(adapter storage.Adapter, walkOpts WalkerOptions, maxArchiveParts int, logger *events.Logger) *Assembler {
	return &Assembler{
		adapter:    adapter,
		walker:     NewWalker(adapter, walkOpts, logger),
		classifier: NewClassifier(),
		grouper:    NewArchiveGrouper(adapter, maxArchiveParts, logger),
		logger:     logger.WithField("component", "assembler"),
	}
}

// Scan walks the tree under root and returns every detected game along
// with traversal statistics and accumulated per-path errors. Only a
// failure at the scan root itself is fatal.
func (a *Assembler) Scan(ctx context.Context, root string) (*models.ScanResult, error) {
	start := time.Now()

	a.logger.WithField("root", root).Info("Starting scan")

	var mu sync.Mutex
	byDir := make(map[string][]models.ClassifiedFile)

	err := a.walker.Walk(ctx, root, func(file models.FileRecord) error {
		classified := a.classifier.Classify(file)

		mu.Lock()
		dir := filepath.Dir(classified.Path)
		byDir[dir] = append(byDir[dir], classified)
		mu.Unlock()

		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.ScanResult{
		FilesScanned:       a.walker.FilesVisited(),
		DirectoriesScanned: a.walker.DirsVisited(),
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		a.detectInDirectory(ctx, byDir[dir], result)
	}

	result.Duration = time.Since(start)

	a.logger.WithFields(map[string]interface{}{
		"games":  len(result.Games),
		"files":  result.FilesScanned,
		"dirs":   result.DirectoriesScanned,
		"errors": len(result.Errors),
	}).Info("Scan complete")

	return result, nil
}

// detectInDirectory applies the detection rules to one directory's
// files, in fixed order. Rules are independent: a directory can yield
// both an installer and a portable game.
func (a *Assembler) detectInDirectory(ctx context.Context, files []models.ClassifiedFile, result *models.ScanResult) {
	a.detectInstallers(files, result)
	a.detectROMs(files, result)
	a.detectArchives(ctx, files, result)
	a.detectPortable(files, result)
}

func (a *Assembler) detectInstallers(files []models.ClassifiedFile, result *models.ScanResult) {
	for _, f := range files {
		if f.Category != models.CategoryInstaller {
			continue
		}

		// Platform packages (.msi, .deb, ...) classify as installers by
		// extension alone; everything else got here via a name hint on a
		// plain executable.
		typ := models.TypeInstallerExecutable
		if categoryByExtension[strings.ToLower(f.Extension)] == models.CategoryInstaller {
			typ = models.TypeInstallerPlatform
		}

		result.Games = append(result.Games, a.newDetection(f, typ, installerConfidence, nil))
	}
}

func (a *Assembler) detectROMs(files []models.ClassifiedFile, result *models.ScanResult) {
	for _, f := range files {
		if f.Category != models.CategoryROM {
			continue
		}
		result.Games = append(result.Games, a.newDetection(f, models.TypeROM, romConfidence, nil))
	}
}

func (a *Assembler) detectArchives(ctx context.Context, files []models.ClassifiedFile, result *models.ScanResult) {
	// Multi-part sets surface once, keyed by main path, no matter which
	// part was visited first.
	seen := make(map[string]bool)

	for _, f := range files {
		if f.Category != models.CategoryArchive {
			continue
		}

		info, err := a.grouper.DetectArchive(ctx, f)
		if err != nil {
			result.Errors = append(result.Errors, models.ScanError{
				Code:    models.ErrCodeScan,
				Path:    f.Path,
				Message: err.Error(),
				When:    time.Now(),
			})
			continue
		}
		if info == nil || seen[info.MainPath] {
			continue
		}
		seen[info.MainPath] = true

		confidence := archiveConfidence
		if info.IsMultiPart {
			confidence = multiPartArchiveConfidence
		}

		result.Games = append(result.Games, a.newDetection(f, models.TypeArchived, confidence, info))
	}
}

// detectPortable selects the single most plausible game executable in
// the directory and emits it as a portable game.
func (a *Assembler) detectPortable(files []models.ClassifiedFile, result *models.ScanResult) {
	var best *models.ClassifiedFile
	bestScore := 0.0

	for i := range files {
		f := &files[i]
		if f.Category != models.CategoryExecutable || !f.IsExecutable {
			continue
		}

		score := mainExecutableScore(f)
		if best == nil || score > bestScore {
			best = f
			bestScore = score
		}
	}

	if best == nil {
		return
	}

	typ := models.TypePortableGame
	for _, f := range files {
		lower := strings.ToLower(f.Name)
		switch {
		case strings.Contains(lower, "dosbox"):
			typ = models.TypeRequiresDOSBox
		case strings.Contains(lower, "scummvm"):
			typ = models.TypeRequiresScummVM
		}
	}

	detection := a.newDetection(*best, typ, portableConfidence, nil)

	// Portable games are usually better named by their directory than
	// by the executable inside it.
	dirName := filepath.Base(filepath.Dir(best.Path))
	if extracted := naming.Extract(dirName); extracted.CleanName != "" {
		detection.Name = extracted.CleanName
	}

	result.Games = append(result.Games, detection)
}

func (a *Assembler) newDetection(f models.ClassifiedFile, typ models.DetectedGameType, confidence float64, archive *models.ArchiveInfo) models.DetectedGame {
	name := naming.Extract(f.Name).CleanName
	if name == "" {
		name = strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
	}

	location := models.GameLocation{
		Repository: a.adapter.Kind(),
		Path:       f.Path,
	}
	if archive != nil {
		location.Path = archive.MainPath
		location.IsArchived = true
		location.ArchiveParts = archive.Parts
	}

	return models.DetectedGame{
		ID:         models.DetectionID(a.adapter.Kind(), location.Path, typ),
		Name:       name,
		Type:       typ,
		Location:   location,
		Confidence: confidence,
		DetectedAt: time.Now(),
	}
}

// mainExecutableScore combines a shallower-wins depth bonus, a capped
// size bonus and tool-name penalties.
func mainExecutableScore(f *models.ClassifiedFile) float64 {
	depth := strings.Count(f.NormalizedPath(), "/")
	score := 10.0 - float64(depth)
	if score < 0 {
		score = 0
	}

	sizeBonus := float64(f.Size) / (10 * 1024 * 1024)
	if sizeBonus > 5 {
		sizeBonus = 5
	}
	score += sizeBonus

	lower := strings.ToLower(f.Name)
	for hint, penalty := range toolNamePenalties {
		if strings.Contains(lower, hint) {
			score -= penalty
		}
	}

	return score
}
