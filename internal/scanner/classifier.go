package scanner

import (
	"regexp"
	"strings"

	"github.com/gamehoard/gamehoard/internal/models"
)

// categoryByExtension maps lowercased extensions to semantic categories.
var categoryByExtension = map[string]models.FileCategory{
	// Executables
	".exe": models.CategoryExecutable,
	".bat": models.CategoryExecutable,
	".cmd": models.CategoryExecutable,
	".com": models.CategoryExecutable,
	".sh":  models.CategoryExecutable,

	// Platform installer packages
	".msi": models.CategoryInstaller,
	".pkg": models.CategoryInstaller,
	".deb": models.CategoryInstaller,
	".rpm": models.CategoryInstaller,
	".dmg": models.CategoryInstaller,

	// Archives
	".zip": models.CategoryArchive,
	".rar": models.CategoryArchive,
	".7z":  models.CategoryArchive,
	".tar": models.CategoryArchive,
	".gz":  models.CategoryArchive,
	".tgz": models.CategoryArchive,
	".bz2": models.CategoryArchive,
	".cab": models.CategoryArchive,
	".arj": models.CategoryArchive,

	// ROM / disc images
	".nes": models.CategoryROM,
	".sfc": models.CategoryROM,
	".smc": models.CategoryROM,
	".gb":  models.CategoryROM,
	".gbc": models.CategoryROM,
	".gba": models.CategoryROM,
	".nds": models.CategoryROM,
	".n64": models.CategoryROM,
	".z64": models.CategoryROM,
	".v64": models.CategoryROM,
	".gen": models.CategoryROM,
	".smd": models.CategoryROM,
	".32x": models.CategoryROM,
	".sms": models.CategoryROM,
	".gg":  models.CategoryROM,
	".pce": models.CategoryROM,
	".a26": models.CategoryROM,
	".lnx": models.CategoryROM,
	".iso": models.CategoryROM,
	".cue": models.CategoryROM,
	".chd": models.CategoryROM,

	// Documents. Markdown readmes are far more common in scanned trees
	// than Mega Drive ROMs named .md, so the extension is treated as a
	// document; .gen/.smd still cover those ROMs.
	".md":   models.CategoryDocument,
	".txt":  models.CategoryDocument,
	".pdf":  models.CategoryDocument,
	".doc":  models.CategoryDocument,
	".docx": models.CategoryDocument,
	".rtf":  models.CategoryDocument,
	".nfo":  models.CategoryDocument,
	".html": models.CategoryDocument,

	// Images
	".jpg":  models.CategoryImage,
	".jpeg": models.CategoryImage,
	".png":  models.CategoryImage,
	".gif":  models.CategoryImage,
	".bmp":  models.CategoryImage,
	".webp": models.CategoryImage,
	".ico":  models.CategoryImage,
	".svg":  models.CategoryImage,
}

// installerNameHints re-label an executable as installer when any of
// them appears in the lowercased filename.
var installerNameHints = []string{"setup", "install"}

// executableExtensions marks files runnable on some platform regardless
// of their semantic category.
var executableExtensions = map[string]bool{
	".exe": true,
	".bat": true,
	".cmd": true,
	".com": true,
	".sh":  true,
	".msi": true,
}

// Archive part volumes carry extensions the plain table cannot cover.
var (
	zipVolumePattern   = regexp.MustCompile(`\.z\d{2}$`)
	rarVolumePattern   = regexp.MustCompile(`\.r\d{2}$`)
	splitVolumePattern = regexp.MustCompile(`\.\d{3}$`)
)

// Classifier maps a file record to a semantic category. It is a pure,
// total function: unmapped extensions classify as unknown.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify assigns a category to a single file record.
func (c *Classifier) Classify(file models.FileRecord) models.ClassifiedFile {
	if file.IsDirectory {
		return models.ClassifiedFile{
			FileRecord: file,
			Category:   models.CategoryDirectory,
		}
	}

	ext := strings.ToLower(file.Extension)
	lowerName := strings.ToLower(file.Name)

	category, ok := categoryByExtension[ext]
	if !ok {
		category = models.CategoryUnknown
		if isArchiveVolume(lowerName) {
			category = models.CategoryArchive
		}
	}

	if category == models.CategoryExecutable {
		for _, hint := range installerNameHints {
			if strings.Contains(lowerName, hint) {
				category = models.CategoryInstaller
				break
			}
		}
	}

	return models.ClassifiedFile{
		FileRecord:   file,
		Category:     category,
		IsExecutable: isExecutableCategory(category) || executableExtensions[ext],
	}
}

func isExecutableCategory(c models.FileCategory) bool {
	return c == models.CategoryExecutable || c == models.CategoryInstaller
}

// isArchiveVolume recognizes split-volume extensions (.z01, .r00, .001)
// that the extension table cannot enumerate.
func isArchiveVolume(lowerName string) bool {
	return zipVolumePattern.MatchString(lowerName) ||
		rarVolumePattern.MatchString(lowerName) ||
		splitVolumePattern.MatchString(lowerName)
}
