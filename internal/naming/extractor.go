// Package naming decomposes raw, human-authored filenames into a clean
// candidate title plus structured side-channel attributes.
package naming

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gamehoard/gamehoard/internal/models"
)

// Confidence scoring. Heuristic output is never fully certain.
const (
	baseConfidence = 0.5
	maxConfidence  = 0.95

	platformBonus = 0.15
	regionBonus   = 0.1
	versionBonus  = 0.1
	partBonus     = 0.1
)

// platformByExtension resolves a platform from the original filename's
// extension.
var platformByExtension = map[string]string{
	".exe": "Windows",
	".msi": "Windows",
	".bat": "Windows",
	".sh":  "Linux",
	".dmg": "macOS",
	".pkg": "macOS",
	".nes": "NES",
	".sfc": "SNES",
	".smc": "SNES",
	".gb":  "Game Boy",
	".gbc": "Game Boy Color",
	".gba": "Game Boy Advance",
	".nds": "Nintendo DS",
	".n64": "Nintendo 64",
	".z64": "Nintendo 64",
	".v64": "Nintendo 64",
	".gen": "Genesis",
	".smd": "Genesis",
	".32x": "Sega 32X",
	".sms": "Master System",
	".gg":  "Game Gear",
	".pce": "PC Engine",
	".a26": "Atari 2600",
	".lnx": "Atari Lynx",
}

// platformByTag resolves a platform from a bracketed tag anywhere in the
// original filename.
var platformByTag = map[string]string{
	"win":     "Windows",
	"windows": "Windows",
	"linux":   "Linux",
	"mac":     "macOS",
	"osx":     "macOS",
	"dos":     "DOS",
}

// regionByCode is the fixed region tag table.
var regionByCode = map[string]string{
	"usa":    "USA",
	"u":      "USA",
	"ntsc":   "USA",
	"europe": "Europe",
	"eur":    "Europe",
	"e":      "Europe",
	"pal":    "Europe",
	"japan":  "Japan",
	"jpn":    "Japan",
	"j":      "Japan",
	"world":  "World",
	"w":      "World",
}

// languageCodes is the fixed set of recognized 2-letter language codes.
var languageCodes = map[string]bool{
	"en": true, "fr": true, "de": true, "es": true, "it": true,
	"pl": true, "ru": true, "cs": true, "ja": true, "zh": true,
	"pt": true, "nl": true, "sv": true, "hu": true, "ko": true,
}

// distributorSuffixes are trailing decorations some distributors append.
var distributorSuffixes = []string{"gog", "drmfree", "hotfix", "repack"}

var (
	partSuffixPattern = regexp.MustCompile(`(?i)^(.*?)[._\s-](?:part|disc|cd)[._\s]?(\d{1,2})$`)
	platformTagScan   = regexp.MustCompile(`(?i)[(\[]([a-z]+)[)\]]`)
	buildIDPattern    = regexp.MustCompile(`\(\d+\)`)
	bitWidthPattern   = regexp.MustCompile(`(?i)[(\[]?(?:32|64)[ _-]?bit[)\]]?|\b(?:x86|x64)\b`)
	trailingLangCode  = regexp.MustCompile(`(?i)[._\s-]([a-z]{2})$`)
	regionTagPattern  = regexp.MustCompile(`(?i)[(\[]([a-z]+)[)\]]`)
	languageListTag   = regexp.MustCompile(`(?i)\(([a-z]{2}(?:\s*,\s*[a-z]{2})*)\)`)
	versionPattern    = regexp.MustCompile(`(?i)[._\s-]v?(\d+(?:\.\d+)+[a-z]?)$`)
	prefixWordPattern = regexp.MustCompile(`(?i)^(?:setup|installer|install|game)[._\s-]+`)
	bracketedContent  = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	separatorRun      = regexp.MustCompile(`[._\s-]+`)
	bareNumberToken   = regexp.MustCompile(`^\d{1,2}$`)
)

var titleCaser = cases.Title(language.Und)

// Extract decomposes a filename into a normalized game identity. It is a
// deterministic pure function of its input; each stage consumes the
// previous stage's residual string.
func Extract(filename string) models.ExtractedName {
	result := models.ExtractedName{Confidence: baseConfidence}

	// Stage 1: strip extension.
	residual := strings.TrimSuffix(filename, filepath.Ext(filename))

	// Stage 2: multi-part suffix.
	if m := partSuffixPattern.FindStringSubmatch(residual); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
			result.IsPart = true
			result.PartNumber = n
			result.Confidence += partBonus
			residual = m[1]
		}
	}

	// Stage 3: platform, always against the original filename so later
	// textual stripping cannot mask it.
	if platform := detectPlatform(filename); platform != "" {
		result.Platform = platform
		result.Confidence += platformBonus
	}

	// Stage 4: distributor decorations, before region/language tags so
	// those patterns are not masked.
	residual = stripDecorations(residual)

	// Stage 5: region tag.
	if region, rest, ok := extractRegion(residual); ok {
		result.Region = region
		result.Confidence += regionBonus
		residual = rest
	}

	// Stage 6: language list tag.
	if langs, rest, ok := extractLanguages(residual); ok {
		result.Languages = langs
		residual = rest
	}

	// Stage 7: version token. Trailing separators left over from tag
	// removal would otherwise mask it.
	residual = strings.TrimRight(residual, "._ -")
	if m := versionPattern.FindStringSubmatch(residual); m != nil {
		result.Version = m[1]
		result.Confidence += versionBonus
		residual = residual[:len(residual)-len(m[0])]
	}

	// Stage 8: known prefix words, anchored at the start.
	for {
		stripped := prefixWordPattern.ReplaceAllString(residual, "")
		if stripped == residual {
			break
		}
		residual = stripped
	}

	// Stages 9 and 10: trailing number collapse, then final cleanup.
	result.CleanName = finalizeName(residual)

	if result.Confidence > maxConfidence {
		result.Confidence = maxConfidence
	}

	return result
}

func detectPlatform(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if platform, ok := platformByExtension[ext]; ok {
		return platform
	}

	for _, m := range platformTagScan.FindAllStringSubmatch(original, -1) {
		if platform, ok := platformByTag[strings.ToLower(m[1])]; ok {
			return platform
		}
	}

	return ""
}

func stripDecorations(s string) string {
	s = buildIDPattern.ReplaceAllString(s, "")
	s = bitWidthPattern.ReplaceAllString(s, "")
	s = strings.TrimRight(s, "._ -")

	for _, suffix := range distributorSuffixes {
		lower := strings.ToLower(s)
		if strings.HasSuffix(lower, suffix) {
			cut := len(s) - len(suffix)
			trimmed := strings.TrimRight(s[:cut], "._ -")
			// Only treat it as a decoration when separated from the title.
			if len(trimmed) < cut {
				s = trimmed
			}
		}
	}

	if m := trailingLangCode.FindStringSubmatch(s); m != nil && languageCodes[strings.ToLower(m[1])] {
		s = s[:len(s)-len(m[0])]
	}

	return s
}

func extractRegion(s string) (string, string, bool) {
	for _, m := range regionTagPattern.FindAllStringSubmatch(s, -1) {
		if region, ok := regionByCode[strings.ToLower(m[1])]; ok {
			return region, strings.Replace(s, m[0], "", 1), true
		}
	}
	return "", s, false
}

func extractLanguages(s string) ([]string, string, bool) {
	for _, m := range languageListTag.FindAllStringSubmatch(s, -1) {
		codes := strings.Split(m[1], ",")
		langs := make([]string, 0, len(codes))
		valid := true
		for _, code := range codes {
			code = strings.ToLower(strings.TrimSpace(code))
			if !languageCodes[code] {
				valid = false
				break
			}
			langs = append(langs, code)
		}
		if valid && len(langs) > 0 {
			return langs, strings.Replace(s, m[0], "", 1), true
		}
	}
	return nil, s, false
}

// finalizeName collapses spurious trailing number tokens, normalizes
// separators, drops leftover bracketed content and title-cases the
// result. Words that arrive fully uppercase are kept as acronyms.
func finalizeName(s string) string {
	s = bracketedContent.ReplaceAllString(s, " ")
	s = separatorRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	tokens := strings.Fields(s)

	// A run of two or more trailing bare 1-2 digit tokens is a version
	// remnant; keep only the first of the run.
	run := 0
	for i := len(tokens) - 1; i >= 0; i-- {
		if !bareNumberToken.MatchString(tokens[i]) {
			break
		}
		run++
	}
	if run >= 2 {
		tokens = tokens[:len(tokens)-run+1]
	}

	for i, tok := range tokens {
		if tok == strings.ToUpper(tok) && strings.ContainsFunc(tok, isLetter) {
			continue // acronym
		}
		tokens[i] = titleCaser.String(strings.ToLower(tok))
	}

	return strings.Join(tokens, " ")
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
