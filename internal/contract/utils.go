package contract

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/changescope/schema"
)

// Color variables for console output.
var (
	HighColor      = color.New(color.FgRed, color.Bold)   // HighColor represents standard danger.
	MediumColor    = color.New(color.FgYellow)            // MediumColor represents standard caution, not bold.
	LowColor       = color.New(color.FgCyan)              // LowColor represents informational / low-priority signal.
	AddedColor     = color.New(color.FgGreen)             // AddedColor marks added files.
	DeletedColor   = color.New(color.FgRed)               // DeletedColor marks deleted files.
	GoodGradeColor = color.New(color.FgGreen, color.Bold) // GoodGradeColor marks A and B grades.
)

// GetColorImpactLabel returns a colored impact level for console output (table).
func GetColorImpactLabel(level schema.ImpactLevel) string {
	text := string(level)
	switch level {
	case schema.ImpactHigh:
		return HighColor.Sprint(text)
	case schema.ImpactMedium:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetColorGradeLabel returns a colored quality grade for console output.
func GetColorGradeLabel(grade string) string {
	switch grade {
	case "A", "B":
		return GoodGradeColor.Sprint(grade)
	case "C", "D":
		return MediumColor.Sprint(grade)
	case "":
		return "-"
	default:
		return HighColor.Sprint(grade)
	}
}

// GetColorStatusLabel returns a colored file status for console output.
func GetColorStatusLabel(status schema.FileStatus) string {
	text := string(status)
	switch status {
	case schema.StatusAdded:
		return AddedColor.Sprint(text)
	case schema.StatusDeleted:
		return DeletedColor.Sprint(text)
	case schema.StatusRenamed:
		return LowColor.Sprint(text)
	default:
		return MediumColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// globToRegexp turns a glob into an anchored regexp. '*' matches any run of
// characters including '/', and '?' matches exactly one character.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")
	quoted = strings.ReplaceAll(quoted, `\?`, ".")
	return regexp.Compile("^" + quoted + "$")
}

// MatchesPattern reports whether a repository path matches a glob, either as a whole
// path or by its base name (so "*.min.js" matches "web/app.min.js").
func MatchesPattern(p, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	re, err := globToRegexp(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(p) || re.MatchString(path.Base(p))
}

// MatchesAny reports whether the path matches at least one pattern.
func MatchesAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchesPattern(p, pattern) {
			return true
		}
	}
	return false
}

// FilterPath reports whether a changed path survives the include and exclude globs.
// An empty include list admits every path. Excludes win over includes.
func FilterPath(p string, filters schema.Filters) bool {
	if len(filters.Include) > 0 && !MatchesAny(p, filters.Include) {
		return false
	}
	return !MatchesAny(p, filters.Exclude)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".changescope_cache.db"
	}
	return filepath.Join(homeDir, ".changescope_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".changescope_analysis.db"
	}
	return filepath.Join(homeDir, ".changescope_analysis.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
