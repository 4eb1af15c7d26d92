package classify

import (
	"path/filepath"
	"strings"

	"github.com/huangsam/changescope/schema"
)

// extLanguages maps lowercased file extensions to language tags.
var extLanguages = map[string]string{
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".py":    "python",
	".go":    "go",
	".java":  "java",
	".kt":    "kotlin",
	".rb":    "ruby",
	".rs":    "rust",
	".php":   "php",
	".cs":    "csharp",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".swift": "swift",
	".scala": "scala",
	".vue":   "vue",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".sass":  "sass",
	".less":  "less",
	".json":  "json",
	".yml":   "yaml",
	".yaml":  "yaml",
	".toml":  "toml",
	".xml":   "xml",
	".md":    "markdown",
	".sql":   "sql",
	".sh":    "shell",
	".bash":  "shell",
}

// nameLanguages maps well-known extensionless file names to language tags.
var nameLanguages = map[string]string{
	"dockerfile": "dockerfile",
	"makefile":   "makefile",
}

// codeExtensions are the extensions that may carry an entry point.
var codeExtensions = map[string]struct{}{
	".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {}, ".ts": {}, ".tsx": {},
	".py": {}, ".go": {}, ".java": {}, ".rb": {}, ".php": {}, ".rs": {},
}

// DetectLanguage returns the language tag for a path, or "unknown".
func DetectLanguage(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if lang, ok := extLanguages[filepath.Ext(base)]; ok {
		return lang
	}
	if lang, ok := nameLanguages[base]; ok {
		return lang
	}
	return schema.UnknownType
}
