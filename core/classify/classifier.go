// Package classify derives a FileSnapshotAnalysis from the path and content of one file
// using ordered text-pattern tables. It never parses source into a syntax tree.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/huangsam/changescope/schema"
)

// DefaultMethodExcludes are words the method pattern would otherwise capture as names.
var DefaultMethodExcludes = []string{
	"if", "for", "while", "switch", "catch", "function", "return", "with", "else", "do", "typeof",
	"synchronized", "try", "using", "lock", "foreach",
}

// Classifier holds the tunable parts of classification.
type Classifier struct {
	methodExcludes map[string]struct{}
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMethodExcludes replaces the method exclude-list. An empty list keeps the defaults.
func WithMethodExcludes(words []string) Option {
	return func(c *Classifier) {
		if len(words) == 0 {
			return
		}
		c.methodExcludes = toSet(words)
	}
}

// New creates a Classifier with the given options applied over the defaults.
func New(opts ...Option) *Classifier {
	c := &Classifier{methodExcludes: toSet(DefaultMethodExcludes)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultClassifier = New()

// Analyze classifies content with the default classifier.
func Analyze(path, content string) schema.FileSnapshotAnalysis {
	return defaultClassifier.Analyze(path, content)
}

// Analyze classifies one snapshot. Binary-looking content yields a minimal unknown record.
func (c *Classifier) Analyze(path, content string) schema.FileSnapshotAnalysis {
	if !IsText(content) {
		return unknownSnapshot(path)
	}

	s := schema.FileSnapshotAnalysis{
		Path:            path,
		Type:            DetectType(path, content),
		Language:        DetectLanguage(path),
		Purposes:        DetectPurposes(path, content),
		Structure:       CountStructure(content),
		Dependencies:    ExtractDependencies(content),
		Exports:         ExtractExports(content),
		Functions:       c.ExtractFunctions(content),
		Classes:         ExtractClasses(content),
		Complexity:      Complexity(content),
		Characteristics: DetectCharacteristics(content),
	}
	s.Description = Describe(&s)
	return s
}

// IsText reports whether content looks like text rather than binary data.
func IsText(content string) bool {
	return utf8.ValidString(content) && !strings.ContainsRune(content, 0)
}

func unknownSnapshot(path string) schema.FileSnapshotAnalysis {
	return schema.FileSnapshotAnalysis{
		Path:            path,
		Type:            schema.UnknownType,
		Language:        DetectLanguage(path),
		Purposes:        []string{schema.GeneralPurpose},
		Dependencies:    []string{},
		Exports:         []string{},
		Functions:       []schema.FunctionInfo{},
		Classes:         []schema.ClassInfo{},
		Complexity:      1,
		Characteristics: []string{},
		Description:     "Binary or non-text content.",
	}
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
