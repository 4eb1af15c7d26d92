package schema

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// cleanParts cleans a slice of name parts by trimming non-alphanumeric punctuation from ends,
// and additionally trims trailing periods for looser handling.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\'' && r != '.'
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// AbbreviateName formats "Samuel Huang" to "Samuel H" for narrow author columns.
// Bot accounts and single-word names are returned unchanged.
func AbbreviateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.Contains(trimmed, "[bot]") {
		return strings.Join(strings.Fields(trimmed), " ")
	}

	cleaned := cleanParts(strings.Fields(strings.Trim(trimmed, "()\"'`")))
	switch {
	case len(cleaned) >= 2:
		last := []rune(cleaned[len(cleaned)-1])
		return cleaned[0] + " " + string(last[0])
	case len(cleaned) == 1:
		return cleaned[0]
	default:
		return trimmed
	}
}

// JoinTags joins tags the way purpose changes are compared and displayed.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// Dedupe removes duplicates while keeping first-seen order.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Difference returns the items of a that are not in b, in a's order. Never nil.
func Difference(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, it := range b {
		inB[it] = struct{}{}
	}
	out := []string{}
	for _, it := range a {
		if _, ok := inB[it]; !ok {
			out = append(out, it)
		}
	}
	return Dedupe(out)
}

// SortedAuthors returns author names ordered by commit count, then name.
func SortedAuthors(byAuthor map[string]AuthorStats) []string {
	names := make([]string, 0, len(byAuthor))
	for name := range byAuthor {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := byAuthor[names[i]].Count, byAuthor[names[j]].Count
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}

// testPathPattern matches test directories and test-named files.
var testPathPattern = regexp.MustCompile(`(^|/)(tests?|specs?|__tests__)/|[._-](test|spec)s?\.[^/]*$|(^|/)test_[^/]*$`)

// IsTestPath reports whether path is a test file by its directory or file name.
func IsTestPath(path string) bool {
	return testPathPattern.MatchString(strings.ToLower(path))
}
