package classify

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/huangsam/changescope/schema"
)

// nameInfo is the lowercased view of a path used by the filename rules.
type nameInfo struct {
	path string // slash-separated
	base string
	stem string
	ext  string
}

func newNameInfo(p string) nameInfo {
	lp := strings.ToLower(filepath.ToSlash(p))
	base := path.Base(lp)
	ext := path.Ext(base)
	return nameInfo{path: lp, base: base, stem: strings.TrimSuffix(base, ext), ext: ext}
}

// nameRule is one filename predicate and the type it yields.
type nameRule struct {
	tag   string
	match func(n nameInfo) bool
}

var (
	testNamePattern  = regexp.MustCompile(`\.(test|spec)\.[a-z0-9]+$|_test\.go$|^test_.*\.py$`)
	configStemTokens = regexp.MustCompile(`(^|[._-])(config|settings|conf)([._-]|$)`)
)

// nameRules are evaluated in order. The first match wins over any content rule.
var nameRules = []nameRule{
	{"test", func(n nameInfo) bool {
		return testNamePattern.MatchString(n.base) || strings.Contains(n.path, "__tests__/")
	}},
	{"config", func(n nameInfo) bool {
		switch n.ext {
		case ".yml", ".yaml", ".toml", ".ini", ".env":
			return true
		}
		if strings.HasPrefix(n.base, ".env") {
			return true
		}
		if strings.HasPrefix(n.base, ".") && strings.HasSuffix(n.base, "rc") {
			return true
		}
		return configStemTokens.MatchString(n.stem)
	}},
	{"entry-point", func(n nameInfo) bool {
		if _, ok := codeExtensions[n.ext]; !ok {
			return false
		}
		switch n.stem {
		case "index", "main", "app", "server":
			return true
		}
		return false
	}},
	{"stylesheet", func(n nameInfo) bool {
		switch n.ext {
		case ".css", ".scss", ".sass", ".less":
			return true
		}
		return false
	}},
	{"documentation", func(n nameInfo) bool {
		switch n.ext {
		case ".md", ".rst", ".adoc", ".txt":
			return true
		}
		return false
	}},
}

// contentRule tags content as "{category}-{subtype}" when any pattern matches.
type contentRule struct {
	category string
	subtype  string
	patterns []*regexp.Regexp
}

func (r contentRule) tag() string { return r.category + "-" + r.subtype }

func (r contentRule) matches(content string) bool {
	for _, p := range r.patterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// contentRules are evaluated in order; hooks and contexts come before generic components.
var contentRules = []contentRule{
	{"react", "hook", patterns(
		`\bexport\s+(default\s+)?function\s+use[A-Z]\w*\s*\(`,
		`\b(const|let)\s+use[A-Z]\w*\s*=\s*(async\s+)?\(`,
	)},
	{"react", "context", patterns(`\bcreateContext\s*\(`)},
	{"react", "component", patterns(
		`\bextends\s+(React\.)?(Pure)?Component\b`,
		`\breturn\s*\(?\s*<[A-Za-z][\w.]*[\s/>]`,
		`from\s+['"]react['"]`,
	)},
	{"vue", "component", patterns(`<template[\s>]`, `\bdefineComponent\s*\(`)},
	{"angular", "component", patterns(`@Component\s*\(`)},
	{"angular", "service", patterns(`@Injectable\s*\(`)},
	{"angular", "module", patterns(`@NgModule\s*\(`)},
	{"backend", "route", patterns(
		`\b(app|router|server)\.(get|post|put|patch|delete)\s*\(\s*['"`+"`"+`]`,
		`@(Get|Post|Put|Patch|Delete|Request)Mapping\b`,
		`@(app|router|bp)\.(route|get|post|put|delete)\s*\(`,
		`\bhttp\.HandleFunc\s*\(`,
	)},
	{"backend", "middleware", patterns(
		`\(\s*req\s*,\s*res\s*,\s*next\s*\)`,
		`\bfunc\s+\w+\s*\(\s*next\s+http\.Handler\s*\)`,
	)},
	{"backend", "server", patterns(
		`\.listen\s*\(\s*[\w'"]`,
		`\bhttp\.ListenAndServe(TLS)?\s*\(`,
		`\bcreateServer\s*\(`,
	)},
	{"database", "model", patterns(
		`\bnew\s+(mongoose\.)?Schema\s*\(`,
		`\bsequelize\.define\s*\(`,
		`\bmodels\.Model\b`,
		`@Entity\b`,
	)},
	{"database", "migration", patterns(
		`\bexports\.up\s*=`,
		`\bqueryInterface\.(createTable|addColumn|dropTable)\b`,
		`(?i)\bcreate\s+table\b`,
		`\bmigrations\.(CreateModel|AddField)\b`,
	)},
	{"state", "store", patterns(
		`\b(createStore|configureStore|createSlice|defineStore)\s*\(`,
		`\bnew\s+Vuex\.Store\s*\(`,
	)},
}

// DetectType returns the file type tag. Filename rules dominate content rules,
// which dominate the language fallback.
func DetectType(p, content string) string {
	n := newNameInfo(p)
	for _, r := range nameRules {
		if r.match(n) {
			return r.tag
		}
	}
	for _, r := range contentRules {
		if r.matches(content) {
			return r.tag()
		}
	}
	return DetectLanguage(p)
}

// pathPurposes map directory segments to purpose tags.
var pathPurposes = []struct {
	segments []string
	purpose  string
}{
	{[]string{"api", "routes", "controllers", "handlers", "endpoints"}, "API endpoint"},
	{[]string{"components", "views", "pages", "screens", "widgets"}, "UI component"},
	{[]string{"models", "entities", "schemas"}, "Data model"},
	{[]string{"services"}, "Business logic"},
	{[]string{"middleware", "middlewares"}, "Request middleware"},
	{[]string{"store", "stores", "reducers", "state"}, "State management"},
	{[]string{"hooks"}, "Reusable hook"},
	{[]string{"migrations", "db", "database"}, "Database"},
	{[]string{"utils", "helpers", "lib", "common", "shared"}, "Utility"},
	{[]string{"config", "configs", "settings"}, "Configuration"},
	{[]string{"auth", "security"}, "Authentication"},
	{[]string{"test", "tests", "__tests__", "spec"}, "Testing"},
}

// contentPurposes map content signatures to purpose tags.
var contentPurposes = []struct {
	pattern *regexp.Regexp
	purpose string
}{
	{regexp.MustCompile(`\b(app|router)\.(get|post|put|patch|delete)\s*\(`), "RESTful API"},
	{regexp.MustCompile(`\bgql\s*` + "`" + `|\bGraphQL(Schema|ObjectType)\b|\btype\s+Query\s*\{`), "GraphQL API"},
	{regexp.MustCompile(`\baxios\.(get|post|put|patch|delete|request)\s*\(|\bfetch\s*\(\s*['"` + "`" + `]`), "HTTP client"},
	{regexp.MustCompile(`\b(useReducer|createSlice|createStore|defineStore)\b`), "State management"},
	{regexp.MustCompile(`\b(SELECT\s+.+\s+FROM|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM)\b`), "Data access"},
	{regexp.MustCompile(`\b(jwt|passport|bcrypt)\b`), "Authentication"},
	{regexp.MustCompile(`\b(describe|it|test)\s*\(\s*['"` + "`" + `]|\bfunc\s+Test[A-Z]\w*\s*\(`), "Testing"},
	{regexp.MustCompile(`\bnew\s+WebSocket\s*\(|\bsocket\.io\b`), "Real-time communication"},
	{regexp.MustCompile(`\bcron\.schedule\s*\(|\bsetInterval\s*\(`), "Scheduled job"},
}

// DetectPurposes returns the deduplicated, non-empty purpose tags of a file.
func DetectPurposes(p, content string) []string {
	var tags []string
	segments := strings.Split(strings.ToLower(filepath.ToSlash(filepath.Dir(p))), "/")
	for _, pp := range pathPurposes {
		if hasAnySegment(segments, pp.segments) {
			tags = append(tags, pp.purpose)
		}
	}
	for _, cp := range contentPurposes {
		if cp.pattern.MatchString(content) {
			tags = append(tags, cp.purpose)
		}
	}
	if len(tags) == 0 {
		return []string{schema.GeneralPurpose}
	}
	return schema.Dedupe(tags)
}

func hasAnySegment(segments, want []string) bool {
	for _, s := range segments {
		for _, w := range want {
			if s == w {
				return true
			}
		}
	}
	return false
}

// characteristicRules map content patterns to the closed characteristic vocabulary.
var characteristicRules = []struct {
	tag     string
	pattern *regexp.Regexp
}{
	{"asynchronous operations", regexp.MustCompile(`\basync\b|\bawait\b|\.then\s*\(|\bPromise\b|\bgo\s+func\b`)},
	{"error handling", regexp.MustCompile(`\btry\s*[:{]|\bcatch\s*\(|\bexcept\b|\bif\s+err\s*!=\s*nil\b|\bthrow\s+new\b|\braise\s+\w`)},
	{"state management", regexp.MustCompile(`\buse(State|Reducer)\b|\bsetState\s*\(|\b(createStore|createSlice|defineStore)\b|\bVuex\b`)},
	{"network calls", regexp.MustCompile(`\bfetch\s*\(|\baxios\b|\bXMLHttpRequest\b|\bhttp\.(Get|Post|NewRequest)\b|\brequests\.(get|post|put|delete)\b`)},
	{"event handling", regexp.MustCompile(`\baddEventListener\s*\(|\bon[A-Z]\w*\s*=|\.on\s*\(\s*['"]|\bemit\s*\(`)},
	{"persistence operations", regexp.MustCompile(`\b(SELECT|INSERT|UPDATE|DELETE)\s+\w|\.(save|findOne|findAll|insertOne|insertMany)\s*\(|\blocalStorage\b|\bdb\.(Query|Exec)\w*\s*\(`)},
	{"authentication", regexp.MustCompile(`(?i)\b(authenticat\w*|authoriz\w*|jwt|login|logout|passport|bcrypt)\b`)},
	{"validation", regexp.MustCompile(`(?i)\b(validat\w*|sanitiz\w*|joi|yup|zod)\b`)},
	{"caching", regexp.MustCompile(`(?i)\b(cache\w*|memoiz\w*|redis|usememo|lru)\b`)},
	{"logging", regexp.MustCompile(`\bconsole\.(log|info|warn|error|debug)\s*\(|\blogger\.\w+\s*\(|\blog\.(Print\w*|Fatal\w*|Info|Warn|Error|Debug)\b|\blogging\.\w+\s*\(`)},
}

// DetectCharacteristics returns the characteristic tags present in content, in vocabulary order.
func DetectCharacteristics(content string) []string {
	tags := []string{}
	for _, r := range characteristicRules {
		if r.pattern.MatchString(content) {
			tags = append(tags, r.tag)
		}
	}
	return tags
}
