package static

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
)

// structurePatterns capture a declared name in group 1.
type structurePatterns struct {
	functions  []*regexp.Regexp
	classes    []*regexp.Regexp
	interfaces []*regexp.Regexp
	types      []*regexp.Regexp
	imports    []*regexp.Regexp
	exports    []*regexp.Regexp
}

func res(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

const jsIdent = `[A-Za-z_$][\w$]*`

var javascriptPatterns = structurePatterns{
	functions: res(
		`\bfunction\s*\*?\s*(`+jsIdent+`)\s*\(`,
		`\b(?:const|let|var)\s+(`+jsIdent+`)\s*=\s*(?:async\s+)?(?:\([^)]*\)|`+jsIdent+`)\s*=>`,
	),
	classes: res(`\bclass\s+(` + jsIdent + `)`),
	imports: res(
		`\bimport\s+(?:[\w$*{}\s,]+?\s+from\s+)?['"]([^'"\n]+)['"]`,
		`\brequire\s*\(\s*['"]([^'"\n]+)['"]`,
	),
	exports: res(`\bexport\s+(?:default\s+)?(?:async\s+)?(?:function\*?|class|const|let|var|interface|type|enum)\s+(` + jsIdent + `)`),
}

var typescriptPatterns = structurePatterns{
	functions:  javascriptPatterns.functions,
	classes:    res(`\bclass\s+(` + jsIdent + `)`),
	interfaces: res(`\binterface\s+(` + jsIdent + `)`),
	types:      res(`\btype\s+(`+jsIdent+`)\s*(?:<[^>=]*>)?\s*=`, `\benum\s+(`+jsIdent+`)`),
	imports:    javascriptPatterns.imports,
	exports:    javascriptPatterns.exports,
}

var pythonPatterns = structurePatterns{
	functions: res(`(?m)^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)`),
	classes:   res(`(?m)^\s*class\s+([A-Za-z_]\w*)`),
	imports:   res(`(?m)^\s*import\s+([\w.]+)`, `(?m)^\s*from\s+([\w.]+)\s+import\b`),
	exports:   res(`(?m)^(?:async\s+)?def\s+([A-Za-z]\w*)`, `(?m)^class\s+([A-Za-z]\w*)`),
}

var goPatterns = structurePatterns{
	functions:  res(`(?m)^func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)`),
	classes:    res(`(?m)^type\s+([A-Za-z_]\w*)\s+struct\b`),
	interfaces: res(`(?m)^type\s+([A-Za-z_]\w*)\s+interface\b`),
	types:      res(`(?m)^type\s+([A-Za-z_]\w*)\s+(?:=\s*)?(?:\*|\[|map\b|func\b|chan\b|[A-Z]\w*|[a-z]\w*\.\w+|[a-z]\w*\s*$)`),
	imports:    res(`(?m)^import\s+(?:[\w.]+\s+)?"([^"\n]+)"`, `(?m)^\t(?:[\w.]+\s+)?"([^"\n]+)"\s*$`),
	exports:    res(`(?m)^func\s+(?:\([^)]*\)\s*)?([A-Z]\w*)`, `(?m)^type\s+([A-Z]\w*)`),
}

var javaPatterns = structurePatterns{
	functions:  res(`(?m)^\s*(?:(?:public|private|protected|static|final|abstract|synchronized)\s+)+[\w<>\[\],.? ]*?\s([A-Za-z_]\w*)\s*\(`),
	classes:    res(`\bclass\s+([A-Z]\w*)`),
	interfaces: res(`\binterface\s+([A-Z]\w*)`),
	types:      res(`\benum\s+([A-Z]\w*)`, `\brecord\s+([A-Z]\w*)`),
	imports:    res(`(?m)^\s*import\s+(?:static\s+)?([\w.*]+)\s*;`),
	exports:    res(`(?m)^\s*public\s+(?:(?:abstract|final|static)\s+)*(?:class|interface|enum|record)\s+([A-Z]\w*)`),
}

// genericPatterns serve languages without a dedicated table.
var genericPatterns = structurePatterns{
	functions:  res(`\b(?:function|def|func|fn|sub)\s+([A-Za-z_]\w*)`),
	classes:    res(`\b(?:class|struct)\s+([A-Za-z_]\w*)`),
	interfaces: res(`\b(?:interface|trait|protocol)\s+([A-Za-z_]\w*)`),
	types:      res(`\b(?:type|typedef|enum)\s+([A-Za-z_]\w*)`),
	imports:    res(`\b(?:import|require|include|use)\s+['"<]?([\w./:-]+)`),
	exports:    res(`\bexport\s+\w+\s+([A-Za-z_]\w*)`),
}

var languagePatterns = map[string]*structurePatterns{
	"javascript": &javascriptPatterns,
	"typescript": &typescriptPatterns,
	"python":     &pythonPatterns,
	"go":         &goPatterns,
	"java":       &javaPatterns,
}

func patternsFor(lang string) (*structurePatterns, error) {
	if p, ok := languagePatterns[lang]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", contract.ErrUnrecognizedLanguage, lang)
}

func extractStructure(content, lang string) schema.CodeStructure {
	p, err := patternsFor(lang)
	if errors.Is(err, contract.ErrUnrecognizedLanguage) {
		p = &genericPatterns
	}
	return schema.CodeStructure{
		Functions:  names(p.functions, content),
		Classes:    names(p.classes, content),
		Interfaces: names(p.interfaces, content),
		Types:      names(p.types, content),
		Imports:    names(p.imports, content),
		Exports:    names(p.exports, content),
	}
}

// names collects group 1 of every pattern, deduplicated in scan order. Never nil.
func names(patterns []*regexp.Regexp, content string) []string {
	out := []string{}
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			out = append(out, m[1])
		}
	}
	return schema.Dedupe(out)
}
