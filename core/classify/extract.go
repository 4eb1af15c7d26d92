package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/huangsam/changescope/schema"
)

const ident = `[A-Za-z_$][\w$]*`

// dependencyPatterns capture a module specifier in group 1.
var dependencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bimport\s+(?:[\w$*{}\s,]+?\s+from\s+)?['"]([^'"\n]+)['"]`),
	regexp.MustCompile(`\bexport\s+(?:\*|\{[^}]*\})\s+from\s+['"]([^'"\n]+)['"]`),
	regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"\n]+)['"]\s*\)`),
	regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"\n]+)['"]\s*\)`),
	regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import\b`),
	regexp.MustCompile(`(?m)^\s*import\s+(?:[\w.]+\s+)?"([^"\n]+)"`),
}

var (
	pyImportList  = regexp.MustCompile(`(?m)^[ \t]*import[ \t]+([\w.]+(?:[ \t]+as[ \t]+\w+)?(?:[ \t]*,[ \t]*[\w.]+(?:[ \t]+as[ \t]+\w+)?)*)[ \t]*$`)
	goImportBlock = regexp.MustCompile(`(?s)\bimport\s*\(\s*\n(.*?)\n\s*\)`)
	goImportSpec  = regexp.MustCompile(`(?m)^\s*(?:[\w.]+\s+)?"([^"\n]+)"`)
)

// match is a captured value and its offset in the content.
type match struct {
	pos   int
	value string
}

// sortedValues orders matches by offset and deduplicates the values.
func sortedValues(ms []match) []string {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].pos < ms[j].pos })
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.value)
	}
	return schema.Dedupe(out)
}

func collect(re *regexp.Regexp, content string, group int) []match {
	var ms []match
	for _, idx := range re.FindAllStringSubmatchIndex(content, -1) {
		if idx[2*group] < 0 {
			continue
		}
		ms = append(ms, match{pos: idx[2*group], value: content[idx[2*group]:idx[2*group+1]]})
	}
	return ms
}

// IsRelativeSpecifier reports whether a module specifier points inside the project.
func IsRelativeSpecifier(spec string) bool {
	return strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/")
}

// ExtractDependencies returns external module specifiers in order of first appearance.
func ExtractDependencies(content string) []string {
	var ms []match
	for _, re := range dependencyPatterns {
		ms = append(ms, collect(re, content, 1)...)
	}
	for _, idx := range pyImportList.FindAllStringSubmatchIndex(content, -1) {
		offset := idx[2]
		for _, item := range strings.Split(content[idx[2]:idx[3]], ",") {
			if name := strings.Fields(item); len(name) > 0 {
				ms = append(ms, match{pos: offset, value: name[0]})
			}
			offset += len(item) + 1
		}
	}
	for _, idx := range goImportBlock.FindAllStringSubmatchIndex(content, -1) {
		block := content[idx[2]:idx[3]]
		for _, m := range collect(goImportSpec, block, 1) {
			ms = append(ms, match{pos: idx[2] + m.pos, value: m.value})
		}
	}

	external := ms[:0]
	for _, m := range ms {
		if !IsRelativeSpecifier(m.value) {
			external = append(external, m)
		}
	}
	return sortedValues(external)
}

var (
	exportDeclPattern = regexp.MustCompile(`\bexport\s+(?:default\s+)?(?:declare\s+)?(?:async\s+)?(?:function\*?|class|const|let|var|interface|type|enum)\s+(` + ident + `)`)
	exportListPattern = regexp.MustCompile(`\bexport\s*\{([^}]*)\}`)
	exportDefaultName = regexp.MustCompile(`(?m)\bexport\s+default\s+(` + ident + `)\s*;?\s*$`)
	moduleExportName  = regexp.MustCompile(`\bmodule\.exports\s*=\s*(` + ident + `)\s*;?`)
	moduleExportList  = regexp.MustCompile(`\bmodule\.exports\s*=\s*\{([^}]*)\}`)
	exportsProperty   = regexp.MustCompile(`\b(?:module\.)?exports\.(` + ident + `)\s*=`)
	goExportedDecl    = regexp.MustCompile(`(?m)^(?:func\s+(?:\([^)]*\)\s*)?|type\s+)([A-Z]\w*)`)
)

// exportKeywords are never export names on their own.
var exportKeywords = map[string]struct{}{
	"function": {}, "class": {}, "async": {}, "const": {}, "let": {}, "var": {},
}

// ExtractExports returns exported names in order of first appearance.
func ExtractExports(content string) []string {
	var ms []match
	ms = append(ms, collect(exportDeclPattern, content, 1)...)
	ms = append(ms, collect(exportDefaultName, content, 1)...)
	ms = append(ms, collect(moduleExportName, content, 1)...)
	ms = append(ms, collect(exportsProperty, content, 1)...)
	ms = append(ms, collect(goExportedDecl, content, 1)...)
	for _, m := range collect(exportListPattern, content, 1) {
		ms = append(ms, splitNames(m, " as ")...)
	}
	for _, m := range collect(moduleExportList, content, 1) {
		ms = append(ms, splitNames(m, ":")...)
	}

	named := ms[:0]
	for _, m := range ms {
		if _, kw := exportKeywords[m.value]; !kw {
			named = append(named, m)
		}
	}
	return sortedValues(named)
}

// splitNames splits a `{ a, b as c }` style list. With " as " the alias wins;
// with ":" the key wins.
func splitNames(m match, sep string) []match {
	var out []match
	for i, part := range strings.Split(m.value, ",") {
		part = strings.TrimSpace(part)
		if k, v, ok := strings.Cut(part, sep); ok {
			if sep == ":" {
				part = k
			} else {
				part = v
			}
		}
		if part = strings.TrimSpace(part); part != "" && !strings.HasPrefix(part, "...") {
			out = append(out, match{pos: m.pos + i, value: part})
		}
	}
	return out
}

// functionPattern captures a function form. Groups are located by name.
type functionPattern struct {
	re   *regexp.Regexp
	kind schema.ChangeKind
	// method marks patterns whose names are checked against the exclude-list.
	method bool
}

var functionPatterns = []functionPattern{
	{re: regexp.MustCompile(`\b(?P<async>async\s+)?function\s*\*?\s*(?P<name>` + ident + `)\s*\((?P<params>[^)]*)\)`), kind: schema.KindDeclaration},
	{re: regexp.MustCompile(`\b(?:const|let|var)\s+(?P<name>` + ident + `)\s*(?::\s*[^=]+?)?=\s*(?P<async>async\s+)?(?:\((?P<params>[^)]*)\)|(?P<single>` + ident + `))(?:\s*:\s*[^=]+?)?\s*=>`), kind: schema.KindArrow},
	{re: regexp.MustCompile(`(?m)^[ \t]*(?P<async>async\s+)?(?:static\s+)?(?:(?:public|private|protected|readonly)\s+)?(?P<name>` + ident + `)\s*\((?P<params>[^)]*)\)\s*(?::\s*[^{;\n]+)?\{`), kind: schema.KindMethod, method: true},
	{re: regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|protected|static|final|abstract|synchronized)\s+)+[\w<>\[\],.? ]*?\s(?P<name>[A-Za-z_]\w*)\s*\((?P<params>[^)]*)\)\s*(?:throws\s+[\w.,\s]+)?\{`), kind: schema.KindMethod, method: true},
	{re: regexp.MustCompile(`(?m)^(?P<indent>[ \t]*)(?P<async>async\s+)?def\s+(?P<name>[A-Za-z_]\w*)\s*\((?P<params>[^)]*)\)`), kind: schema.KindDeclaration},
	{re: regexp.MustCompile(`(?m)^func\s+(?P<recv>\([^)]*\)\s*)?(?P<name>[A-Za-z_]\w*)\s*(?:\[[^\]]*\])?\((?P<params>[^)]*)\)`), kind: schema.KindDeclaration},
}

type functionMatch struct {
	pos int
	fn  schema.FunctionInfo
}

// ExtractFunctions returns functions deduplicated by name in order of first appearance.
func (c *Classifier) ExtractFunctions(content string) []schema.FunctionInfo {
	var found []functionMatch
	for _, fp := range functionPatterns {
		for _, idx := range fp.re.FindAllStringSubmatchIndex(content, -1) {
			group := func(name string) string {
				i := fp.re.SubexpIndex(name)
				if i < 0 || idx[2*i] < 0 {
					return ""
				}
				return content[idx[2*i]:idx[2*i+1]]
			}
			name := group("name")
			if fp.method {
				if _, excluded := c.methodExcludes[name]; excluded {
					continue
				}
			}
			kind := fp.kind
			if group("recv") != "" || group("indent") != "" {
				kind = schema.KindMethod
			}
			params := splitParams(group("params"))
			if single := group("single"); single != "" {
				params = []string{single}
			}
			found = append(found, functionMatch{pos: idx[0], fn: schema.FunctionInfo{
				Name:   name,
				Params: params,
				Async:  group("async") != "",
				Kind:   kind,
			}})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	seen := make(map[string]struct{}, len(found))
	out := []schema.FunctionInfo{}
	for _, f := range found {
		if _, ok := seen[f.fn.Name]; ok {
			continue
		}
		seen[f.fn.Name] = struct{}{}
		out = append(out, f.fn)
	}
	return out
}

func splitParams(raw string) []string {
	params := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return params
}

var (
	classPattern    = regexp.MustCompile(`\bclass\s+(` + ident + `)(?:\s*<[^>{\n]*>)?(?:\s+extends\s+(` + ident + `(?:\.` + ident + `)*)|\s*\(\s*([A-Za-z_][\w.]*)[^)]*\))?`)
	goStructPattern = regexp.MustCompile(`(?m)^type\s+([A-Za-z_]\w*)\s+struct\b`)
)

// ExtractClasses returns class-like declarations deduplicated by name.
func ExtractClasses(content string) []schema.ClassInfo {
	type classMatch struct {
		pos int
		cls schema.ClassInfo
	}
	var found []classMatch
	for _, m := range classPattern.FindAllStringSubmatchIndex(content, -1) {
		c := schema.ClassInfo{Name: content[m[2]:m[3]]}
		switch {
		case m[4] >= 0:
			c.Parent = content[m[4]:m[5]]
		case m[6] >= 0:
			c.Parent = content[m[6]:m[7]]
		}
		found = append(found, classMatch{m[0], c})
	}
	for _, m := range goStructPattern.FindAllStringSubmatchIndex(content, -1) {
		found = append(found, classMatch{m[0], schema.ClassInfo{Name: content[m[2]:m[3]]}})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	seen := make(map[string]struct{}, len(found))
	out := []schema.ClassInfo{}
	for _, f := range found {
		if _, ok := seen[f.cls.Name]; ok {
			continue
		}
		seen[f.cls.Name] = struct{}{}
		out = append(out, f.cls)
	}
	return out
}

// decisionPoints are counted once per occurrence by Complexity.
var decisionPoints = []*regexp.Regexp{
	regexp.MustCompile(`\bif\b`),
	regexp.MustCompile(`\bfor\b`),
	regexp.MustCompile(`\bwhile\b`),
	regexp.MustCompile(`\bcase\b`),
	regexp.MustCompile(`\bcatch\b`),
	regexp.MustCompile(` \? `),
	regexp.MustCompile(`&&`),
	regexp.MustCompile(`\|\|`),
}

// Complexity is 1 plus the number of decision points in content.
func Complexity(content string) int {
	n := 1
	for _, re := range decisionPoints {
		n += len(re.FindAllStringIndex(content, -1))
	}
	return n
}
