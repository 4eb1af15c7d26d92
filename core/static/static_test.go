package static

import (
	"strings"
	"testing"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRejectsEmptyContent(t *testing.T) {
	for _, content := range []string{"", "  \n\t\n"} {
		_, err := Analyze(content, "javascript")
		assert.ErrorIs(t, err, ErrEmptyContent)
	}
}

func TestLineMetrics(t *testing.T) {
	report, err := Analyze("// c\n/* a\n b */\nx = 1\n\n", "javascript")
	require.NoError(t, err)

	assert.Equal(t, schema.LineMetrics{
		TotalLines:    5,
		CodeLines:     1,
		CommentLines:  3,
		BlankLines:    1,
		AvgLineLength: 3.6,
		MaxLineLength: 5,
	}, report.Metrics)
}

func TestCyclomatic(t *testing.T) {
	assert.Equal(t, 4, cyclomatic("if (a && b) {}\nwhile (x) {}\n", "javascript"))

	py := "if a and b:\n    pass\nelif c or d:\n    pass\n"
	assert.Equal(t, 5, cyclomatic(py, "python"))
	assert.Equal(t, 3, cyclomatic(py, "javascript"))
}

func TestCognitiveAndNesting(t *testing.T) {
	content := strings.Join([]string{
		"function f() {",
		"  if (a) {",
		"    for (;;) {",
		"      break;",
		"    }",
		"  }",
		"}",
	}, "\n")

	report, err := Analyze(content, "javascript")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Complexity.Cyclomatic)
	assert.Equal(t, 6, report.Complexity.Cognitive)
	assert.Equal(t, 3, report.Complexity.Nesting)
}

func TestNestingFloorsAtZero(t *testing.T) {
	assert.Equal(t, 1, nesting(")))} (]"))
	assert.Equal(t, 0, nesting("no brackets"))
}

func TestHalstead(t *testing.T) {
	h := halstead("a = b + 1")
	assert.Equal(t, 2, h.DistinctOperators)
	assert.Equal(t, 3, h.DistinctOperands)
	assert.Equal(t, 2, h.TotalOperators)
	assert.Equal(t, 3, h.TotalOperands)
	assert.Equal(t, 5, h.Vocabulary)
	assert.Equal(t, 5, h.Length)
	assert.InDelta(t, 11.61, h.Volume, 0.001)
	assert.InDelta(t, 1.0, h.Difficulty, 0.001)
	assert.InDelta(t, 11.61, h.Effort, 0.001)

	empty := halstead("")
	assert.Equal(t, 0.0, empty.Volume)
	assert.Equal(t, 0.0, empty.Difficulty)
}

func TestExtractStructure(t *testing.T) {
	t.Run("javascript", func(t *testing.T) {
		content := strings.Join([]string{
			"import React from 'react';",
			"const api = require('./api');",
			"export function load() {}",
			"export const add = (a, b) => a + b;",
			"export class Cart {}",
		}, "\n")
		s := extractStructure(content, "javascript")
		assert.Equal(t, []string{"load", "add"}, s.Functions)
		assert.Equal(t, []string{"Cart"}, s.Classes)
		assert.Equal(t, []string{"react", "./api"}, s.Imports)
		assert.Equal(t, []string{"load", "add", "Cart"}, s.Exports)
		assert.Empty(t, s.Interfaces)
		assert.NotNil(t, s.Types)
	})

	t.Run("typescript", func(t *testing.T) {
		s := extractStructure("interface User { id: string }\ntype ID = string;\nenum Color { Red }\n", "typescript")
		assert.Equal(t, []string{"User"}, s.Interfaces)
		assert.Equal(t, []string{"ID", "Color"}, s.Types)
	})

	t.Run("go", func(t *testing.T) {
		content := "package x\n\nimport (\n\t\"fmt\"\n)\n\ntype Store interface {\n\tGet() string\n}\n\ntype ID string\n\ntype cache struct{}\n\nfunc (c *cache) Get() string { return fmt.Sprint(1) }\n"
		s := extractStructure(content, "go")
		assert.Equal(t, []string{"Get"}, s.Functions)
		assert.Equal(t, []string{"cache"}, s.Classes)
		assert.Equal(t, []string{"Store"}, s.Interfaces)
		assert.Equal(t, []string{"ID"}, s.Types)
		assert.Equal(t, []string{"fmt"}, s.Imports)
		assert.Equal(t, []string{"Get", "Store", "ID"}, s.Exports)
	})

	t.Run("unrecognized language uses generic table", func(t *testing.T) {
		_, err := patternsFor("cobol")
		assert.ErrorIs(t, err, contract.ErrUnrecognizedLanguage)

		s := extractStructure("def foo\nclass Bar\n", "cobol")
		assert.Equal(t, []string{"foo"}, s.Functions)
		assert.Equal(t, []string{"Bar"}, s.Classes)
	})
}

func TestDetectIssues(t *testing.T) {
	content := strings.Join([]string{
		"var total = 0;",
		"if (user == null) {",
		"  console.log(user);",
		"}",
		"// TODO: remove",
		"el.innerHTML = html;",
		"eval(code);",
		`const password = "hunter22";`,
		"if (user === null) {}",
	}, "\n")

	report, err := Analyze(content, "javascript")
	require.NoError(t, err)

	lines := func(issues []schema.Issue) []int {
		out := []int{}
		for _, is := range issues {
			out = append(out, is.Line)
		}
		return out
	}
	assert.Equal(t, []int{2, 3, 5}, lines(report.Issues.BugRisk))
	assert.Equal(t, []int{6, 7, 8}, lines(report.Issues.Security))
	assert.Equal(t, []int{1}, lines(report.Issues.Style))
	assert.Empty(t, report.Issues.Performance)
	assert.Empty(t, report.Issues.Maintenance)
	assert.Equal(t, 7, report.Issues.Total())
	assert.Equal(t, schema.SeverityHigh, report.Issues.Security[1].Severity)
}

func TestStyleRulesAreLanguageScoped(t *testing.T) {
	report, err := Analyze("var x = 1\n"+strings.Repeat("y", 130)+"\n", "python")
	require.NoError(t, err)
	require.Len(t, report.Issues.Style, 1)
	assert.Equal(t, 2, report.Issues.Style[0].Line)
}

func TestPerformanceIssues(t *testing.T) {
	nested := strings.Join([]string{
		"for (int i = 0; i < n; i++) {",
		"  for (int j = 0; j < n; j++) {",
		"    sum += i * j;",
		"  }",
		"}",
		"for (int k = 0; k < n; k++) {",
		"}",
	}, "\n")

	report, err := Analyze(nested, "java")
	require.NoError(t, err)
	require.Len(t, report.Issues.Performance, 1)
	assert.Equal(t, "Nested loop", report.Issues.Performance[0].Message)
	assert.Equal(t, 2, report.Issues.Performance[0].Line)

	report, err = Analyze(nested, "python")
	require.NoError(t, err)
	assert.Empty(t, report.Issues.Performance)

	large := strings.Repeat("items.map(f);\n", largeFileForLoops+1)
	report, err = Analyze(large, "typescript")
	require.NoError(t, err)
	require.Len(t, report.Issues.Performance, 1)
	assert.Equal(t, 1, report.Issues.Performance[0].Line)
	assert.Contains(t, report.Issues.Performance[0].Message, "301 iteration method calls")

	small := strings.Repeat("items.map(f);\n", largeFileForLoops)
	report, err = Analyze(small, "typescript")
	require.NoError(t, err)
	assert.Empty(t, report.Issues.Performance)
}

func TestMaintenanceIssues(t *testing.T) {
	content := strings.Repeat("if (a) { b() }\n", 11)
	report, err := Analyze(content, "javascript")
	require.NoError(t, err)
	require.Len(t, report.Issues.Maintenance, 1)
	assert.Contains(t, report.Issues.Maintenance[0].Message, "Cyclomatic complexity 12")
}

func TestScoreQuality(t *testing.T) {
	tests := []struct {
		name       string
		metrics    schema.LineMetrics
		complexity schema.ComplexityMetrics
		expected   schema.Quality
	}{
		{"no code counts as commented", schema.LineMetrics{TotalLines: 3, CommentLines: 3}, schema.ComplexityMetrics{}, schema.Quality{Score: 100, Grade: "A"}},
		{"uncommented code", schema.LineMetrics{TotalLines: 10, CodeLines: 10}, schema.ComplexityMetrics{}, schema.Quality{Score: 95, Grade: "A"}},
		{"complex file", schema.LineMetrics{TotalLines: 10, CodeLines: 9, CommentLines: 1}, schema.ComplexityMetrics{Cyclomatic: 15}, schema.Quality{Score: 90, Grade: "A"}},
		{"complex uncommented file", schema.LineMetrics{TotalLines: 10, CodeLines: 10}, schema.ComplexityMetrics{Cyclomatic: 15}, schema.Quality{Score: 85, Grade: "B"}},
		{
			"every deduction",
			schema.LineMetrics{TotalLines: 1200, CodeLines: 1200},
			schema.ComplexityMetrics{Cyclomatic: 25, Nesting: 6},
			schema.Quality{Score: 55, Grade: "F"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scoreQuality(tt.metrics, tt.complexity))
		})
	}
}

func TestGradeBoundaries(t *testing.T) {
	expected := map[int]string{100: "A", 90: "A", 89: "B", 80: "B", 79: "C", 70: "C", 69: "D", 60: "D", 59: "F", 0: "F"}
	for score, grade := range expected {
		assert.Equal(t, grade, Grade(score), "score %d", score)
	}

	prev := Grade(100)
	for s := 99; s >= 0; s-- {
		g := Grade(s)
		assert.GreaterOrEqual(t, g, prev, "grade must not improve as score drops (score %d)", s)
		prev = g
	}
}

func FuzzAnalyzeTotal(f *testing.F) {
	f.Add("if (a) { b() }", "javascript")
	f.Add("def f():\n    pass", "python")
	f.Add("\x00\xff", "go")
	f.Add("}}}{{{", "cobol")

	f.Fuzz(func(t *testing.T, content, language string) {
		report, err := Analyze(content, language)
		if err != nil {
			if strings.TrimSpace(content) != "" {
				t.Errorf("unexpected error %v", err)
			}
			return
		}
		if report.Complexity.Cyclomatic < 1 {
			t.Errorf("cyclomatic %d < 1", report.Complexity.Cyclomatic)
		}
		if report.Quality.Score < 0 || report.Quality.Score > 100 {
			t.Errorf("quality %d out of range", report.Quality.Score)
		}
	})
}

func BenchmarkAnalyze(b *testing.B) {
	content := strings.Repeat("function load(a, b) {\n  if (a && b) { return fetch(a) }\n}\n", 100)
	for b.Loop() {
		_, _ = Analyze(content, "javascript")
	}
}
