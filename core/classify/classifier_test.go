package classify

import (
	"strings"
	"testing"

	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		expected string
	}{
		{"test name beats react body", "src/x.test.js", "import React from 'react';\nexport default function X() { return <div/> }", "test"},
		{"go test file", "core/agg_test.go", "package core", "test"},
		{"python test file", "tests/test_api.py", "def test_x(): pass", "test"},
		{"tests directory", "src/__tests__/cart.js", "", "test"},
		{"rc dotfile", ".eslintrc", "{}", "config"},
		{"config token in stem", "webpack.config.js", "module.exports = {}", "config"},
		{"yaml file", "deploy/values.yaml", "a: 1", "config"},
		{"entry point", "src/index.js", "router.get('/x', h)", "entry-point"},
		{"stylesheet beats entry stem", "styles/main.css", "body {}", "stylesheet"},
		{"documentation", "README.md", "# Hello", "documentation"},
		{"react hook", "src/hooks/useAuth.js", "export function useAuth() { return 1 }", "react-hook"},
		{"react context", "src/ThemeContext.js", "export const Theme = createContext(null)", "react-context"},
		{"react component", "src/Button.jsx", "import React from 'react';\nexport const Button = () => {\n  return <button />;\n};", "react-component"},
		{"vue component", "src/Card.vue", "<template>\n  <div/>\n</template>", "vue-component"},
		{"angular service", "src/user.ts", "@Injectable()\nexport class UserService {}", "angular-service"},
		{"backend route", "routes/users.js", "router.get('/users', list)", "backend-route"},
		{"backend middleware", "mw/auth.js", "module.exports = function (req, res, next) { next() }", "backend-middleware"},
		{"database migration", "db/001.sql", "CREATE TABLE users (id int);", "database-migration"},
		{"state store", "store/cart.js", "export default createStore(reducer)", "state-store"},
		{"language fallback", "lib/util.go", "package util\n\nfunc Add(a, b int) int { return a + b }", "go"},
		{"unknown", "bin/data.xyz", "hello", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectType(tt.path, tt.content))
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "typescript", DetectLanguage("src/App.TSX"))
	assert.Equal(t, "python", DetectLanguage("a/b.py"))
	assert.Equal(t, "dockerfile", DetectLanguage("build/Dockerfile"))
	assert.Equal(t, "unknown", DetectLanguage("LICENSE"))
}

func TestExtractDependencies(t *testing.T) {
	t.Run("relative specifiers are excluded", func(t *testing.T) {
		assert.Empty(t, ExtractDependencies("import x from './local'"))
		assert.Equal(t, []string{"pkg"}, ExtractDependencies("import x from 'pkg'"))
	})

	t.Run("javascript forms in order of appearance", func(t *testing.T) {
		content := strings.Join([]string{
			"import React, { useState } from 'react';",
			"import Button from './Button';",
			"const axios = require('axios');",
			"const lazy = import('lodash/debounce');",
			"import 'normalize.css';",
			"const again = require('react');",
		}, "\n")
		assert.Equal(t, []string{"react", "axios", "lodash/debounce", "normalize.css"}, ExtractDependencies(content))
	})

	t.Run("go import block", func(t *testing.T) {
		content := "package main\n\nimport (\n\t\"fmt\"\n\tlog \"github.com/charmbracelet/log\"\n)\n"
		assert.Equal(t, []string{"fmt", "github.com/charmbracelet/log"}, ExtractDependencies(content))
	})

	t.Run("python imports", func(t *testing.T) {
		content := "import os\nimport numpy as np\nfrom flask import Flask\nfrom . import views\nfrom .models import User\n"
		assert.Equal(t, []string{"os", "numpy", "flask"}, ExtractDependencies(content))
	})

	t.Run("python comma separated imports", func(t *testing.T) {
		assert.Equal(t, []string{"os", "sys"}, ExtractDependencies("import os, sys
"))
		content := "import json as j, os.path, re
x = 1
"
		assert.Equal(t, []string{"json", "os.path", "re"}, ExtractDependencies(content))
	})
}

func TestExtractExports(t *testing.T) {
	content := strings.Join([]string{
		"export function load() {}",
		"export const limit = 10;",
		"const a = 1, b = 2;",
		"export { a, b as bee };",
		"export default Cart;",
	}, "\n")
	assert.Equal(t, []string{"load", "limit", "a", "bee", "Cart"}, ExtractExports(content))

	assert.Equal(t, []string{"get", "set"}, ExtractExports("module.exports = { get: getter, set }"))
}

func TestExtractFunctionsJavaScript(t *testing.T) {
	content := strings.Join([]string{
		"async function load(url, opts) {",
		"  return fetch(url);",
		"}",
		"const add = (a, b) => a + b;",
		"const twice = async x => x * 2;",
		"class Cart extends Base {",
		"  total(items) {",
		"    if (items) {",
		"      return 1;",
		"    }",
		"  }",
		"}",
	}, "\n")

	expected := []schema.FunctionInfo{
		{Name: "load", Params: []string{"url", "opts"}, Async: true, Kind: schema.KindDeclaration},
		{Name: "add", Params: []string{"a", "b"}, Kind: schema.KindArrow},
		{Name: "twice", Params: []string{"x"}, Async: true, Kind: schema.KindArrow},
		{Name: "total", Params: []string{"items"}, Kind: schema.KindMethod},
	}
	assert.Equal(t, expected, New().ExtractFunctions(content))
	assert.Equal(t, []schema.ClassInfo{{Name: "Cart", Parent: "Base"}}, ExtractClasses(content))
}

func TestExtractFunctionsPythonAndGo(t *testing.T) {
	py := "def top(a, b=1):\n    pass\n\nclass Svc(Base):\n    async def run(self):\n        pass\n"
	assert.Equal(t, []schema.FunctionInfo{
		{Name: "top", Params: []string{"a", "b=1"}, Kind: schema.KindDeclaration},
		{Name: "run", Params: []string{"self"}, Async: true, Kind: schema.KindMethod},
	}, New().ExtractFunctions(py))
	assert.Equal(t, []schema.ClassInfo{{Name: "Svc", Parent: "Base"}}, ExtractClasses(py))

	goSrc := "package svc\n\ntype Server struct{}\n\nfunc New() *Server { return &Server{} }\n\nfunc (s *Server) Start(ctx context.Context) error { return nil }\n"
	assert.Equal(t, []schema.FunctionInfo{
		{Name: "New", Params: []string{}, Kind: schema.KindDeclaration},
		{Name: "Start", Params: []string{"ctx context.Context"}, Kind: schema.KindMethod},
	}, New().ExtractFunctions(goSrc))
	assert.Equal(t, []schema.ClassInfo{{Name: "Server"}}, ExtractClasses(goSrc))
	assert.Equal(t, []string{"Server", "New", "Start"}, ExtractExports(goSrc))
}

func TestMethodExcludesAreConfigurable(t *testing.T) {
	content := "render() {\n  if (x) {\n  }\n}\n"

	names := func(c *Classifier) []string {
		s := c.Analyze("view.js", content)
		return s.FunctionNames()
	}
	assert.Equal(t, []string{"render"}, names(New()))
	assert.Equal(t, []string{"if"}, names(New(WithMethodExcludes([]string{"render"}))))
	assert.Equal(t, []string{"render"}, names(New(WithMethodExcludes(nil))))
}

func TestBlockKeywordsAreNotMethods(t *testing.T) {
	java := strings.Join([]string{
		"public class Counter {",
		"    public synchronized void inc() {",
		"        synchronized (lock) {",
		"            count++;",
		"        }",
		"    }",
		"}",
	}, "\n")
	snap := New().Analyze("src/Counter.java", java)
	assert.Equal(t, []string{"inc"}, snap.FunctionNames())

	csharp := strings.Join([]string{
		"    lock (sync) {",
		"    }",
		"    using (stream) {",
		"    }",
		"    foreach (var x in xs) {",
		"    }",
		"    try (conn) {",
		"    }",
	}, "\n")
	snap = New().Analyze("src/Worker.cs", csharp)
	assert.Empty(t, snap.FunctionNames())
}

func TestComplexity(t *testing.T) {
	assert.Equal(t, 1, Complexity(""))
	assert.Equal(t, 1, Complexity("elif notify informal"))
	assert.Equal(t, 6, Complexity("if (a && b) { for (;;) {} } else if (c || d) {}"))
	assert.Equal(t, 3, Complexity("switch (x) { case 1: return a ? b : c }"))
}

func TestCountStructure(t *testing.T) {
	content := strings.Join([]string{
		"import x from 'y';",
		"// comment",
		"",
		"export const a = 1;",
		"function f() {}",
		"class C {}",
		"interface I {}",
		"const z = 2;",
	}, "\n") + "\n"

	assert.Equal(t, schema.StructureCounts{
		Lines:      8,
		Imports:    1,
		Exports:    1,
		Functions:  1,
		Classes:    1,
		Interfaces: 1,
		Comments:   1,
		BlankLines: 1,
	}, CountStructure(content))
}

func TestDetectPurposes(t *testing.T) {
	assert.Equal(t, []string{"API endpoint", "RESTful API"}, DetectPurposes("src/api/users.js", "router.get('/x', h)"))
	assert.Equal(t, []string{"Authentication"}, DetectPurposes("src/auth/token.js", "const jwt = require('jsonwebtoken')"))
	assert.Equal(t, []string{schema.GeneralPurpose}, DetectPurposes("a.txt", "hello"))
}

func TestDetectCharacteristics(t *testing.T) {
	content := "async function f() { try { await x() } catch (e) { console.log(e) } }"
	assert.Equal(t, []string{"asynchronous operations", "error handling", "logging"}, DetectCharacteristics(content))
	assert.Empty(t, DetectCharacteristics("plain text"))
}

func TestAnalyzeBinaryContent(t *testing.T) {
	for _, content := range []string{"\x89PNG\x00\x01\x02", "\xff\xfe\xfd"} {
		s := Analyze("assets/logo.png", content)
		assert.Equal(t, schema.UnknownType, s.Type)
		assert.Equal(t, 1, s.Complexity)
		assert.Equal(t, []string{schema.GeneralPurpose}, s.Purposes)
		assert.Equal(t, schema.StructureCounts{}, s.Structure)
		assert.Empty(t, s.Functions)
	}
}

func TestAnalyzeSnapshot(t *testing.T) {
	content := "function foo(){} function bar(){} const axios = require('axios');"
	s := Analyze("src/foo.js", content)

	assert.Equal(t, "src/foo.js", s.Path)
	assert.Equal(t, "javascript", s.Type)
	assert.Equal(t, "javascript", s.Language)
	assert.Equal(t, []string{"foo", "bar"}, s.FunctionNames())
	assert.Equal(t, []string{"axios"}, s.Dependencies)
	assert.Equal(t, 1, s.Complexity)
	assert.Contains(t, s.Description, "Defines 2 functions")
	assert.NotContains(t, s.Description, "refactoring")
}

func TestDescribeSuggestsRefactor(t *testing.T) {
	content := strings.Repeat("if (a) { b() }\n", 11)
	s := Analyze("src/branchy.js", content)
	require.Equal(t, 12, s.Complexity)
	assert.Contains(t, s.Description, "consider refactoring")
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "React hook", TypeLabel("react-hook"))
	assert.Equal(t, "Entry point", TypeLabel("entry-point"))
	assert.Equal(t, "", TypeLabel(""))
}

func FuzzAnalyzeNeverPanics(f *testing.F) {
	f.Add("src/app.js", "function foo(){} const x = require('y')")
	f.Add("main.go", "package main\n\nimport (\n\t\"fmt\"\n)\n")
	f.Add("a.py", "class A(B):\n    def f(self): pass")
	f.Add("bin.dat", "\x00\xff")
	f.Add("", "")

	f.Fuzz(func(t *testing.T, path, content string) {
		s := Analyze(path, content)
		if s.Complexity < 1 {
			t.Errorf("complexity %d < 1 for %q", s.Complexity, content)
		}
		if len(s.Purposes) == 0 {
			t.Errorf("no purposes for %q", path)
		}
		if s.Type == "" {
			t.Errorf("empty type for %q", path)
		}
	})
}

func BenchmarkAnalyze(b *testing.B) {
	content := strings.Repeat("export async function load(a, b) {\n  if (a && b) { return fetch(a) }\n}\n", 50)
	for b.Loop() {
		Analyze("src/api/load.js", content)
	}
}
