// Package schema has the models and shared constants for all parts of changescope.
package schema

// FunctionInfo is a function found by text heuristics.
type FunctionInfo struct {
	Name   string     `json:"name" yaml:"name"`
	Params []string   `json:"params" yaml:"params"`
	Async  bool       `json:"async" yaml:"async"`
	Kind   ChangeKind `json:"kind" yaml:"kind"`
}

// ClassInfo is a class (or struct) declaration with an optional parent.
type ClassInfo struct {
	Name   string `json:"name" yaml:"name"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// StructureCounts holds per-line structural counts of a snapshot.
type StructureCounts struct {
	Lines      int `json:"lines" yaml:"lines"`
	Imports    int `json:"imports" yaml:"imports"`
	Exports    int `json:"exports" yaml:"exports"`
	Functions  int `json:"functions" yaml:"functions"`
	Classes    int `json:"classes" yaml:"classes"`
	Interfaces int `json:"interfaces" yaml:"interfaces"`
	Comments   int `json:"comments" yaml:"comments"`
	BlankLines int `json:"blank_lines" yaml:"blank_lines"`
}

// FileSnapshotAnalysis is the classification of one file at one revision.
// It is computed once and never mutated.
type FileSnapshotAnalysis struct {
	Path            string          `json:"path" yaml:"path"`
	Type            string          `json:"type" yaml:"type"`
	Language        string          `json:"language" yaml:"language"`
	Purposes        []string        `json:"purposes" yaml:"purposes"`
	Structure       StructureCounts `json:"structure" yaml:"structure"`
	Dependencies    []string        `json:"dependencies" yaml:"dependencies"`
	Exports         []string        `json:"exports" yaml:"exports"`
	Functions       []FunctionInfo  `json:"functions" yaml:"functions"`
	Classes         []ClassInfo     `json:"classes" yaml:"classes"`
	Complexity      int             `json:"complexity" yaml:"complexity"`
	Characteristics []string        `json:"characteristics" yaml:"characteristics"`
	Description     string          `json:"description" yaml:"description"`
}

// FunctionNames returns the function names in extraction order.
func (s *FileSnapshotAnalysis) FunctionNames() []string {
	names := make([]string, 0, len(s.Functions))
	for _, f := range s.Functions {
		names = append(names, f.Name)
	}
	return names
}

// ClassNames returns the class names in extraction order.
func (s *FileSnapshotAnalysis) ClassNames() []string {
	names := make([]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		names = append(names, c.Name)
	}
	return names
}
