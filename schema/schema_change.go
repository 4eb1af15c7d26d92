package schema

import (
	"encoding/json"
	"fmt"
)

// DiffEntry is one changed path reported by the revision collaborator.
type DiffEntry struct {
	Path    string     `json:"path" yaml:"path"`
	OldPath string     `json:"old_path,omitempty" yaml:"old_path,omitempty"`
	Status  FileStatus `json:"status" yaml:"status"`
}

// DiffSummary is the aggregate size of a diff.
type DiffSummary struct {
	FilesChanged int `json:"files_changed" yaml:"files_changed"`
	Insertions   int `json:"insertions" yaml:"insertions"`
	Deletions    int `json:"deletions" yaml:"deletions"`
}

// FileDiff is the unified diff of a single path.
type FileDiff struct {
	Text      string `json:"text" yaml:"text"`
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
}

// PurposeChange records a change of the joined purpose tags.
type PurposeChange struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// FunctionalChangeSet is the structural difference between two snapshots.
type FunctionalChangeSet struct {
	AddedFunctions      []string       `json:"added_functions" yaml:"added_functions"`
	RemovedFunctions    []string       `json:"removed_functions" yaml:"removed_functions"`
	AddedClasses        []string       `json:"added_classes" yaml:"added_classes"`
	RemovedClasses      []string       `json:"removed_classes" yaml:"removed_classes"`
	AddedDependencies   []string       `json:"added_dependencies" yaml:"added_dependencies"`
	RemovedDependencies []string       `json:"removed_dependencies" yaml:"removed_dependencies"`
	ComplexityDelta     int            `json:"complexity_delta" yaml:"complexity_delta"`
	PurposeChange       *PurposeChange `json:"purpose_change" yaml:"purpose_change"`
}

// LineDelta compares line counts of the two sides of a modified file.
type LineDelta struct {
	Before   int `json:"before" yaml:"before"`
	After    int `json:"after" yaml:"after"`
	Delta    int `json:"delta" yaml:"delta"`
	Inserted int `json:"inserted" yaml:"inserted"`
	Removed  int `json:"removed" yaml:"removed"`
}

// Impact is the heuristic severity of a file change.
type Impact struct {
	Score int         `json:"score" yaml:"score"`
	Level ImpactLevel `json:"level" yaml:"level"`
}

// FileChange is the status-specific part of a FileChangeRecord.
// Exactly one of AddedChange, ModifiedChange, DeletedChange or RenamedChange.
type FileChange interface {
	Status() FileStatus
	isFileChange()
}

// AddedChange carries the analysis of a file that only exists on the source side.
// Nil fields mean the content could not be fetched.
type AddedChange struct {
	Snapshot *FileSnapshotAnalysis
	Static   *StaticReport
}

// ModifiedChange carries the primary analysis and the structural delta of a modified file.
type ModifiedChange struct {
	Snapshot   *FileSnapshotAnalysis
	Static     *StaticReport
	Functional *FunctionalChangeSet
	LineDelta  *LineDelta
}

// DeletedChange carries the classification of the pre-deletion content.
type DeletedChange struct {
	Snapshot *FileSnapshotAnalysis
}

// RenamedChange records the previous path. No content is analyzed.
type RenamedChange struct {
	OldPath string
}

// Status implements FileChange.
func (AddedChange) Status() FileStatus { return StatusAdded }

// Status implements FileChange.
func (ModifiedChange) Status() FileStatus { return StatusModified }

// Status implements FileChange.
func (DeletedChange) Status() FileStatus { return StatusDeleted }

// Status implements FileChange.
func (RenamedChange) Status() FileStatus { return StatusRenamed }

func (AddedChange) isFileChange()    {}
func (ModifiedChange) isFileChange() {}
func (DeletedChange) isFileChange()  {}
func (RenamedChange) isFileChange()  {}

// FileChangeRecord is the analysis of one changed path.
type FileChangeRecord struct {
	Path      string
	Language  string
	Additions int
	Deletions int
	Diff      string
	Change    FileChange
}

// Status returns the status carried by the change variant.
func (r *FileChangeRecord) Status() FileStatus {
	if r.Change == nil {
		return ""
	}
	return r.Change.Status()
}

// Snapshot returns the primary snapshot analysis, or nil.
func (r *FileChangeRecord) Snapshot() *FileSnapshotAnalysis {
	switch c := r.Change.(type) {
	case AddedChange:
		return c.Snapshot
	case ModifiedChange:
		return c.Snapshot
	case DeletedChange:
		return c.Snapshot
	default:
		return nil
	}
}

// Static returns the static report, or nil.
func (r *FileChangeRecord) Static() *StaticReport {
	switch c := r.Change.(type) {
	case AddedChange:
		return c.Static
	case ModifiedChange:
		return c.Static
	default:
		return nil
	}
}

// Functional returns the functional change set of a modified file, or nil.
func (r *FileChangeRecord) Functional() *FunctionalChangeSet {
	if c, ok := r.Change.(ModifiedChange); ok {
		return c.Functional
	}
	return nil
}

// Impact recomputes the impact from the other fields of the record.
func (r *FileChangeRecord) Impact() Impact {
	return ScoreImpact(r)
}

// fileChangeView is the flat wire shape of a FileChangeRecord.
type fileChangeView struct {
	Path              string                `json:"path" yaml:"path"`
	OldPath           string                `json:"old_path,omitempty" yaml:"old_path,omitempty"`
	Status            FileStatus            `json:"status" yaml:"status"`
	Language          string                `json:"language" yaml:"language"`
	Additions         int                   `json:"additions" yaml:"additions"`
	Deletions         int                   `json:"deletions" yaml:"deletions"`
	Diff              string                `json:"diff" yaml:"diff"`
	Analysis          *FileSnapshotAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Static            *StaticReport         `json:"static,omitempty" yaml:"static,omitempty"`
	FunctionalChanges *FunctionalChangeSet  `json:"functional_changes,omitempty" yaml:"functional_changes,omitempty"`
	LineDelta         *LineDelta            `json:"line_delta,omitempty" yaml:"line_delta,omitempty"`
	Impact            Impact                `json:"impact" yaml:"impact"`
}

func (r *FileChangeRecord) view() fileChangeView {
	v := fileChangeView{
		Path:      r.Path,
		Status:    r.Status(),
		Language:  r.Language,
		Additions: r.Additions,
		Deletions: r.Deletions,
		Diff:      r.Diff,
		Analysis:  r.Snapshot(),
		Static:    r.Static(),
		Impact:    r.Impact(),
	}
	switch c := r.Change.(type) {
	case ModifiedChange:
		v.FunctionalChanges = c.Functional
		v.LineDelta = c.LineDelta
	case RenamedChange:
		v.OldPath = c.OldPath
	}
	return v
}

// MarshalJSON flattens the change variant and adds the computed impact.
func (r FileChangeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.view())
}

// MarshalYAML mirrors MarshalJSON for the yaml encoder.
func (r FileChangeRecord) MarshalYAML() (any, error) {
	return r.view(), nil
}

// UnmarshalJSON rebuilds the change variant from the status field. Impact is ignored.
func (r *FileChangeRecord) UnmarshalJSON(data []byte) error {
	var v fileChangeView
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Path = v.Path
	r.Language = v.Language
	r.Additions = v.Additions
	r.Deletions = v.Deletions
	r.Diff = v.Diff
	switch v.Status {
	case StatusAdded:
		r.Change = AddedChange{Snapshot: v.Analysis, Static: v.Static}
	case StatusModified:
		r.Change = ModifiedChange{Snapshot: v.Analysis, Static: v.Static, Functional: v.FunctionalChanges, LineDelta: v.LineDelta}
	case StatusDeleted:
		r.Change = DeletedChange{Snapshot: v.Analysis}
	case StatusRenamed:
		r.Change = RenamedChange{OldPath: v.OldPath}
	default:
		return fmt.Errorf("unknown file status %q for %s", v.Status, v.Path)
	}
	return nil
}
