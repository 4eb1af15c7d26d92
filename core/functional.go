package core

import (
	"strings"

	"github.com/huangsam/changescope/core/classify"
	"github.com/huangsam/changescope/schema"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ComputeFunctionalChanges diffs the extracted facts of two snapshots of one file.
// Names are compared as plain strings, so a changed signature is not a change.
func ComputeFunctionalChanges(oldSnap, newSnap *schema.FileSnapshotAnalysis) schema.FunctionalChangeSet {
	oldFuncs, newFuncs := oldSnap.FunctionNames(), newSnap.FunctionNames()
	oldClasses, newClasses := oldSnap.ClassNames(), newSnap.ClassNames()

	changes := schema.FunctionalChangeSet{
		AddedFunctions:      schema.Difference(newFuncs, oldFuncs),
		RemovedFunctions:    schema.Difference(oldFuncs, newFuncs),
		AddedClasses:        schema.Difference(newClasses, oldClasses),
		RemovedClasses:      schema.Difference(oldClasses, newClasses),
		AddedDependencies:   schema.Difference(newSnap.Dependencies, oldSnap.Dependencies),
		RemovedDependencies: schema.Difference(oldSnap.Dependencies, newSnap.Dependencies),
		ComplexityDelta:     newSnap.Complexity - oldSnap.Complexity,
	}

	from, to := schema.JoinTags(oldSnap.Purposes), schema.JoinTags(newSnap.Purposes)
	if from != to {
		changes.PurposeChange = &schema.PurposeChange{From: from, To: to}
	}
	return changes
}

// ComputeLineDelta compares the two sides of a modified file line by line.
func ComputeLineDelta(oldContent, newContent string) schema.LineDelta {
	before := len(classify.SplitLines(oldContent))
	after := len(classify.SplitLines(newContent))
	delta := schema.LineDelta{Before: before, After: after, Delta: after - before}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			delta.Inserted += countTextLines(d.Text)
		case diffmatchpatch.DiffDelete:
			delta.Removed += countTextLines(d.Text)
		}
	}
	return delta
}

// countTextLines counts lines, including a final line without a newline.
func countTextLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
