// Package outwriter renders analysis results as text tables, JSON, CSV or YAML.
package outwriter

import (
	"time"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDiff prints a branch diff analysis using the configured output format.
func (ow *OutWriter) WriteDiff(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteDiffResult(result, cfg, duration)
}

// WriteBranches prints the local branches using the configured output format.
func (ow *OutWriter) WriteBranches(list schema.BranchList, cfg *contract.Config, duration time.Duration) error {
	return WriteBranchList(list, cfg, duration)
}

// WriteInspect prints the analysis of a single file using the configured output format.
func (ow *OutWriter) WriteInspect(result schema.InspectResult, cfg *contract.Config, duration time.Duration) error {
	return WriteInspectResult(result, cfg, duration)
}
