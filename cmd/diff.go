package cmd

import (
	"errors"

	"github.com/huangsam/changescope/core"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/spf13/cobra"
)

// diffCmd analyzes the changes of a source ref against a target ref.
var diffCmd = &cobra.Command{
	Use:   "diff [repo-path]",
	Short: "Analyze what a branch changes compared to a target ref.",
	Long: `Compare a source ref against a target ref and analyze every changed file.

For each file the analysis reports:
- Its type, language, purpose and a short description
- Static metrics: line counts, cyclomatic and cognitive complexity, Halstead measures
- Issues found by the bug-risk, security, performance, style and maintenance rules
- A quality score with a letter grade
- For modified files, the functions, classes and dependencies added or removed

Files are ranked by impact. Commits unique to the source ref are classified and
summarized by author and type, and repository-level insights flag large changes,
refactors and edits to critical paths.

Examples:
  # Analyze the current branch against main
  changescope diff --target-ref main

  # Analyze a feature branch with per-file detail
  changescope diff --source-ref feature/login --target-ref main --detail

  # Analyze a single commit
  changescope diff --target-ref main --commit 1a2b3c4

  # Only look at Go sources outside vendor
  changescope diff --target-ref main --include '*.go' --exclude 'vendor/**'

  # Export the full result as JSON
  changescope diff --target-ref main --output json --output-file change.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.TargetRef == "" {
			contract.LogFatal("Cannot run diff analysis", errors.New("--target-ref is required"))
		}
		if err := core.ExecuteDiff(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run diff analysis", err)
		}
	},
}
