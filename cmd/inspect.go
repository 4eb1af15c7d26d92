package cmd

import (
	"github.com/huangsam/changescope/core"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/spf13/cobra"
)

// inspectCmd runs the classifier and the static analyzer on a single file.
var inspectCmd = &cobra.Command{
	Use:   "inspect [repo-path]",
	Short: "Classify one file at one ref and show its static report.",
	Long: `Read one file at one ref and show how changescope sees it.

Displays the file type, language, purposes, functions, classes and dependencies,
followed by the static metrics, the quality grade and every issue found.

Examples:
  # Inspect a file at HEAD
  changescope inspect --path internal/server/handler.go

  # Inspect the version on main as YAML
  changescope inspect --path src/app.js --ref main --output yaml`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteInspect(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot inspect file", err)
		}
	},
}
