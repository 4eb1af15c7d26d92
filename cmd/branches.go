package cmd

import (
	"github.com/huangsam/changescope/core"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/spf13/cobra"
)

// branchesCmd lists the local branches of the repository.
var branchesCmd = &cobra.Command{
	Use:   "branches [repo-path]",
	Short: "List the local branches of the repository.",
	Long: `List the local branches that can be used as --source-ref or --target-ref.

Examples:
  # List branches of the current repository
  changescope branches

  # List branches as JSON
  changescope branches --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBranches(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list branches", err)
		}
	},
}
