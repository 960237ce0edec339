package cmd

import (
	"github.com/relmint/relmint/internal/domain"
	"github.com/relmint/relmint/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewBumpCmd creates the bump command.
func NewBumpCmd(orch *orchestrator.BumpOrchestrator) *cobra.Command {
	var (
		bumpDryRun      bool
		bumpSkipPublish bool
		bumpCIOutput    bool
	)
	cmd := &cobra.Command{
		Use:   "bump {major|minor|patch}",
		Short: "Bump the version and release it as one transaction",
		Long: `Bump the semantic version and release it.

This command runs the full release transaction:
- Verifies the checkout is on the release branch with a clean tree
- Rewrites the manifest version field in place
- Commits and tags the change
- Pushes the commit and tag to the remote
- Publishes a hosted release with generated notes

If any step fails, every locally compensable step is rolled back in
reverse order. Effects that already reached the remote (push, publish)
cannot be retracted and are reported for manual cleanup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseBumpKind(args[0])
			if err != nil {
				return err
			}
			cfg := orchestrator.BumpConfig{
				Kind:        kind,
				DryRun:      bumpDryRun,
				SkipPublish: bumpSkipPublish,
				CIOutput:    bumpCIOutput,
			}
			return orch.Execute(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&bumpDryRun, "dry-run", false, "Print the plan without making any changes")
	cmd.Flags().BoolVar(&bumpSkipPublish, "skip-publish", false, "Stop after pushing, do not create a hosted release")
	cmd.Flags().BoolVar(&bumpCIOutput, "ci-output", false, "Output in CI-friendly format")
	return cmd
}
