package cmd

import (
	"github.com/relmint/relmint/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewPublishCmd creates the publish command.
func NewPublishCmd(orch *orchestrator.PublishOrchestrator) *cobra.Command {
	var publishCIOutput bool
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a hosted release for the current tag",
		Long: `Publish a hosted release for the latest reachable version tag.

The tag and manifest versions must agree before anything is created;
a mismatch aborts the command without touching the release host.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := orchestrator.PublishConfig{
				CIOutput: publishCIOutput,
			}
			return orch.Execute(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&publishCIOutput, "ci-output", false, "Output in CI-friendly format")
	return cmd
}
