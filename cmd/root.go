package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relmint",
	Short: "A CLI tool for transactional release management",
	Long: `relmint bumps a semantic version and propagates it across the
manifest, a commit, a tag, a push and a hosted release as one transaction
with defined rollback.`,
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
