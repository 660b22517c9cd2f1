package main

import (
	"github.com/spf13/cobra"

	"github.com/jgoulah/usageledger/internal/billing"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the first billing period from the usage data",
	Long: `If the billing period table is empty, adds one period spanning the earliest to
the latest usage timepoint. Does nothing once any billing period exists.`,
	Args: cobra.NoArgs,
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close(ctx)

	outcome, err := billing.NewBootstrapper(s.db, s.log).Run(ctx)
	if err != nil {
		return err
	}
	printOutcome(outcome)

	return nil
}
