package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/usageledger/internal/billing"
	"github.com/jgoulah/usageledger/internal/ingest"
)

var runCmd = &cobra.Command{
	Use:   "run [csv-file]",
	Short: "Create tables, ingest an export, and bootstrap the billing period",
	Long: `Makes sure the database tables exist, ingests the given usage export if one is
named, then creates the first billing period from the usage data if the billing
period table is still empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close(ctx)

	if len(args) == 1 {
		in := ingest.New(s.db,
			ingest.WithColumns(s.cfg.Columns),
			ingest.WithLayouts(s.cfg.TimestampLayouts),
			ingest.WithLogger(s.log),
		)
		res, err := in.IngestFile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("ingesting usage: %w", err)
		}
		printIngested(res)
	}

	outcome, err := billing.NewBootstrapper(s.db, s.log).Run(ctx)
	if err != nil {
		return err
	}
	printOutcome(outcome)

	return nil
}
