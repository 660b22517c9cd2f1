package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/usageledger/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [csv-file]",
	Short: "Load a usage export into the database",
	Long: `Reads a usage CSV export and appends every row to the usage table in one
transaction. Rows already present are not detected, so ingesting the same file
twice stores it twice.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close(ctx)

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

	return nil
}
