package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database tables",
	Long:  `Creates the usage and billing period tables if they do not exist yet. Existing tables are left untouched.`,
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// opening the session creates the schema
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close(ctx)

	tables, err := s.db.Tables(ctx)
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}

	pterm.Success.Printfln("Database %s ready (tables: %s)", s.cfg.DBPath, strings.Join(tables, ", "))
	return nil
}
