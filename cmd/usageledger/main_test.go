package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/usageledger/internal/billing"
	"github.com/jgoulah/usageledger/internal/database"
)

func execute(t *testing.T, dir string, args ...string) error {
	t.Helper()
	base := []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "data", "usage.db"),
		"--log-level", "error",
	}
	rootCmd.SetArgs(append(base, args...))
	return rootCmd.Execute()
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Hour,Cost,kWh,Temp\n"+
			"2023-01-01 05:00:00,0.12,0.85,41\n"+
			"2023-02-01 00:00:00,0.07,0.50,29\n"), 0644))

	// nothing ingested yet
	err := execute(t, dir, "bootstrap")
	assert.ErrorIs(t, err, billing.ErrNoUsageData)

	require.NoError(t, execute(t, dir, "run", csvPath))
	require.NoError(t, execute(t, dir, "run"))
	require.NoError(t, execute(t, dir, "list"))

	db, err := database.New(filepath.Join(dir, "data", "usage.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	rows, err := db.CountUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	periods, err := db.ListBillingPeriods(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "2023-01-01 05:00:00", periods[0].StartDate.UTC().Format(timeFormat))
	assert.Equal(t, "2023-02-01 00:00:00", periods[0].EndDate.UTC().Format(timeFormat))
}

func TestIngest_RequiresFile(t *testing.T) {
	err := execute(t, t.TempDir(), "ingest")
	assert.Error(t, err)
}
