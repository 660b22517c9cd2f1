package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/usageledger/internal/config"
	"github.com/jgoulah/usageledger/internal/database"
	"github.com/jgoulah/usageledger/internal/logger"
	"github.com/jgoulah/usageledger/internal/metrics"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "usageledger",
	Short: "Track electricity usage exports and billing periods",
	Long: `UsageLedger loads hourly electricity usage exports (cost, kWh, temperature) into a
local SQLite database and keeps a table of billing periods alongside them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// session bundles what every command needs for one invocation
type session struct {
	cfg *config.Config
	log *zap.Logger
	db  *database.DB
}

// openSession loads config, builds the logger and opens the database. The
// schema is created as part of opening.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log = log.With(zap.String("run_id", uuid.NewString()))

	db, err := openDB(cfg.DBPath, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &session{cfg: cfg, log: log, db: db}, nil
}

// openDB opens the database connection
func openDB(path string, log *zap.Logger) (*database.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path, log)
}

// close records table sizes, writes the metrics textfile if configured and
// releases the database
func (s *session) close(ctx context.Context) {
	if s.cfg.MetricsTextfile != "" {
		if err := s.writeMetrics(ctx); err != nil {
			s.log.Warn("metrics not written", zap.Error(err))
		}
	}
	if err := s.db.Close(); err != nil {
		s.log.Warn("closing database", zap.Error(err))
	}
	_ = s.log.Sync()
}

func (s *session) writeMetrics(ctx context.Context) error {
	usageRows, err := s.db.CountUsage(ctx)
	if err != nil {
		return err
	}
	periods, err := s.db.CountBillingPeriods(ctx)
	if err != nil {
		return err
	}
	metrics.UsageRows.Set(float64(usageRows))
	metrics.BillingPeriods.Set(float64(periods))

	return metrics.WriteTextfile(s.cfg.MetricsTextfile)
}
