package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Bootstrap outcome label values
const (
	OutcomeAdded            = "added"
	OutcomeAlreadyPopulated = "already_populated"
	OutcomeNoUsageData      = "no_usage_data"
)

var (
	RowsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "usageledger_rows_ingested_total",
		Help: "Usage rows inserted from CSV exports",
	})

	FilesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "usageledger_files_ingested_total",
		Help: "CSV exports ingested successfully",
	})

	BootstrapTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "usageledger_bootstrap_total",
		Help: "Billing period bootstrap runs by outcome",
	}, []string{"outcome"})

	UsageRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "usageledger_usage_rows",
		Help: "Rows in the usage table at the end of the run",
	})

	BillingPeriods = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "usageledger_billing_periods",
		Help: "Rows in the billing period table at the end of the run",
	})
)

// Registry holds only this tool's collectors, so the textfile carries no Go
// runtime series.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		RowsIngestedTotal,
		FilesIngestedTotal,
		BootstrapTotal,
		UsageRows,
		BillingPeriods,
	)
}

// WriteTextfile writes all metrics in the node_exporter textfile format.
// The file is replaced atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
