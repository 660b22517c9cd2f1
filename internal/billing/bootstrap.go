package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/usageledger/internal/database"
	"github.com/jgoulah/usageledger/internal/metrics"
	"github.com/jgoulah/usageledger/pkg/models"
)

// ErrNoUsageData is returned when bootstrap runs before any usage data has
// been ingested
var ErrNoUsageData = errors.New("no usage data: ingest a usage export before creating billing periods")

// Outcome reports what a bootstrap run did
type Outcome struct {
	Added  bool
	Period models.BillingPeriod // set when Added
}

// Message is the informational line shown to the user
func (o Outcome) Message() string {
	if o.Added {
		return "Added min and max dates to billperiod table"
	}
	return "billperiod already contains data, nothing added"
}

// Bootstrapper creates the first billing period from the span of the usage data
type Bootstrapper struct {
	db     *database.DB
	logger *zap.Logger
}

// NewBootstrapper creates a Bootstrapper
func NewBootstrapper(db *database.DB, logger *zap.Logger) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{db: db, logger: logger.Named("billing")}
}

// Run inserts one billing period covering every usage timepoint, but only
// while the billing period table is empty. The checks run in a fixed order:
//
//  1. no usage rows: ErrNoUsageData, nothing else is read
//  2. billing periods already present: no-op
//  3. otherwise insert [min(timepoint), max(timepoint)] truncated to seconds
//
// Steps 2 and 3 share a transaction.
func (b *Bootstrapper) Run(ctx context.Context) (Outcome, error) {
	hasUsage, err := b.db.HasUsage(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if !hasUsage {
		metrics.BootstrapTotal.WithLabelValues(metrics.OutcomeNoUsageData).Inc()
		return Outcome{}, ErrNoUsageData
	}

	var outcome Outcome
	err = b.db.InTx(ctx, func(tx *database.Tx) error {
		populated, err := tx.HasBillingPeriods(ctx)
		if err != nil {
			return err
		}
		if populated {
			return nil
		}

		minDate, maxDate, err := tx.TimepointRange(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoUsageData
		}
		if err != nil {
			return err
		}

		start := minDate.Truncate(time.Second)
		end := maxDate.Truncate(time.Second)

		id, err := tx.InsertBillingPeriod(ctx, start, end)
		if err != nil {
			return err
		}

		outcome = Outcome{
			Added:  true,
			Period: models.BillingPeriod{ID: id, StartDate: start, EndDate: end},
		}
		return nil
	})
	if errors.Is(err, ErrNoUsageData) {
		metrics.BootstrapTotal.WithLabelValues(metrics.OutcomeNoUsageData).Inc()
		return Outcome{}, ErrNoUsageData
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("bootstrapping billing period: %w", err)
	}

	if outcome.Added {
		metrics.BootstrapTotal.WithLabelValues(metrics.OutcomeAdded).Inc()
		b.logger.Info("added billing period",
			zap.Int64("id", outcome.Period.ID),
			zap.Time("start", outcome.Period.StartDate),
			zap.Time("end", outcome.Period.EndDate),
		)
	} else {
		metrics.BootstrapTotal.WithLabelValues(metrics.OutcomeAlreadyPopulated).Inc()
		b.logger.Info("billing periods already present, nothing added")
	}

	return outcome, nil
}
