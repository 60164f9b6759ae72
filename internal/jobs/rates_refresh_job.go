package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RatesRefreshJobName is the name of the exchange rates refresh job
const RatesRefreshJobName = "rates_refresh"

// RateFetcher defines the interface for refreshing exchange rates.
// This interface allows the job to call the service without importing the
// service package directly.
type RateFetcher interface {
	// Fetch refreshes the cached exchange rate table. A failed fetch keeps
	// the previous table in place.
	Fetch(ctx context.Context)
}

// RatesRefreshJob periodically re-fetches the exchange rate table so a
// long-running process picks up new rates without a restart.
type RatesRefreshJob struct {
	rates   RateFetcher
	logger  *zap.Logger
	timeout time.Duration
}

// NewRatesRefreshJob creates a new exchange rates refresh job.
// The timeout controls how long a single refresh is allowed to run.
func NewRatesRefreshJob(rates RateFetcher, logger *zap.Logger, timeout time.Duration) *RatesRefreshJob {
	return &RatesRefreshJob{
		rates:   rates,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the exchange rates refresh job.
// This is called by the scheduler according to the cron expression.
func (j *RatesRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting exchange rates refresh job")

	j.rates.Fetch(ctx)

	j.logger.Info("exchange rates refresh job completed",
		zap.Duration("duration", time.Since(start)))
}

// RegisterRatesRefreshJob creates the refresh job and adds it to the scheduler.
func RegisterRatesRefreshJob(scheduler *Scheduler, rates RateFetcher, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewRatesRefreshJob(rates, logger, timeout)
	return scheduler.AddJob(RatesRefreshJobName, cronExpr, job.Run)
}
