package pipeline

import (
	"context"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
)

type Client interface {
	// ScrapeGroup runs one full scrape: paginate, extract, filter, export.
	// It returns the exported result; a first-page fetch failure aborts the
	// run with no output.
	ScrapeGroup(ctx context.Context) (*domain.ScrapeResult, error)

	// ScheduleScrapes registers recurring runs per the configured cron
	// expression.
	ScheduleScrapes(ctx context.Context) error

	// ScheduleLedgerCleanup registers the daily dedup-ledger expiry job.
	ScheduleLedgerCleanup(ctx context.Context) error
}
