package pipelineimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleScrapes sets up recurring runs per SCRAPER_CRON. Without a cron
// expression nothing is scheduled and the caller runs the pipeline once.
func (p *PipelineImpl) ScheduleScrapes(ctx context.Context) error {
	interval := p.Config.Scraper.Cron
	if interval == "" {
		return nil
	}

	if p.Scheduler == nil {
		scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
		if err != nil {
			return fmt.Errorf("failed to create scrape scheduler: %w", err)
		}
		p.Scheduler = scheduler
	}

	p.Logger.Info("Setting up scheduled scrapes", "cron", interval)

	_, err := p.Scheduler.NewJob(
		gocron.CronJob(
			interval,
			false, // Don't use seconds precision
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				p.Logger.Info("Context cancelled, skipping scheduled scrape")
				return
			}

			runCtx, cancel := context.WithTimeout(ctx, 2*time.Hour)
			defer cancel()

			if _, err := p.ScrapeGroup(runCtx); err != nil {
				p.Logger.Error("Scheduled scrape failed", "error", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule scrapes: %w", err)
	}

	p.Scheduler.Start()

	go func() {
		<-ctx.Done()
		p.Logger.Info("Stopping scrape scheduler")
		if err := p.Scheduler.Shutdown(); err != nil {
			p.Logger.Error("Failed to shut down scrape scheduler", "error", err)
		}
	}()

	return nil
}

// ScheduleLedgerCleanup sets up a daily job that expires old entries from
// the dedup ledger.
func (p *PipelineImpl) ScheduleLedgerCleanup(ctx context.Context) error {
	if p.RecordsRepo == nil {
		return nil
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	// Run at 3:00 AM every day
	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				p.Logger.Info("Context cancelled, stopping ledger cleanup job")
				return
			}

			p.Logger.Info("Starting scheduled ledger cleanup job")

			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			const keepFor = 90 * 24 * time.Hour

			rowsDeleted, err := p.RecordsRepo.CleanupOldRecords(cleanupCtx, keepFor)
			if err != nil {
				p.Logger.Error("Failed to clean up ledger", "error", err)
				return
			}

			p.Logger.Info("Ledger cleanup completed", "rows_deleted", rowsDeleted)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule ledger cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		p.Logger.Info("Stopping ledger cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			p.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}
