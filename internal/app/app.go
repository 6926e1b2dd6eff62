package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/orgball2608/facebook-group-parser/internal/extractor"
	"github.com/orgball2608/facebook-group-parser/internal/exporter/exporterimpl"
	"github.com/orgball2608/facebook-group-parser/internal/navigator/navigatorimpl"
	"github.com/orgball2608/facebook-group-parser/internal/notifier/notifierimpl"
	"github.com/orgball2608/facebook-group-parser/internal/pipeline"
	"github.com/orgball2608/facebook-group-parser/internal/pipeline/pipelineimpl"
	"github.com/orgball2608/facebook-group-parser/internal/repositories/records"
	"github.com/orgball2608/facebook-group-parser/pkg/config"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		navigatorimpl.NewPlaywrightManager,
		extractor.New,
	),
	fx.Provide(
		navigatorimpl.New,
		notifierimpl.New,
		fx.Annotate(
			pipelineimpl.New,
			fx.As(new(pipeline.Client)),
		),
	),
	exporterimpl.Module,
	records.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate applies the ledger schema when Postgres is configured.
func migrate(c *config.Config, log logger.Logger) error {
	if c.Postgres.Host == "" {
		return nil
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	if err := goose.Up(db, filepath.Join(wd, "migrations")); err != nil {
		return err
	}
	log.Info("Ledger migrations applied")
	return nil
}

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, log logger.Logger, cfg *config.Config, pClient pipeline.Client) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg)

			if cfg.Scraper.Cron != "" {
				if err := pClient.ScheduleScrapes(ctx); err != nil {
					return err
				}
				if err := pClient.ScheduleLedgerCleanup(ctx); err != nil {
					return err
				}
				return nil
			}

			// One-shot mode: run a single scrape and exit.
			go func() {
				if _, err := pClient.ScrapeGroup(ctx); err != nil {
					log.Error("Scrape run failed", "error", err)
				}
				if err := shutdowner.Shutdown(); err != nil {
					log.Error("Failed to shut down application", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Info("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
