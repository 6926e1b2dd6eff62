package pipelineimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/orgball2608/facebook-group-parser/internal/exporter"
	"github.com/orgball2608/facebook-group-parser/internal/extractor"
	"github.com/orgball2608/facebook-group-parser/internal/filter"
	"github.com/orgball2608/facebook-group-parser/internal/navigator"
	"github.com/orgball2608/facebook-group-parser/internal/normalize"
	"github.com/orgball2608/facebook-group-parser/internal/notifier"
	"github.com/orgball2608/facebook-group-parser/internal/pipeline"
	"github.com/orgball2608/facebook-group-parser/internal/ratelimit"
	"github.com/orgball2608/facebook-group-parser/internal/repositories/records"
	"github.com/orgball2608/facebook-group-parser/pkg/config"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	"github.com/orgball2608/facebook-group-parser/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Navigator   navigator.Client
	Extractor   *extractor.Extractor
	Exporters   []exporter.Exporter
	Notifier    notifier.Client
	RecordsRepo records.Repository `optional:"true"`
	Logger      logger.Logger
	Config      *config.Config
}

// PipelineImpl owns the browsing session for the run's duration: it is the
// only component issuing navigation calls, always through the retry wrapper
// and the pacer.
type PipelineImpl struct {
	Navigator   navigator.Client
	Extractor   *extractor.Extractor
	Exporters   []exporter.Exporter
	Notifier    notifier.Client
	RecordsRepo records.Repository
	Logger      logger.Logger
	Config      *config.Config
	Scheduler   gocron.Scheduler

	pacer *ratelimit.Pacer
}

func New(opts Opts) *PipelineImpl {
	return &PipelineImpl{
		Navigator:   opts.Navigator,
		Extractor:   opts.Extractor,
		Exporters:   opts.Exporters,
		Notifier:    opts.Notifier,
		RecordsRepo: opts.RecordsRepo,
		Logger:      opts.Logger.WithComponent("Pipeline"),
		Config:      opts.Config,
		pacer:       ratelimit.NewPacer(opts.Config.Delay()),
	}
}

var _ pipeline.Client = (*PipelineImpl)(nil)

func (p *PipelineImpl) retryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = p.Config.Scraper.MaxRetries
	if base := p.Config.BackoffBase(); base > 0 {
		cfg.InitialInterval = base
	}
	return cfg
}

func (p *PipelineImpl) ScrapeGroup(ctx context.Context) (*domain.ScrapeResult, error) {
	ref := time.Now()
	p.Logger.Info("Starting scrape run", "group", p.Config.Facebook.GroupURL, "reference_instant", ref)

	result := &domain.ScrapeResult{
		Group: domain.Group{
			ID:   p.Config.Facebook.GroupID,
			Name: p.Config.Facebook.GroupName,
			URL:  p.Config.Facebook.GroupURL,
		},
		ScrapedAt: ref,
	}

	posts, diags, err := p.paginate(ctx, ref)
	if err != nil {
		p.Notifier.NotifyError(ctx, "Scrape run aborted: "+err.Error())
		return nil, err
	}
	result.Diagnostics = diags

	filterCfg, err := p.filterConfig(ref)
	if err != nil {
		return nil, err
	}
	filtered, dropped := filter.Apply(posts, filterCfg)
	result.Diagnostics.RecordsDropped += dropped
	result.Posts = filtered

	p.dedupAgainstLedger(ctx, result)

	for _, exp := range p.Exporters {
		if err := exp.Export(ctx, result); err != nil {
			p.Logger.Error("Export failed", "exporter", exp.Name(), "error", err)
			p.Notifier.NotifyError(ctx, fmt.Sprintf("Export via %s failed: %v", exp.Name(), err))
		}
	}

	p.rememberRecords(ctx, result)

	if err := p.Notifier.NotifyRunSummary(ctx, result); err != nil {
		p.Logger.Warn("Failed to send run summary", "error", err)
	}

	p.Logger.Info("Scrape run finished",
		"posts", len(result.Posts),
		"comments", result.TotalComments(),
		"pages_fetched", result.Diagnostics.PagesFetched,
		"records_dropped", result.Diagnostics.RecordsDropped,
		"records_degraded", result.Diagnostics.RecordsDegraded,
	)
	return result, nil
}

// paginate walks the feed sequentially; each page's cursor is only known
// after the previous page rendered. A fetch that exhausts its retry budget
// aborts the run on the first page and ends pagination with partial results
// on any later page.
func (p *PipelineImpl) paginate(ctx context.Context, ref time.Time) ([]domain.Post, domain.Diagnostics, error) {
	var posts []domain.Post
	var diags domain.Diagnostics

	cursor := ""
	retryCfg := p.retryConfig()

	for pageNum := 0; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			p.Logger.Info("Run cancelled between pages", "pages_fetched", diags.PagesFetched)
			return posts, diags, nil
		}
		if max := p.Config.Scraper.MaxPages; max > 0 && pageNum >= max {
			break
		}

		var snap *domain.PageSnapshot
		fetch := func() error {
			if err := p.pacer.Wait(ctx); err != nil {
				return err
			}
			defer p.pacer.Done()

			var err error
			snap, err = p.Navigator.FetchPage(ctx, cursor)
			return err
		}

		if err := retry.Do(ctx, p.Logger, "FetchPage", fetch, retryCfg); err != nil {
			if pageNum == 0 {
				return nil, diags, fmt.Errorf("first page fetch failed, nothing to export: %w", err)
			}
			diags.PagesSkipped++
			p.Logger.Warn("Page fetch failed after retries, keeping partial results", "page", pageNum, "error", err)
			break
		}
		diags.PagesFetched++

		pagePosts, stats := p.Extractor.ExtractPage(snap, ref)
		diags.RecordsDropped += stats.Dropped
		diags.RecordsDegraded += stats.Degraded
		posts = append(posts, pagePosts...)

		if len(pagePosts) == 0 {
			// Content present but nothing extracted: an empty page, not an
			// error. Continuation depends on the cursor alone.
			p.Logger.Warn("No records extracted from page", "page", pageNum, "url", snap.URL)
		}

		next, ok := p.Navigator.NextCursor(snap)
		if !ok {
			break
		}
		cursor = next
	}

	return posts, diags, nil
}

func (p *PipelineImpl) filterConfig(ref time.Time) (filter.Config, error) {
	cfg := filter.Config{
		MinReactions: p.Config.Scraper.MinReactions,
		TopNComments: p.Config.Scraper.TopNComments,
		SkipComments: p.Config.Scraper.SkipComments,
	}

	var err error
	if cfg.Since, err = normalize.DateBound(p.Config.Scraper.Since, ref); err != nil {
		return cfg, fmt.Errorf("invalid SCRAPER_SINCE: %w", err)
	}
	if cfg.Until, err = normalize.DateBound(p.Config.Scraper.Until, ref); err != nil {
		return cfg, fmt.Errorf("invalid SCRAPER_UNTIL: %w", err)
	}
	return cfg, nil
}

// dedupAgainstLedger drops posts already exported by a prior run. A colliding
// content-addressed ID means the same content, so a hit means skip.
func (p *PipelineImpl) dedupAgainstLedger(ctx context.Context, result *domain.ScrapeResult) {
	if p.RecordsRepo == nil {
		return
	}

	kept := result.Posts[:0]
	for i := range result.Posts {
		post := result.Posts[i]
		exists, err := p.RecordsRepo.Exists(ctx, post.ID)
		if err != nil {
			p.Logger.Error("Ledger lookup failed, keeping record", "record_id", post.ID, "error", err)
			kept = append(kept, post)
			continue
		}
		if exists {
			p.Logger.Debug("Record already exported in a prior run", "record_id", post.ID)
			result.Diagnostics.RecordsDropped += 1 + len(post.Comments)
			continue
		}
		kept = append(kept, post)
	}
	result.Posts = kept
}

func (p *PipelineImpl) rememberRecords(ctx context.Context, result *domain.ScrapeResult) {
	if p.RecordsRepo == nil {
		return
	}

	for i := range result.Posts {
		seen := records.Seen{
			RecordID: result.Posts[i].ID,
			Kind:     "post",
			GroupID:  result.Group.ID,
		}
		if err := p.RecordsRepo.Create(ctx, seen); err != nil && err != records.ErrAlreadyExists {
			p.Logger.Error("Failed to remember record", "record_id", seen.RecordID, "error", err)
		}
	}
}
