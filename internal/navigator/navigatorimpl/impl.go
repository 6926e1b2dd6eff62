package navigatorimpl

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/orgball2608/facebook-group-parser/internal/navigator"
	"github.com/orgball2608/facebook-group-parser/pkg/config"
	apperrors "github.com/orgball2608/facebook-group-parser/pkg/errors"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/fx"
)

// PlaywrightManager manage the playwright instance
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	logger  logger.Logger
}

// Browser return the browser instance
func (pm *PlaywrightManager) Browser() playwright.Browser {
	return pm.browser
}

// NewPlaywrightManager create a new playwright manager
func NewPlaywrightManager(lc fx.Lifecycle, log logger.Logger) (*PlaywrightManager, error) {
	log.Info("Initializing Playwright Manager...")
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage", // Important in Docker/container
			"--disable-accelerated-2d-canvas",
			"--no-first-run",
			"--no-zygote",
			"--disable-gpu",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	manager := &PlaywrightManager{
		pw:      pw,
		browser: browser,
		logger:  log,
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Playwright browser...")
			if err := manager.browser.Close(); err != nil {
				log.Error("Failed to close playwright browser", "error", err)
			}
			if err := manager.pw.Stop(); err != nil {
				log.Error("Failed to stop playwright", "error", err)
				return err
			}
			log.Info("Playwright stopped successfully.")
			return nil
		},
	})
	log.Info("Playwright Manager initialized successfully.")
	return manager, nil
}

type Opts struct {
	fx.In
	Config     *config.Config
	Logger     logger.Logger
	Playwright *PlaywrightManager
}

// FeedNavigator drives an already-authenticated browsing context over a
// group feed, one page at a time. It owns no retry policy of its own; fetch
// failures are classified and surfaced to the orchestrator's retry wrapper.
type FeedNavigator struct {
	config     *config.Config
	logger     logger.Logger
	playwright *PlaywrightManager
}

func New(opts Opts) navigator.Client {
	return &FeedNavigator{
		config:     opts.Config,
		logger:     opts.Logger.WithComponent("FeedNavigator"),
		playwright: opts.Playwright,
	}
}

var _ navigator.Client = (*FeedNavigator)(nil)

func (n *FeedNavigator) FetchPage(ctx context.Context, cursor string) (*domain.PageSnapshot, error) {
	pageURL := cursor
	if pageURL == "" {
		pageURL = n.config.Facebook.GroupURL
	}

	page, cleanup, err := n.newScrapingPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	snap := &domain.PageSnapshot{URL: pageURL, Cursor: cursor}

	articles, err := page.Locator(`article, div[role="article"]`).All()
	if err != nil {
		return nil, apperrors.WrapTransient(err, "could not query article elements")
	}

	for _, article := range articles {
		raw, err := snapshotPost(article)
		if err != nil {
			n.logger.Warn("Failed to snapshot article, skipping", "error", err)
			continue
		}
		snap.Posts = append(snap.Posts, raw)
	}

	snap.NextCursor = n.discoverNextCursor(page, pageURL)

	n.logger.Info("Fetched page", "url", pageURL, "articles", len(snap.Posts), "has_next", snap.NextCursor != "")
	return snap, nil
}

func (n *FeedNavigator) NextCursor(snap *domain.PageSnapshot) (string, bool) {
	if snap == nil || snap.NextCursor == "" {
		return "", false
	}
	return snap.NextCursor, true
}

// newScrapingPage creates a page inside the persisted authenticated session.
func (n *FeedNavigator) newScrapingPage(ctx context.Context, url string) (playwright.Page, func(), error) {
	ctxOptions := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"),
	}
	if _, err := os.Stat(n.config.Facebook.SessionPath); err == nil {
		ctxOptions.StorageStatePath = playwright.String(n.config.Facebook.SessionPath)
	} else {
		n.logger.Warn("Session state file not found, browsing unauthenticated", "path", n.config.Facebook.SessionPath)
	}

	brContext, err := n.playwright.Browser().NewContext(ctxOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create browser context: %w", err)
	}

	cleanup := func() {
		brContext.Close()
		debug.FreeOSMemory()
	}

	if err := setupRequestInterception(brContext); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to set up request interception: %w", err)
	}

	page, err := brContext.NewPage()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("could not create new page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{Timeout: playwright.Float(60000)}); err != nil {
		cleanup()
		return nil, nil, apperrors.WrapTransient(err, fmt.Sprintf("could not goto page '%s'", url))
	}

	if err := ctx.Err(); err != nil {
		cleanup()
		return nil, nil, err
	}

	return page, cleanup, nil
}

// setupRequestInterception block unnecessary resources
func setupRequestInterception(ctx playwright.BrowserContext) error {
	return ctx.Route("**/*", func(route playwright.Route) {
		resourceType := route.Request().ResourceType()
		if resourceType == "image" || resourceType == "stylesheet" || resourceType == "font" || resourceType == "media" {
			route.Abort()
		} else {
			route.Continue()
		}
	})
}

// snapshotPost pulls raw field text out of one article element. No
// normalization happens here; the extractor owns that.
func snapshotPost(article playwright.Locator) (domain.RawPost, error) {
	raw := domain.RawPost{}

	allText, err := article.InnerText()
	if err != nil {
		return raw, err
	}
	for _, line := range strings.Split(allText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			raw.TextLines = append(raw.TextLines, trimmed)
		}
	}

	if author, err := textOf(article.Locator("strong, h3 a").First()); err == nil {
		raw.AuthorText = author
	}

	if href, err := attrOf(article.Locator(`a[href*="/posts/"], a[href*="story_fbid"]`).First(), "href"); err == nil {
		raw.PermalinkURL = href
	}

	raw.TimestampText = snapshotTimestampText(article)

	if aria, err := attrOf(article.Locator(`[aria-label*="reaction"], [aria-label*="like"]`).First(), "aria-label"); err == nil {
		raw.ReactionsText = aria
	}

	if aria, err := attrOf(article.Locator(`[aria-label*="comment"], [aria-label*="Comment"]`).First(), "aria-label"); err == nil {
		raw.CommentsText = aria
	}

	raw.Comments = snapshotComments(article)
	return raw, nil
}

func snapshotTimestampText(article playwright.Locator) string {
	if abbr, err := textOf(article.Locator("abbr").First()); err == nil && abbr != "" {
		return abbr
	}

	links, err := article.Locator(`a[href*="/posts/"], a[href*="story_fbid"]`).All()
	if err != nil {
		return ""
	}
	for _, link := range links {
		if aria, err := attrOf(link, "aria-label"); err == nil && aria != "" {
			return aria
		}
		if text, err := textOf(link); err == nil && looksLikeStamp(text) {
			return text
		}
	}
	return ""
}

func looksLikeStamp(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, hint := range []string{"h", "d", "w", "min", "yesterday", "just now", "at"} {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func snapshotComments(article playwright.Locator) []domain.RawComment {
	divs, err := article.Locator("div[data-commentid]").All()
	if err != nil {
		return nil
	}

	var comments []domain.RawComment
	for _, div := range divs {
		raw := domain.RawComment{}

		if id, err := attrOf(div, "data-commentid"); err == nil && id != "" {
			raw.NativeID = id
			raw.Addressable = true
		}
		if author, err := textOf(div.Locator("h3 a, strong").First()); err == nil {
			raw.AuthorText = author
		}
		if text, err := div.InnerText(); err == nil {
			for _, line := range strings.Split(text, "\n") {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					raw.TextLines = append(raw.TextLines, trimmed)
				}
			}
		}
		if stamp, err := textOf(div.Locator("abbr").First()); err == nil {
			raw.TimestampText = stamp
		}
		if reactions, err := textOf(div.Locator(`a[href*="reaction"]`).First()); err == nil {
			raw.ReactionsText = reactions
		}

		comments = append(comments, raw)
	}
	return comments
}

// discoverNextCursor finds the "see more posts" continuation link.
func (n *FeedNavigator) discoverNextCursor(page playwright.Page, currentURL string) string {
	selectors := []string{
		`div#m_group_stories_container > div > a`,
		`a[href*="bacr"]`,
	}
	for _, selector := range selectors {
		href, err := attrOf(page.Locator(selector).First(), "href")
		if err != nil || href == "" {
			continue
		}
		if strings.HasPrefix(href, "/") {
			href = baseOf(currentURL) + href
		}
		if href != currentURL {
			return href
		}
	}
	return ""
}

func baseOf(rawURL string) string {
	without := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if i := strings.Index(without, "/"); i >= 0 {
		without = without[:i]
	}
	return "https://" + without
}

func textOf(loc playwright.Locator) (string, error) {
	text, err := loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: playwright.Float(1500)})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func attrOf(loc playwright.Locator, name string) (string, error) {
	value, err := loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: playwright.Float(1500)})
	if err != nil {
		return "", err
	}
	return value, nil
}
