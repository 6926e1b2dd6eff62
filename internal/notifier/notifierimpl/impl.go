package notifierimpl

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/orgball2608/facebook-group-parser/internal/notifier"
	"github.com/orgball2608/facebook-group-parser/internal/ratelimit"
	"github.com/orgball2608/facebook-group-parser/pkg/config"
	"github.com/orgball2608/facebook-group-parser/pkg/formatter"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// TelegramImpl pushes run summaries to the configured user. The Telegram API
// throttles per chat, so sends go through a limiter.
type TelegramImpl struct {
	TgBot   *tgbotapi.BotAPI
	Logger  logger.Logger
	Config  *config.Config
	limiter *ratelimit.Limiter
}

// New returns a no-op notifier when no bot token is configured.
func New(opts Opts) (notifier.Client, error) {
	if opts.Config.Telegram.BotToken == "" {
		opts.Logger.Info("Telegram token not configured, run notifications disabled")
		return &Noop{}, nil
	}

	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.BotToken)
	if err != nil {
		opts.Logger.Error("Error creating bot", "Error", err)
		return nil, err
	}

	return &TelegramImpl{
		TgBot:   tgBot,
		Logger:  opts.Logger.WithComponent("TelegramNotifier"),
		Config:  opts.Config,
		limiter: ratelimit.NewLimiter(1, time.Second, 3),
	}, nil
}

var _ notifier.Client = (*TelegramImpl)(nil)

func (tg *TelegramImpl) NotifyRunSummary(ctx context.Context, result *domain.ScrapeResult) error {
	if err := tg.limiter.Wait(ctx); err != nil {
		return err
	}

	groupName := result.Group.Name
	if groupName == "" {
		groupName = result.Group.URL
	}

	message := fmt.Sprintf(
		"✅ *Scrape finished: %s*\n\n"+
			"Posts: %s\nComments: %s\nPages fetched: %s \\(skipped %s\\)\n"+
			"Dropped records: %s\nDegraded fields: %s",
		formatter.EscapeMarkdownV2(groupName),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(len(result.Posts))),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(result.TotalComments())),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(result.Diagnostics.PagesFetched)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(result.Diagnostics.PagesSkipped)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(result.Diagnostics.RecordsDropped)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(result.Diagnostics.RecordsDegraded)),
	)

	msg := tgbotapi.NewMessage(tg.Config.Telegram.User, message)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending run summary",
			"userID", tg.Config.Telegram.User,
			"error", err)
		return fmt.Errorf("failed to send run summary: %w", err)
	}

	tg.Logger.Info("Run summary sent", "userID", tg.Config.Telegram.User)
	return nil
}

func (tg *TelegramImpl) NotifyError(ctx context.Context, message string) {
	if err := tg.limiter.Wait(ctx); err != nil {
		return
	}

	msg := tgbotapi.NewMessage(tg.Config.Telegram.User, "❌ "+message)
	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending message to user",
			"userID", tg.Config.Telegram.User,
			"error", err)
	}
}

// Noop is used when notifications are not configured.
type Noop struct{}

var _ notifier.Client = (*Noop)(nil)

func (n *Noop) NotifyRunSummary(ctx context.Context, result *domain.ScrapeResult) error { return nil }
func (n *Noop) NotifyError(ctx context.Context, message string)                         {}
