package notifier

import (
	"context"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
)

// Client reports run outcomes to an operator channel.
type Client interface {
	NotifyRunSummary(ctx context.Context, result *domain.ScrapeResult) error
	NotifyError(ctx context.Context, message string)
}
