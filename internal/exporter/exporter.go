package exporter

import (
	"context"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
)

// Exporter consumes the filtered record graph. Implementations own their
// destination format; the pipeline is agnostic to it.
type Exporter interface {
	Name() string
	Export(ctx context.Context, result *domain.ScrapeResult) error
}
