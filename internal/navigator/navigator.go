package navigator

import (
	"context"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=navigator.go -destination=mocks/mock.go
type Client interface {
	// FetchPage retrieves one page of group content. An empty cursor means
	// the first page. Transient failures are marked via pkg/errors so the
	// retry controller can tell them from fatal ones.
	FetchPage(ctx context.Context, cursor string) (*domain.PageSnapshot, error)

	// NextCursor returns the continuation cursor discovered on a fetched
	// page, and whether one exists.
	NextCursor(snap *domain.PageSnapshot) (string, bool)
}
