package records

import (
	"context"
	"errors"
	"time"
)

var ErrAlreadyExists = errors.New("record already seen")

// Seen is one remembered record identity from a prior run. Content-addressed
// IDs make unchanged records collide here on purpose, which is what lets a
// re-scrape skip them.
type Seen struct {
	ID        int
	RecordID  string
	Kind      string
	GroupID   string
	FirstSeen time.Time
}

//go:generate go run go.uber.org/mock/mockgen -source=records.go -destination=mocks/mock.go
type Repository interface {
	// Create remembers a record identity; ErrAlreadyExists on replay.
	Create(ctx context.Context, seen Seen) error

	// Exists checks whether a record ID was seen in any prior run.
	Exists(ctx context.Context, recordID string) (bool, error)

	// CleanupOldRecords deletes ledger entries older than the given duration
	// and returns how many were removed.
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
