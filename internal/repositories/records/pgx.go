package records

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/facebook-group-parser/internal/repositories"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("RecordsRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Create remembers a record identity
func (p *Pgx) Create(ctx context.Context, seen Seen) error {
	query, args, err := repositories.SqBuilder.
		Insert("seen_records").
		Columns("record_id", "kind", "group_id", "first_seen").
		Values(seen.RecordID, seen.Kind, seen.GroupID, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Exists checks whether a record ID was seen in a prior run
func (p *Pgx) Exists(ctx context.Context, recordID string) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From("seen_records").
		Where(sq.Eq{"record_id": recordID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var exists bool
	err = p.pg.QueryRow(ctx, query, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// CleanupOldRecords deletes ledger entries older than the specified duration
func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoffTime := time.Now().Add(-olderThan)

	query, args, err := repositories.SqBuilder.
		Delete("seen_records").
		Where(sq.Lt{"first_seen": cutoffTime}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}
