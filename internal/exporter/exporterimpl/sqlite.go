package exporterimpl

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/orgball2608/facebook-group-parser/internal/exporter"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	_ "modernc.org/sqlite"
)

// SQLiteExporter appends runs into one database file, upserting by record ID
// so re-scrapes of unchanged content are idempotent.
type SQLiteExporter struct {
	dir    string
	logger logger.Logger
}

func NewSQLite(dir string, log logger.Logger) *SQLiteExporter {
	return &SQLiteExporter{dir: dir, logger: log.WithComponent("SQLiteExporter")}
}

var _ exporter.Exporter = (*SQLiteExporter)(nil)

func (e *SQLiteExporter) Name() string { return "sqlite" }

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS groups (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	url TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	group_id TEXT NOT NULL,
	author_name TEXT,
	text TEXT,
	timestamp TEXT,
	timestamp_precision TEXT,
	reactions_total INTEGER DEFAULT 0,
	reactions_like INTEGER DEFAULT 0,
	reactions_love INTEGER DEFAULT 0,
	reactions_haha INTEGER DEFAULT 0,
	reactions_wow INTEGER DEFAULT 0,
	reactions_sad INTEGER DEFAULT 0,
	reactions_angry INTEGER DEFAULT 0,
	comments_count INTEGER DEFAULT 0,
	scraped_at TEXT,
	FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	post_id TEXT NOT NULL,
	parent_id TEXT,
	author_name TEXT,
	text TEXT,
	timestamp TEXT,
	timestamp_precision TEXT,
	reactions_total INTEGER DEFAULT 0,
	reactions_like INTEGER DEFAULT 0,
	reactions_love INTEGER DEFAULT 0,
	reactions_haha INTEGER DEFAULT 0,
	reactions_wow INTEGER DEFAULT 0,
	reactions_sad INTEGER DEFAULT 0,
	reactions_angry INTEGER DEFAULT 0,
	FOREIGN KEY (post_id) REFERENCES posts(id)
);

CREATE INDEX IF NOT EXISTS idx_posts_group ON posts(group_id);
CREATE INDEX IF NOT EXISTS idx_posts_timestamp ON posts(timestamp);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);
CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);
`

func (e *SQLiteExporter) Export(ctx context.Context, result *domain.ScrapeResult) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("could not create export directory: %w", err)
	}

	path := filepath.Join(e.dir, "scrapes.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("could not open sqlite database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("could not ensure schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO groups (id, name, url) VALUES (?, ?, ?)`,
		result.Group.ID, result.Group.Name, result.Group.URL,
	); err != nil {
		return fmt.Errorf("could not upsert group: %w", err)
	}

	scrapedAt := result.ScrapedAt.Format("2006-01-02T15:04:05Z07:00")

	for i := range result.Posts {
		post := &result.Posts[i]
		args := []any{
			post.ID, result.Group.ID, post.Author.Name, post.Text,
			formatTime(post.Timestamp), post.Timestamp.Precision.String(),
			post.Reactions.Total,
		}
		args = append(args, kindColumns(post.Reactions)...)
		args = append(args, post.CommentsCount, scrapedAt)

		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO posts (
				id, group_id, author_name, text, timestamp, timestamp_precision,
				reactions_total, reactions_like, reactions_love, reactions_haha,
				reactions_wow, reactions_sad, reactions_angry, comments_count, scraped_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...,
		); err != nil {
			return fmt.Errorf("could not upsert post %s: %w", post.ID, err)
		}

		for _, c := range post.Comments {
			args := []any{
				c.ID, c.PostID, c.ParentID, c.Author.Name, c.Text,
				formatTime(c.Timestamp), c.Timestamp.Precision.String(),
				c.Reactions.Total,
			}
			args = append(args, kindColumns(c.Reactions)...)

			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO comments (
					id, post_id, parent_id, author_name, text, timestamp, timestamp_precision,
					reactions_total, reactions_like, reactions_love, reactions_haha,
					reactions_wow, reactions_sad, reactions_angry
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...,
			); err != nil {
				return fmt.Errorf("could not upsert comment %s: %w", c.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit: %w", err)
	}

	e.logger.Info("Exported result", "path", path, "posts", len(result.Posts))
	return nil
}

// kindColumns maps the breakdown onto the fixed like/love/haha/wow/sad/angry
// columns. Kinds appear pluralized in source text, so both spellings count.
func kindColumns(r domain.ReactionSummary) []any {
	cols := make([]any, 0, 6)
	for _, kind := range []string{"like", "love", "haha", "wow", "sad", "angry"} {
		cols = append(cols, r.Count(kind)+r.Count(kind+"s"))
	}
	return cols
}
