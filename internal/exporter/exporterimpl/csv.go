package exporterimpl

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/orgball2608/facebook-group-parser/internal/exporter"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
)

// CSVExporter writes two files per run: a posts file and a
// "<name>.comments.csv" sibling with one row per comment.
type CSVExporter struct {
	dir    string
	logger logger.Logger
}

func NewCSV(dir string, log logger.Logger) *CSVExporter {
	return &CSVExporter{dir: dir, logger: log.WithComponent("CSVExporter")}
}

var _ exporter.Exporter = (*CSVExporter)(nil)

func (e *CSVExporter) Name() string { return "csv" }

func (e *CSVExporter) Export(ctx context.Context, result *domain.ScrapeResult) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("could not create export directory: %w", err)
	}

	base := fmt.Sprintf("%s_%s", safeName(result.Group.ID), result.ScrapedAt.Format("20060102_150405"))
	postsPath := filepath.Join(e.dir, base+".csv")
	commentsPath := filepath.Join(e.dir, base+".comments.csv")

	if err := e.writePosts(postsPath, result); err != nil {
		return err
	}
	if err := e.writeComments(commentsPath, result); err != nil {
		return err
	}

	e.logger.Info("Exported result", "posts_path", postsPath, "comments_path", commentsPath)
	return nil
}

func (e *CSVExporter) writePosts(path string, result *domain.ScrapeResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"post_id", "author_name", "text", "timestamp", "timestamp_precision",
		"reactions_total", "comments_count", "group_name", "group_id",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Posts {
		post := &result.Posts[i]
		row := []string{
			post.ID,
			post.Author.Name,
			post.Text,
			formatTime(post.Timestamp),
			post.Timestamp.Precision.String(),
			strconv.Itoa(post.Reactions.Total),
			strconv.Itoa(post.CommentsCount),
			result.Group.Name,
			result.Group.ID,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (e *CSVExporter) writeComments(path string, result *domain.ScrapeResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"comment_id", "post_id", "parent_id", "author_name", "text",
		"timestamp", "timestamp_precision", "reactions_total", "reactions_breakdown",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Posts {
		for _, c := range result.Posts[i].Comments {
			row := []string{
				c.ID,
				c.PostID,
				c.ParentID,
				c.Author.Name,
				c.Text,
				formatTime(c.Timestamp),
				c.Timestamp.Precision.String(),
				strconv.Itoa(c.Reactions.Total),
				formatBreakdown(c.Reactions.Breakdown),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatTime(ts domain.Timestamp) string {
	if !ts.IsKnown() {
		return ""
	}
	return ts.Time.Format("2006-01-02T15:04:05Z07:00")
}

// formatBreakdown renders a deterministic "kind=count" list.
func formatBreakdown(breakdown map[string]int) string {
	if len(breakdown) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(breakdown))
	for kind := range breakdown {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, breakdown[kind]))
	}
	return strings.Join(parts, ";")
}
