package exporterimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/orgball2608/facebook-group-parser/internal/exporter"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
)

type JSONExporter struct {
	dir    string
	logger logger.Logger
}

func NewJSON(dir string, log logger.Logger) *JSONExporter {
	return &JSONExporter{dir: dir, logger: log.WithComponent("JSONExporter")}
}

var _ exporter.Exporter = (*JSONExporter)(nil)

func (e *JSONExporter) Name() string { return "json" }

type jsonResult struct {
	Group       jsonGroup  `json:"group"`
	ScrapedAt   string     `json:"scraped_at"`
	Posts       []jsonPost `json:"posts"`
	Diagnostics jsonCounts `json:"diagnostics"`
}

type jsonGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type jsonCounts struct {
	PagesFetched    int `json:"pages_fetched"`
	PagesSkipped    int `json:"pages_skipped"`
	RecordsDropped  int `json:"records_dropped"`
	RecordsDegraded int `json:"records_degraded"`
}

type jsonPost struct {
	ID            string        `json:"id"`
	AuthorName    string        `json:"author_name"`
	Text          string        `json:"text"`
	Timestamp     jsonTimestamp `json:"timestamp"`
	Reactions     jsonReactions `json:"reactions"`
	CommentsCount int           `json:"comments_count"`
	Comments      []jsonComment `json:"comments"`
}

type jsonComment struct {
	ID         string        `json:"id"`
	PostID     string        `json:"post_id"`
	ParentID   string        `json:"parent_id"`
	AuthorName string        `json:"author_name"`
	Text       string        `json:"text"`
	Timestamp  jsonTimestamp `json:"timestamp"`
	Reactions  jsonReactions `json:"reactions"`
}

type jsonTimestamp struct {
	Value     string `json:"value,omitempty"`
	Precision string `json:"precision"`
	Raw       string `json:"raw,omitempty"`
}

type jsonReactions struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown,omitempty"`
}

func (e *JSONExporter) Export(ctx context.Context, result *domain.ScrapeResult) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("could not create export directory: %w", err)
	}

	out := jsonResult{
		Group:     jsonGroup(result.Group),
		ScrapedAt: result.ScrapedAt.Format("2006-01-02T15:04:05Z07:00"),
		Diagnostics: jsonCounts{
			PagesFetched:    result.Diagnostics.PagesFetched,
			PagesSkipped:    result.Diagnostics.PagesSkipped,
			RecordsDropped:  result.Diagnostics.RecordsDropped,
			RecordsDegraded: result.Diagnostics.RecordsDegraded,
		},
		Posts: make([]jsonPost, 0, len(result.Posts)),
	}

	for i := range result.Posts {
		post := &result.Posts[i]
		jp := jsonPost{
			ID:            post.ID,
			AuthorName:    post.Author.Name,
			Text:          post.Text,
			Timestamp:     toJSONTimestamp(post.Timestamp),
			Reactions:     jsonReactions{Total: post.Reactions.Total, Breakdown: post.Reactions.Breakdown},
			CommentsCount: post.CommentsCount,
			Comments:      make([]jsonComment, 0, len(post.Comments)),
		}
		for _, c := range post.Comments {
			jp.Comments = append(jp.Comments, jsonComment{
				ID:         c.ID,
				PostID:     c.PostID,
				ParentID:   c.ParentID,
				AuthorName: c.Author.Name,
				Text:       c.Text,
				Timestamp:  toJSONTimestamp(c.Timestamp),
				Reactions:  jsonReactions{Total: c.Reactions.Total, Breakdown: c.Reactions.Breakdown},
			})
		}
		out.Posts = append(out.Posts, jp)
	}

	path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.json", safeName(result.Group.ID), result.ScrapedAt.Format("20060102_150405")))
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}

	e.logger.Info("Exported result", "path", path, "posts", len(out.Posts))
	return nil
}

func toJSONTimestamp(ts domain.Timestamp) jsonTimestamp {
	out := jsonTimestamp{Precision: ts.Precision.String(), Raw: ts.Raw}
	if ts.IsKnown() {
		out.Value = ts.Time.Format("2006-01-02T15:04:05Z07:00")
	}
	return out
}

func safeName(s string) string {
	if s == "" {
		return "group"
	}
	return s
}
