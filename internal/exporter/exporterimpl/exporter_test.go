package exporterimpl

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	"github.com/stretchr/testify/require"
)

func testResult() *domain.ScrapeResult {
	ts := domain.Timestamp{
		Time:      time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC),
		Precision: domain.PrecisionExact,
		Raw:       "January 15, 2024 at 2:30 PM",
	}
	return &domain.ScrapeResult{
		Group:     domain.Group{ID: "g1", Name: "Test Group", URL: "https://www.facebook.com/groups/g1"},
		ScrapedAt: time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC),
		Posts: []domain.Post{
			{
				ID:            "post1",
				Author:        domain.Author{Name: "Jane Doe"},
				Text:          "hello world",
				Timestamp:     ts,
				Reactions:     domain.ReactionSummary{Total: 52, Breakdown: map[string]int{"likes": 42, "loves": 10}},
				CommentsCount: 1,
				Comments: []domain.Comment{
					{
						ID:        "c1",
						PostID:    "post1",
						ParentID:  "post1",
						Author:    domain.Author{Name: "Alice"},
						Text:      "nice",
						Timestamp: domain.UnknownTimestamp("sometime"),
						Reactions: domain.ReactionSummary{Total: 3, Breakdown: map[string]int{"likes": 3}},
					},
				},
			},
		},
		Diagnostics: domain.Diagnostics{PagesFetched: 2, RecordsDropped: 1},
	}
}

func TestJSONExporterRoundtrip(t *testing.T) {
	dir := t.TempDir()
	exp := NewJSON(dir, logger.New(logger.Opts{}))

	require.NoError(t, exp.Export(context.Background(), testResult()))

	path := filepath.Join(dir, "g1_20250315_100000.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out struct {
		Group struct {
			ID string `json:"id"`
		} `json:"group"`
		Posts []struct {
			ID        string `json:"id"`
			Text      string `json:"text"`
			Timestamp struct {
				Value     string `json:"value"`
				Precision string `json:"precision"`
			} `json:"timestamp"`
			Reactions struct {
				Total     int            `json:"total"`
				Breakdown map[string]int `json:"breakdown"`
			} `json:"reactions"`
			Comments []struct {
				ID        string `json:"id"`
				ParentID  string `json:"parent_id"`
				Timestamp struct {
					Value     string `json:"value"`
					Precision string `json:"precision"`
					Raw       string `json:"raw"`
				} `json:"timestamp"`
			} `json:"comments"`
		} `json:"posts"`
		Diagnostics struct {
			PagesFetched int `json:"pages_fetched"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	require.Equal(t, "g1", out.Group.ID)
	require.Equal(t, 2, out.Diagnostics.PagesFetched)
	require.Len(t, out.Posts, 1)

	post := out.Posts[0]
	require.Equal(t, "post1", post.ID)
	require.Equal(t, "2024-01-15T14:30:00Z", post.Timestamp.Value)
	require.Equal(t, "exact", post.Timestamp.Precision)
	require.Equal(t, 52, post.Reactions.Total)
	require.Equal(t, map[string]int{"likes": 42, "loves": 10}, post.Reactions.Breakdown)

	require.Len(t, post.Comments, 1)
	comment := post.Comments[0]
	require.Equal(t, "c1", comment.ID)
	require.Equal(t, "post1", comment.ParentID)
	// Unknown timestamps export the raw text with no value.
	require.Empty(t, comment.Timestamp.Value)
	require.Equal(t, "unknown", comment.Timestamp.Precision)
	require.Equal(t, "sometime", comment.Timestamp.Raw)
}

func TestCSVExporterWritesPostsAndComments(t *testing.T) {
	dir := t.TempDir()
	exp := NewCSV(dir, logger.New(logger.Opts{}))

	require.NoError(t, exp.Export(context.Background(), testResult()))

	posts := readCSV(t, filepath.Join(dir, "g1_20250315_100000.csv"))
	require.Len(t, posts, 2)
	require.Equal(t, []string{
		"post_id", "author_name", "text", "timestamp", "timestamp_precision",
		"reactions_total", "comments_count", "group_name", "group_id",
	}, posts[0])
	require.Equal(t, []string{
		"post1", "Jane Doe", "hello world", "2024-01-15T14:30:00Z", "exact",
		"52", "1", "Test Group", "g1",
	}, posts[1])

	comments := readCSV(t, filepath.Join(dir, "g1_20250315_100000.comments.csv"))
	require.Len(t, comments, 2)
	row := comments[1]
	require.Equal(t, "c1", row[0])
	require.Equal(t, "post1", row[1])
	// An unknown timestamp leaves the cell empty.
	require.Equal(t, "", row[5])
	require.Equal(t, "unknown", row[6])
	require.Equal(t, "likes=3", row[8])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSQLiteExporterUpsertsByID(t *testing.T) {
	dir := t.TempDir()
	exp := NewSQLite(dir, logger.New(logger.Opts{}))

	result := testResult()
	require.NoError(t, exp.Export(context.Background(), result))
	// A second run over the same content must not duplicate rows.
	require.NoError(t, exp.Export(context.Background(), result))

	db, err := sql.Open("sqlite", filepath.Join(dir, "scrapes.db"))
	require.NoError(t, err)
	defer db.Close()

	var postCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&postCount))
	require.Equal(t, 1, postCount)

	var total, likes int
	require.NoError(t, db.QueryRow(
		`SELECT reactions_total, reactions_like FROM posts WHERE id = ?`, "post1",
	).Scan(&total, &likes))
	require.Equal(t, 52, total)
	require.Equal(t, 42, likes)

	var commentCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM comments`).Scan(&commentCount))
	require.Equal(t, 1, commentCount)
}
