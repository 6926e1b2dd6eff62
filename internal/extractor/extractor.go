package extractor

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/orgball2608/facebook-group-parser/internal/normalize"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
)

// Extractor assembles candidate records out of page snapshots, delegating
// field normalization to the normalize package. Partially missing fields
// degrade to empty/sentinel values; a record is discarded only when it is
// effectively empty (no text, no timestamp, no reactions).
type Extractor struct {
	logger logger.Logger
}

// Stats accumulates per-page extraction diagnostics.
type Stats struct {
	Dropped  int
	Degraded int
}

func New(log logger.Logger) *Extractor {
	return &Extractor{logger: log.WithComponent("Extractor")}
}

// ExtractPage turns one snapshot into posts with their comments attached, in
// source display order. ref is the run's reference instant for relative
// timestamps.
func (e *Extractor) ExtractPage(snap *domain.PageSnapshot, ref time.Time) ([]domain.Post, Stats) {
	var posts []domain.Post
	var stats Stats

	for i := range snap.Posts {
		post, ok := e.extractPost(&snap.Posts[i], ref, &stats)
		if !ok {
			stats.Dropped++
			continue
		}
		posts = append(posts, post)
	}
	return posts, stats
}

func (e *Extractor) extractPost(raw *domain.RawPost, ref time.Time, stats *Stats) (domain.Post, bool) {
	author := cleanAuthor(raw.AuthorText)
	text := assembleText(raw.TextLines, author)

	if isNonContent(author, text) {
		e.logger.Debug("Skipping non-content article", "author", raw.AuthorText)
		return domain.Post{}, false
	}

	ts := normalize.Timestamp(raw.TimestampText, ref)
	reactions := normalize.Reactions(raw.ReactionsText)
	trackDegradation(raw.TimestampText, ts, raw.ReactionsText, reactions, stats)

	if text == "" && !ts.IsKnown() && reactions.IsZero() {
		return domain.Post{}, false
	}

	id := raw.NativeID
	if id == "" {
		id = NativePostID(raw.PermalinkURL)
	}
	if id == "" {
		id = normalize.FallbackID(author, text, raw.TimestampText, "")
	}

	post := domain.Post{
		ID:            id,
		Author:        domain.Author{Name: author},
		Text:          text,
		Timestamp:     ts,
		Reactions:     reactions,
		CommentsCount: parseCommentsCount(raw.CommentsText),
	}
	post.Comments = e.extractComments(raw.Comments, post.ID, post.ID, ref, stats)
	return post, true
}

// extractComments flattens nesting: replies hang off the nearest addressable
// ancestor, falling back to the top-level post.
func (e *Extractor) extractComments(raws []domain.RawComment, postID, parentID string, ref time.Time, stats *Stats) []domain.Comment {
	var comments []domain.Comment
	for i := range raws {
		raw := &raws[i]

		author := cleanAuthor(raw.AuthorText)
		text := assembleText(raw.TextLines, author)
		ts := normalize.Timestamp(raw.TimestampText, ref)
		reactions := normalize.Reactions(raw.ReactionsText)
		trackDegradation(raw.TimestampText, ts, raw.ReactionsText, reactions, stats)

		if text == "" && !ts.IsKnown() && reactions.IsZero() {
			stats.Dropped++
			continue
		}

		id := raw.NativeID
		if id == "" {
			id = normalize.FallbackID(author, text, raw.TimestampText, parentID)
		}

		comments = append(comments, domain.Comment{
			ID:        id,
			PostID:    postID,
			ParentID:  parentID,
			Author:    domain.Author{Name: author},
			Text:      text,
			Timestamp: ts,
			Reactions: reactions,
		})

		if len(raw.Replies) > 0 {
			replyParent := parentID
			if raw.Addressable {
				replyParent = id
			}
			comments = append(comments, e.extractComments(raw.Replies, postID, replyParent, ref, stats)...)
		}
	}
	return comments
}

func trackDegradation(tsText string, ts domain.Timestamp, reactText string, reactions domain.ReactionSummary, stats *Stats) {
	if strings.TrimSpace(tsText) != "" && !ts.IsKnown() {
		stats.Degraded++
	}
	if strings.TrimSpace(reactText) != "" && reactions.IsZero() {
		stats.Degraded++
	}
}

var (
	storyFbidRe = regexp.MustCompile(`pfbid[a-zA-Z0-9]+`)
	postsPathRe = regexp.MustCompile(`/posts/(\d+)`)
)

// NativePostID pulls the source-provided post ID out of a permalink URL.
// Native IDs always take precedence over derived ones.
func NativePostID(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	if parsed, err := url.Parse(rawURL); err == nil {
		if fbid := parsed.Query().Get("story_fbid"); fbid != "" {
			return fbid
		}
	}

	if m := postsPathRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}

	return storyFbidRe.FindString(rawURL)
}

var (
	authorSuffixes   = []string{" is with ", " shared ", " updated "}
	invalidAuthors   = map[string]bool{"Online status indicator": true, "Active": true, "Sponsored": true}
	nonContentPhrase = []string{"People you may know", "Suggested for you", "Groups you might like"}

	compactStampRe = regexp.MustCompile(`^\d+\s*[hdwm]$`)
	uiNoiseRe      = regexp.MustCompile(`^(?:Like|Comment|Share|Reply|·|\+\d+|See more|View replies)$`)
	seeMoreRe      = regexp.MustCompile(`^\s*…?\s*See more\s*|\s*…?\s*See more\s*$`)
)

func cleanAuthor(text string) string {
	name := strings.TrimSpace(text)
	for _, suffix := range authorSuffixes {
		if i := strings.Index(name, suffix); i >= 0 {
			name = name[:i]
		}
	}
	if invalidAuthors[name] {
		return ""
	}
	return name
}

// assembleText joins the meaningful text fragments of an element, dropping
// UI chrome, timestamps and the author's own name, de-duplicated in order.
func assembleText(lines []string, author string) string {
	seen := make(map[string]bool, len(lines))
	var parts []string

	for _, line := range lines {
		cleaned := strings.TrimSpace(seeMoreRe.ReplaceAllString(line, ""))
		if cleaned == "" || cleaned == author {
			continue
		}
		if uiNoiseRe.MatchString(cleaned) || compactStampRe.MatchString(cleaned) {
			continue
		}
		if seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		parts = append(parts, cleaned)
	}
	return strings.Join(parts, "\n")
}

func isNonContent(author, text string) bool {
	for _, phrase := range nonContentPhrase {
		if author == phrase || strings.Contains(firstN(text, 100), phrase) {
			return true
		}
	}
	return false
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var commentsCountRe = regexp.MustCompile(`(\d+)\s*comment`)

func parseCommentsCount(text string) int {
	m := commentsCountRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
