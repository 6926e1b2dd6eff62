package filter

import (
	"sort"
	"time"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
)

// Config holds the record filters for one run. Zero times mean the bound is
// not configured; TopNComments == 0 means unlimited.
type Config struct {
	Since        time.Time
	Until        time.Time
	MinReactions int
	TopNComments int
	SkipComments bool
}

func (c Config) dateBounded() bool {
	return !c.Since.IsZero() || !c.Until.IsZero()
}

// Apply filters the extracted set deterministically. Filters compose by
// intersection, so evaluation order never changes the result. The returned
// count is the number of records (posts and comments) that were dropped.
func Apply(posts []domain.Post, cfg Config) ([]domain.Post, int) {
	var kept []domain.Post
	dropped := 0

	for i := range posts {
		post := posts[i]

		if !admitByDate(post.Timestamp, cfg) {
			// Comments go with their post.
			dropped += 1 + len(post.Comments)
			continue
		}

		if cfg.SkipComments {
			post.Comments = nil
		} else {
			comments, d := filterComments(post.Comments, cfg)
			post.Comments = comments
			dropped += d
		}
		kept = append(kept, post)
	}
	return kept, dropped
}

// admitByDate passes unknown timestamps through when no date bound is
// configured; with a bound active, unknown is excluded.
func admitByDate(ts domain.Timestamp, cfg Config) bool {
	if !cfg.dateBounded() {
		return true
	}
	if !ts.IsKnown() {
		return false
	}
	if !cfg.Since.IsZero() && ts.Time.Before(cfg.Since) {
		return false
	}
	if !cfg.Until.IsZero() && ts.Time.After(cfg.Until) {
		return false
	}
	return true
}

func filterComments(comments []domain.Comment, cfg Config) ([]domain.Comment, int) {
	var kept []domain.Comment
	dropped := 0

	for i := range comments {
		if comments[i].Reactions.Total < cfg.MinReactions {
			dropped++
			continue
		}
		kept = append(kept, comments[i])
	}

	if cfg.TopNComments > 0 && len(kept) > cfg.TopNComments {
		// Stable sort keeps source display order on ties, so the
		// earlier-indexed comment wins a spot over a later equal one.
		sort.SliceStable(kept, func(a, b int) bool {
			return kept[a].Reactions.Total > kept[b].Reactions.Total
		})
		dropped += len(kept) - cfg.TopNComments
		kept = kept[:cfg.TopNComments]
	}
	return kept, dropped
}
