package domain

import "time"

type Author struct {
	Name       string
	ProfileURL string
}

// Post is a top-level group post. Comments are kept in source display order.
type Post struct {
	ID            string
	Author        Author
	Text          string
	Timestamp     Timestamp
	Reactions     ReactionSummary
	CommentsCount int
	Comments      []Comment
}

// Comment belongs to exactly one post. ParentID is the post ID, or the ID of
// an addressable intermediate comment for replies the source exposes as such.
type Comment struct {
	ID        string
	PostID    string
	ParentID  string
	Author    Author
	Text      string
	Timestamp Timestamp
	Reactions ReactionSummary
}

type Group struct {
	ID   string
	Name string
	URL  string
}

// Diagnostics counts degradations accumulated over a run. Degraded records
// are kept (with sentinel fields); dropped ones never reach export.
type Diagnostics struct {
	PagesFetched    int
	PagesSkipped    int
	RecordsDropped  int
	RecordsDegraded int
}

// ScrapeResult is the canonical shape handed to export collaborators.
type ScrapeResult struct {
	Group       Group
	Posts       []Post
	ScrapedAt   time.Time
	Diagnostics Diagnostics
}

// TotalComments counts comments across all posts.
func (r *ScrapeResult) TotalComments() int {
	n := 0
	for i := range r.Posts {
		n += len(r.Posts[i].Comments)
	}
	return n
}
