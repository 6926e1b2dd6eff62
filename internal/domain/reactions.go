package domain

// ReactionSummary is a typed reaction count for a post or comment. Breakdown
// keys are reaction kinds as they appeared in the source ("likes", "loves",
// ...), lowercased. The breakdown may be partial and is never rescaled to
// match Total.
type ReactionSummary struct {
	Total     int
	Breakdown map[string]int
	Raw       string
}

// Count returns the breakdown count for a kind, zero when absent.
func (r ReactionSummary) Count(kind string) int {
	return r.Breakdown[kind]
}

// IsZero reports whether nothing was parsed out of the reaction text.
func (r ReactionSummary) IsZero() bool {
	return r.Total == 0 && len(r.Breakdown) == 0
}
