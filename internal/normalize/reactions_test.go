package normalize

import (
	"testing"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestReactions(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		total     int
		breakdown map[string]int
	}{
		{name: "plain count", text: "42", total: 42},
		{name: "grouped count", text: "1,234", total: 1234},
		{name: "compact thousands", text: "1.2K", total: 1200},
		{name: "compact millions", text: "3M", total: 3_000_000},
		{name: "headline with kind word", text: "42 reactions", total: 42},
		{name: "all reactions prefix", text: "All reactions: 44", total: 44},
		{
			name:      "breakdown sums when no headline",
			text:      "42 likes and 10 loves",
			total:     52,
			breakdown: map[string]int{"likes": 42, "loves": 10},
		},
		{
			name:      "headline wins over breakdown sum",
			text:      "100 reactions, 42 likes and 10 loves",
			total:     100,
			breakdown: map[string]int{"likes": 42, "loves": 10},
		},
		{
			name:      "comma separated breakdown",
			text:      "5 likes, 3 hahas and 1 wow",
			total:     9,
			breakdown: map[string]int{"likes": 5, "hahas": 3, "wow": 1},
		},
		{
			name:      "compact breakdown count",
			text:      "1.5K likes and 200 loves",
			total:     1700,
			breakdown: map[string]int{"likes": 1500, "loves": 200},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reactions(tc.text)
			require.Equal(t, tc.total, got.Total)
			require.Equal(t, tc.breakdown, got.Breakdown)
			require.Equal(t, tc.text, got.Raw)
		})
	}
}

func TestReactionsUnparseable(t *testing.T) {
	// "1.2" without a compact-scale suffix is not a count.
	for _, text := range []string{"", "   ", "Like", "no numbers here", "1.2", "1.2 likes"} {
		got := Reactions(text)
		require.True(t, got.IsZero(), "expected %q to parse to zero", text)
		require.Equal(t, text, got.Raw)
	}
}

func TestReactionsClampsBreakdownAgainstHeadline(t *testing.T) {
	// A corrupt breakdown count cannot exceed one order of magnitude
	// above an authoritative headline total.
	got := Reactions("10 reactions, 50000 likes")
	require.Equal(t, 10, got.Total)
	require.Equal(t, 1000, got.Breakdown["likes"])
}

func TestReactionsCount(t *testing.T) {
	got := Reactions("42 likes and 10 loves")
	require.Equal(t, 42, got.Count("likes"))
	require.Equal(t, 0, got.Count("wow"))
}

func TestReactionsSummary(t *testing.T) {
	var zero domain.ReactionSummary
	require.True(t, zero.IsZero())
}
