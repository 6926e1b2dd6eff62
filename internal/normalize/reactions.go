package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
)

// Reactions parses reaction text into a typed summary. It never fails:
// unparseable text yields total=0 with the raw text preserved.
//
// Recognized shapes, which may coexist in one string:
//   - a headline total: "42", "1.2K", "42 reactions", "All reactions: 44"
//   - a breakdown: "42 likes and 10 loves", "5 likes, 3 hahas and 1 wow"
//
// When both a headline and a breakdown are present and disagree, the
// headline is authoritative for Total and the breakdown is kept as-is.
func Reactions(raw string) domain.ReactionSummary {
	text := strings.TrimSpace(raw)
	if text == "" {
		return domain.ReactionSummary{Raw: raw}
	}

	headline, hasHeadline := parseHeadlineTotal(text)
	kinds, counts := parseBreakdown(text)

	total := headline
	if !hasHeadline {
		for _, c := range counts {
			total += c
		}
	}

	summary := domain.ReactionSummary{Total: total, Raw: raw}
	if len(kinds) > 0 {
		summary.Breakdown = clampBreakdown(kinds, counts, total, hasHeadline)
	}
	return summary
}

var (
	scaledCountRe   = regexp.MustCompile(`(?i)^([\d,]+)(?:\.(\d+))?\s*([KM])?$`)
	allReactionsRe  = regexp.MustCompile(`(?i)all reactions:?\s*([\d,.]+\s*[KM]?)`)
	trailingKindRe  = regexp.MustCompile(`(?i)([\d,.]+\s*[KM]?)\s+reactions?\b`)
	breakdownPairRe = regexp.MustCompile(`(?i)^([\d,.]+\s*[KM]?)\s+([a-z]+)$`)
	pairSeparatorRe = regexp.MustCompile(`(?i)\s*,\s*|\s+and\s+`)
)

// Words that name an aggregate rather than a reaction kind.
var aggregateKinds = map[string]bool{
	"reaction": true, "reactions": true,
	"other": true, "others": true,
}

func parseHeadlineTotal(text string) (int, bool) {
	if m := allReactionsRe.FindStringSubmatch(text); m != nil {
		if n, ok := parseScaledCount(m[1]); ok {
			return n, true
		}
	}
	if m := trailingKindRe.FindStringSubmatch(text); m != nil {
		if n, ok := parseScaledCount(m[1]); ok {
			return n, true
		}
	}
	// Text that is nothing but a count is a headline by itself.
	if n, ok := parseScaledCount(text); ok {
		return n, true
	}
	return 0, false
}

func parseBreakdown(text string) ([]string, []int) {
	var kinds []string
	var counts []int
	for _, segment := range pairSeparatorRe.Split(text, -1) {
		m := breakdownPairRe.FindStringSubmatch(strings.TrimSpace(segment))
		if m == nil {
			continue
		}
		kind := strings.ToLower(m[2])
		if aggregateKinds[kind] {
			continue
		}
		n, ok := parseScaledCount(m[1])
		if !ok {
			continue
		}
		kinds = append(kinds, kind)
		counts = append(counts, n)
	}
	return kinds, counts
}

// clampBreakdown assembles the breakdown map, capping the cumulative sum at
// one order of magnitude above an authoritative headline total. Counts summed
// into the total itself are trusted as given.
func clampBreakdown(kinds []string, counts []int, total int, hasHeadline bool) map[string]int {
	breakdown := make(map[string]int, len(kinds))

	budget := -1
	if hasHeadline && total > 0 {
		ceiling := 10
		for ceiling <= total {
			ceiling *= 10
		}
		budget = ceiling * 10
	}

	for i, kind := range kinds {
		n := counts[i]
		if budget >= 0 {
			if n > budget {
				n = budget
			}
			budget -= n
		}
		breakdown[kind] += n
	}
	return breakdown
}

// parseScaledCount parses "42", "1,234", "1.2K", "3M" to an exact count.
// Fractional compact values truncate toward zero after scaling.
func parseScaledCount(text string) (int, bool) {
	m := scaledCountRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}

	whole, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}

	scale := 1
	switch strings.ToUpper(m[3]) {
	case "K":
		scale = 1_000
	case "M":
		scale = 1_000_000
	}

	// A fraction only means something in compact notation; a bare "1.2"
	// is not a count.
	if m[2] != "" && scale == 1 {
		return 0, false
	}

	n := whole * scale
	if frac := m[2]; frac != "" {
		fracValue, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		pow := 1
		for range frac {
			pow *= 10
		}
		n += fracValue * scale / pow
	}
	return n, true
}
