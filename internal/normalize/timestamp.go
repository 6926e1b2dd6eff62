package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
)

// Timestamp normalizes Facebook's timestamp text against an explicit
// reference instant ("now" for the run). It never fails: text no matcher
// accepts degrades to the unknown sentinel with the raw text preserved.
//
// Matchers run in precedence order, first match wins:
//  1. absolute date+time including a year
//  2. relative phrases ("2h", "3 days ago", "Just now")
//  3. "Yesterday [at 3:45 PM]"
//  4. yearless absolute dates ("January 15 [at 2:30 PM]")
func Timestamp(raw string, ref time.Time) domain.Timestamp {
	text := strings.TrimSpace(raw)
	if text == "" {
		return domain.UnknownTimestamp(raw)
	}

	for _, match := range timestampMatchers {
		if ts, ok := match(text, ref); ok {
			ts.Raw = raw
			return ts
		}
	}
	return domain.UnknownTimestamp(raw)
}

// DateBound resolves a configured date bound, absolute ("2025-01-01") or
// relative ("7 days ago"), against the reference instant. Empty text means
// the bound is not configured.
func DateBound(text string, ref time.Time) (time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, nil
	}
	ts := Timestamp(text, ref)
	if !ts.IsKnown() {
		return time.Time{}, fmt.Errorf("unrecognized date bound %q", text)
	}
	return ts.Time, nil
}

type timestampMatcher func(text string, ref time.Time) (domain.Timestamp, bool)

var timestampMatchers = []timestampMatcher{
	matchAbsolute,
	matchRelative,
	matchYesterday,
	matchYearless,
}

var absoluteLayouts = []string{
	"January 2, 2006 at 3:04 PM",
	"Jan 2, 2006 at 3:04 PM",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
}

func matchAbsolute(text string, ref time.Time) (domain.Timestamp, bool) {
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, text, ref.Location()); err == nil {
			return domain.Timestamp{Time: t, Precision: domain.PrecisionExact}, true
		}
	}
	return domain.Timestamp{}, false
}

// Unit patterns are ordered coarsest-first so a bare "m" only ever means
// minutes once the month forms have had their chance.
var relativeUnits = []struct {
	re      *regexp.Regexp
	resolve func(ref time.Time, n int) time.Time
}{
	{
		regexp.MustCompile(`(?i)^(\d+)\s*(?:years?|yrs?|y)(?:\s+ago)?$`),
		func(ref time.Time, n int) time.Time { return ref.AddDate(-n, 0, 0) },
	},
	{
		regexp.MustCompile(`(?i)^(\d+)\s*(?:months?|mo)(?:\s+ago)?$`),
		func(ref time.Time, n int) time.Time { return ref.AddDate(0, -n, 0) },
	},
	{
		regexp.MustCompile(`(?i)^(\d+)\s*(?:weeks?|wks?|w)(?:\s+ago)?$`),
		func(ref time.Time, n int) time.Time { return ref.AddDate(0, 0, -7*n) },
	},
	{
		regexp.MustCompile(`(?i)^(\d+)\s*(?:days?|d)(?:\s+ago)?$`),
		func(ref time.Time, n int) time.Time { return ref.AddDate(0, 0, -n) },
	},
	{
		regexp.MustCompile(`(?i)^(\d+)\s*(?:hours?|hrs?|h)(?:\s+ago)?$`),
		func(ref time.Time, n int) time.Time { return ref.Add(-time.Duration(n) * time.Hour) },
	},
	{
		regexp.MustCompile(`(?i)^(\d+)\s*(?:minutes?|mins?|m)(?:\s+ago)?$`),
		func(ref time.Time, n int) time.Time { return ref.Add(-time.Duration(n) * time.Minute) },
	},
}

var justNowRe = regexp.MustCompile(`(?i)^just now$`)

func matchRelative(text string, ref time.Time) (domain.Timestamp, bool) {
	if justNowRe.MatchString(text) {
		return domain.Timestamp{Time: ref, Precision: domain.PrecisionRelative}, true
	}
	for _, unit := range relativeUnits {
		m := unit.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			// Zero (and anything unrepresentable) clamps to "now".
			return domain.Timestamp{Time: ref, Precision: domain.PrecisionRelative}, true
		}
		return domain.Timestamp{Time: unit.resolve(ref, n), Precision: domain.PrecisionRelative}, true
	}
	return domain.Timestamp{}, false
}

var yesterdayRe = regexp.MustCompile(`(?i)^yesterday(?:\s+at\s+(.+))?$`)

var timeOfDayLayouts = []string{"3:04 PM", "15:04"}

func matchYesterday(text string, ref time.Time) (domain.Timestamp, bool) {
	m := yesterdayRe.FindStringSubmatch(text)
	if m == nil {
		return domain.Timestamp{}, false
	}

	if m[1] == "" {
		return domain.Timestamp{Time: ref.Add(-24 * time.Hour), Precision: domain.PrecisionRelative}, true
	}

	for _, layout := range timeOfDayLayouts {
		tod, err := time.Parse(layout, strings.TrimSpace(m[1]))
		if err != nil {
			continue
		}
		day := ref.AddDate(0, 0, -1)
		t := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, ref.Location())
		return domain.Timestamp{Time: t, Precision: domain.PrecisionRelative}, true
	}
	return domain.Timestamp{}, false
}

var yearlessLayouts = []string{
	"January 2 at 3:04 PM",
	"Jan 2 at 3:04 PM",
	"January 2",
	"Jan 2",
}

func matchYearless(text string, ref time.Time) (domain.Timestamp, bool) {
	for _, layout := range yearlessLayouts {
		parsed, err := time.Parse(layout, text)
		if err != nil {
			continue
		}

		year := ref.Year()
		// The most recent occurrence not later than the reference instant:
		// a month/day past the reference's month/day belongs to last year.
		if parsed.Month() > ref.Month() ||
			(parsed.Month() == ref.Month() && parsed.Day() > ref.Day()) {
			year--
		}

		t := time.Date(year, parsed.Month(), parsed.Day(), parsed.Hour(), parsed.Minute(), 0, 0, ref.Location())
		return domain.Timestamp{Time: t, Precision: domain.PrecisionYearInferred}, true
	}
	return domain.Timestamp{}, false
}
