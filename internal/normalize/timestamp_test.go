package normalize

import (
	"testing"
	"time"

	"github.com/orgball2608/facebook-group-parser/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestTimestampRelative(t *testing.T) {
	ref := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		text     string
		expected time.Time
	}{
		{"2 months ago", time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC)},
		{"1 year ago", time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)},
		{"2h", ref.Add(-2 * time.Hour)},
		{"3d", ref.AddDate(0, 0, -3)},
		{"1w", ref.AddDate(0, 0, -7)},
		{"5m", ref.Add(-5 * time.Minute)},
		{"45 min", ref.Add(-45 * time.Minute)},
		{"12 hrs ago", ref.Add(-12 * time.Hour)},
		{"Just now", ref},
		// Zero clamps to the reference instant.
		{"0 minutes ago", ref},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			ts := Timestamp(tc.text, ref)
			require.Equal(t, domain.PrecisionRelative, ts.Precision)
			require.True(t, ts.Time.Equal(tc.expected), "got %v, want %v", ts.Time, tc.expected)
			require.Equal(t, tc.text, ts.Raw)
		})
	}
}

func TestTimestampMonthArithmeticIsCalendarAware(t *testing.T) {
	// From March 31, one month back is not "30 days ago".
	ref := time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)
	ts := Timestamp("1 month ago", ref)
	require.Equal(t, ref.AddDate(0, -1, 0), ts.Time)
}

func TestTimestampYesterday(t *testing.T) {
	ref := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

	ts := Timestamp("Yesterday at 3:00 PM", ref)
	require.Equal(t, domain.PrecisionRelative, ts.Precision)
	require.Equal(t, time.Date(2025, time.January, 9, 15, 0, 0, 0, time.UTC), ts.Time)

	ts = Timestamp("Yesterday", ref)
	require.Equal(t, ref.Add(-24*time.Hour), ts.Time)
}

func TestTimestampYearInference(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		ref      time.Time
		expected time.Time
	}{
		{
			name:     "current year when not later than reference",
			text:     "January 15",
			ref:      time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "prior year when later than reference",
			text:     "January 15",
			ref:      time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "with time of day",
			text:     "Jan 15 at 2:30 PM",
			ref:      time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, time.January, 15, 14, 30, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := Timestamp(tc.text, tc.ref)
			require.Equal(t, domain.PrecisionYearInferred, ts.Precision)
			require.True(t, ts.Time.Equal(tc.expected), "got %v, want %v", ts.Time, tc.expected)
			require.True(t, ts.Approximate())
		})
	}
}

func TestTimestampAbsolute(t *testing.T) {
	ref := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		text     string
		expected time.Time
	}{
		{"January 15, 2024 at 2:30 PM", time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)},
		{"Jan 15, 2024 at 2:30 PM", time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)},
		{"01/15/2024", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			ts := Timestamp(tc.text, ref)
			require.Equal(t, domain.PrecisionExact, ts.Precision)
			require.True(t, ts.Time.Equal(tc.expected), "got %v, want %v", ts.Time, tc.expected)
			require.False(t, ts.Approximate())
		})
	}
}

func TestTimestampUnknown(t *testing.T) {
	ref := time.Now()

	for _, text := range []string{"", "   ", "no date here", "soonish"} {
		ts := Timestamp(text, ref)
		require.False(t, ts.IsKnown(), "expected %q to be unknown", text)
		require.Equal(t, text, ts.Raw)
	}
}

func TestTimestampDeterministic(t *testing.T) {
	ref := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	first := Timestamp("3 days ago", ref)
	second := Timestamp("3 days ago", ref)
	require.Equal(t, first, second)
}

func TestDateBound(t *testing.T) {
	ref := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

	bound, err := DateBound("", ref)
	require.NoError(t, err)
	require.True(t, bound.IsZero())

	bound, err = DateBound("2025-01-01", ref)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), bound)

	bound, err = DateBound("7 days ago", ref)
	require.NoError(t, err)
	require.Equal(t, ref.AddDate(0, 0, -7), bound)

	_, err = DateBound("whenever", ref)
	require.Error(t, err)
}
