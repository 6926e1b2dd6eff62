package formatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	testCases := []struct {
		in       int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, FormatNumber(tc.in))
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	require.Equal(t, `plain text`, EscapeMarkdownV2("plain text"))
	require.Equal(t, `1\.2K \(up\!\)`, EscapeMarkdownV2("1.2K (up!)"))
}
