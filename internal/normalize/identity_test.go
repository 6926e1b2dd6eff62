package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFallbackIDDeterministic(t *testing.T) {
	first := FallbackID("Jane Doe", "hello world", "2h", "")
	second := FallbackID("Jane Doe", "hello world", "2h", "")
	require.Equal(t, first, second)
	require.Len(t, first, 64)
	require.Regexp(t, "^[0-9a-f]{64}$", first)
}

func TestFallbackIDFieldSensitivity(t *testing.T) {
	base := FallbackID("Jane Doe", "hello world", "2h", "")

	require.NotEqual(t, base, FallbackID("John Doe", "hello world", "2h", ""))
	require.NotEqual(t, base, FallbackID("Jane Doe", "hello there", "2h", ""))
	require.NotEqual(t, base, FallbackID("Jane Doe", "hello world", "3h", ""))
	require.NotEqual(t, base, FallbackID("Jane Doe", "hello world", "2h", "parent"))
}

func TestFallbackIDFieldBoundaries(t *testing.T) {
	// Field contents must not smear across the separator.
	require.NotEqual(t,
		FallbackID("ab", "c", "x", ""),
		FallbackID("a", "bc", "x", ""),
	)
}
