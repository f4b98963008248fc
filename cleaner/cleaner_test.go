package cleaner

import "testing"

import "github.com/stretchr/testify/require"

func TestClean(t *testing.T) {
	require.Equal(t, "hello world", Clean("Hello, World! 123"))
	require.Equal(t, "", Clean(""))
	require.Equal(t, "", Clean(" 42 !? "))
	require.Equal(t, "tabs and newlines", Clean("\tTabs  and\n\nnewlines \r\n"))
	require.Equal(t, "cafe dejavu", Clean("Café déjà-vu"))
	require.Equal(t, "wall st bears claw back reuters", Clean("Wall St. Bears Claw Back (Reuters)"))
}

func TestCleanAlphabetAndIdempotence(t *testing.T) {
	inputs := []string{
		"Reuters - Short-sellers, Wall Street's dwindling\\band of ultra-cynics, are seeing green again.",
		"   multiple   spaces and unicodeß ",
		"ALL CAPS 2024 #1!!!",
		"日本語 text",
		"a",
	}
	for _, in := range inputs {
		out := Clean(in)
		for _, r := range out {
			require.True(t, (r >= 'a' && r <= 'z') || r == ' ', "unexpected rune %q in %q", r, out)
		}
		require.NotContains(t, out, "  ")
		if len(out) > 0 {
			require.NotEqual(t, byte(' '), out[0])
			require.NotEqual(t, byte(' '), out[len(out)-1])
		}
		require.Equal(t, out, Clean(out))
	}
}
