package diag

import "testing"

import "github.com/stretchr/testify/require"

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", "json")
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(-1))

	l, err = NewLogger("", "")
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(-1))

	_, err = NewLogger("loud", "console")
	require.Error(t, err)
	_, err = NewLogger("info", "xml")
	require.Error(t, err)

	require.NotNil(t, OrNop(nil))
	require.Equal(t, l, OrNop(l))
}
