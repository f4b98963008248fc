package datasets

import "testing"

import "github.com/stretchr/testify/require"
import "go.uber.org/zap/zapcore"

func TestSummarize(t *testing.T) {
	s := Summarize([]Record{
		{Label: 3, Title: "a", Description: "b"},
		{Label: 1, Title: "", Description: "c"},
		{Label: 3, Title: "d", Description: ""},
		{Label: 3},
	})
	require.Equal(t, 4, s.Records)
	require.Equal(t, map[int]int{1: 1, 3: 3}, s.Labels)
	require.Equal(t, 2, s.EmptyTitle)
	require.Equal(t, 2, s.EmptyDescription)

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, s.MarshalLogObject(enc))
	require.Equal(t, 4, enc.Fields["records"])
	require.Equal(t, map[string]interface{}{"1": 1, "3": 3}, enc.Fields["labels"])

	s.Labels = nil
	enc = zapcore.NewMapObjectEncoder()
	require.NoError(t, s.MarshalLogObject(enc))
	require.NotContains(t, enc.Fields, "labels")

	empty := Summarize(nil)
	require.Zero(t, empty.Records)
	require.Empty(t, empty.Labels)
}
