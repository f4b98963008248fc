package datasets

import "fmt"
import "math"
import "testing"

import "github.com/stretchr/testify/require"

func makeRecords(perLabel map[int]int) (out []Record) {
	for label := 1; label <= 4; label++ {
		for i := 0; i < perLabel[label]; i++ {
			out = append(out, Record{Label: label, Title: fmt.Sprintf("t%d-%d", label, i), Description: fmt.Sprintf("d%d-%d", label, i)})
		}
	}
	return
}

func TestSplitDatasetPartition(t *testing.T) {
	records := makeRecords(map[int]int{1: 50, 2: 30, 3: 15, 4: 5})
	split, err := SplitDataset(records, 0.2, 42)
	require.NoError(t, err)
	require.Equal(t, len(records), len(split.Train)+len(split.Validation))

	var seen = make(map[string]int)
	for _, r := range split.Train {
		seen[r.Title]++
	}
	for _, r := range split.Validation {
		seen[r.Title]++
	}
	require.Len(t, seen, len(records))
	for title, n := range seen {
		require.Equal(t, 1, n, title)
	}
}

func TestSplitDatasetDeterministic(t *testing.T) {
	records := makeRecords(map[int]int{1: 20, 2: 20, 3: 20, 4: 20})
	a, err := SplitDataset(append([]Record(nil), records...), 0.25, 7)
	require.NoError(t, err)
	b, err := SplitDataset(append([]Record(nil), records...), 0.25, 7)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := SplitDataset(append([]Record(nil), records...), 0.25, 8)
	require.NoError(t, err)
	require.NotEqual(t, a.Validation, c.Validation)
}

func TestSplitDatasetStratified(t *testing.T) {
	perLabel := map[int]int{1: 400, 2: 200, 3: 100, 4: 300}
	records := makeRecords(perLabel)
	split, err := SplitDataset(records, 0.2, 42)
	require.NoError(t, err)

	count := func(rs []Record) map[int]int {
		var m = make(map[int]int)
		for _, r := range rs {
			m[r.Label]++
		}
		return m
	}
	train, val := count(split.Train), count(split.Validation)
	for label, n := range perLabel {
		full := float64(n) / float64(len(records))
		require.InDelta(t, full, float64(train[label])/float64(len(split.Train)), 0.01)
		require.InDelta(t, full, float64(val[label])/float64(len(split.Validation)), 0.01)
	}
	require.Equal(t, int(math.Round(0.2*float64(len(records)))), len(split.Validation))
}

func TestSplitDatasetSmallGroups(t *testing.T) {
	records := makeRecords(map[int]int{1: 2, 2: 1, 3: 3})
	split, err := SplitDataset(records, 0.1, 1)
	require.NoError(t, err)
	require.Equal(t, 6, len(split.Train)+len(split.Validation))
	var val = make(map[int]int)
	for _, r := range split.Validation {
		val[r.Label]++
	}
	require.Equal(t, 1, val[1])
	require.Equal(t, 1, val[3])
}

func TestSplitDatasetErrors(t *testing.T) {
	_, err := SplitDataset(makeRecords(map[int]int{1: 3}), 0, 1)
	require.ErrorIs(t, err, ErrFraction)
	_, err = SplitDataset(makeRecords(map[int]int{1: 3}), 1, 1)
	require.ErrorIs(t, err, ErrFraction)
	_, err = SplitDataset(nil, 0.2, 1)
	require.ErrorIs(t, err, ErrEmpty)
}
