package encoder

import "errors"
import "testing"

import "github.com/stretchr/testify/require"

type counting struct {
	calls int
	fail  bool
}

func (c *counting) Hidden() int { return 2 }
func (c *counting) Close() error { return nil }
func (c *counting) Encode(ids, mask []int64) ([]float32, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("boom")
	}
	return []float32{float32(ids[0]), float32(len(ids))}, nil
}

func TestPool(t *testing.T) {
	states := []float32{
		1, 2,
		3, 4,
		100, 100,
	}
	mask := []int64{1, 1, 0}
	require.Equal(t, []float32{1, 2}, Pool(states, mask, 2, PoolCLS))
	require.Equal(t, []float32{2, 3}, Pool(states, mask, 2, PoolMean))
	require.Equal(t, []float32{0, 0}, Pool(states, []int64{0, 0, 0}, 2, PoolMean))
}

func TestCached(t *testing.T) {
	inner := &counting{}
	c := NewCached(inner, 0)
	require.Equal(t, 2, c.Hidden())

	a, err := c.Encode([]int64{7, 8}, []int64{1, 1})
	require.NoError(t, err)
	b, err := c.Encode([]int64{7, 8}, []int64{1, 1})
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, 1, inner.calls)

	_, err = c.Encode([]int64{7, 8}, []int64{1, 0})
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)

	hits, misses := c.Stats()
	require.Equal(t, 1, hits)
	require.Equal(t, 2, misses)
	require.NoError(t, c.Close())
}

func TestCachedBoundAndErrors(t *testing.T) {
	inner := &counting{}
	c := NewCached(inner, 1)
	_, _ = c.Encode([]int64{1}, []int64{1})
	_, _ = c.Encode([]int64{2}, []int64{1})
	_, _ = c.Encode([]int64{2}, []int64{1})
	require.Equal(t, 3, inner.calls)

	inner.fail = true
	_, err := c.Encode([]int64{3}, []int64{1})
	require.Error(t, err)
	_, err = c.Encode([]int64{1}, []int64{1})
	require.NoError(t, err)
}
