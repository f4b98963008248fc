package parallel

import "context"
import "errors"
import "sync/atomic"
import "testing"

import "github.com/stretchr/testify/require"

func TestForEach(t *testing.T) {
	var out = make([]int, 1000)
	var running, peak atomic.Int32
	ForEach(len(out), 4, func(i int) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		out[i] = i * i
		running.Add(-1)
	})
	for i, v := range out {
		require.Equal(t, i*i, v)
	}
	require.LessOrEqual(t, peak.Load(), int32(4))

	ForEach(0, 4, func(i int) { t.Fatal("no iterations expected") })
}

func TestForEachErr(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	err := ForEachErr(context.Background(), 100, 1, func(i int) error {
		calls.Add(1)
		if i == 3 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	require.Less(t, calls.Load(), int32(100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = ForEachErr(ctx, 10, 2, func(i int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
