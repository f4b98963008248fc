package hash

import "testing"

import "github.com/stretchr/testify/require"

func BenchmarkHash(b *testing.B) {
	n := uint32(0)
	s := uint32(0)
	for i := 0; i < b.N; i++ {
		n = Hash(n, s, 1<<20)
		s++
	}
}

func TestHashRange(t *testing.T) {
	for max := uint32(1); max <= 1<<20; max <<= 1 {
		for s := uint32(0); s < 1000; s++ {
			require.Less(t, Hash(s*7919, s, max), max)
		}
	}
	require.Equal(t, uint32(0), Hash(12345, 678, 0))
}

func TestSeed(t *testing.T) {
	require.Equal(t, Seed(42, 1), Seed(42, 1))
	require.NotEqual(t, Seed(42, 1), Seed(42, 2))
	require.NotEqual(t, Seed(42, 1), Seed(43, 1))
	var seen = make(map[int64]struct{})
	for salt := uint32(0); salt < 1000; salt++ {
		s := Seed(7, salt)
		require.GreaterOrEqual(t, s, int64(0))
		seen[s] = struct{}{}
	}
	require.Greater(t, len(seen), 990)
}

func FuzzHash(f *testing.F) {
	f.Add(uint32(0), uint32(0), uint32(0))
	f.Fuzz(func(t *testing.T, n, s, max uint32) {
		out := Hash(n, s, max)
		if max == 0 && out != 0 {
			t.Errorf("Hash(%d, %d, 0) == %d (max=0 should be 0)", n, s, out)
		}
		if max > 0 && out >= max {
			t.Errorf("Hash(%d, %d, %d) == %d (output bigger or equal than max)", n, s, max, out)
		}
	})
}
