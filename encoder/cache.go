package encoder

import "crypto/sha256"
import "encoding/binary"
import "sync"

// Cached memoizes an Encoder. The encoder is frozen, so a sequence always pools to the
// same vector and every epoch after the first skips the transformer.
type Cached struct {
	enc Encoder
	max int

	mu     sync.Mutex
	hits   int
	misses int
	m      map[[32]byte][]float32
}

// NewCached wraps enc. max bounds the number of cached vectors, 0 means unbounded.
func NewCached(enc Encoder, max int) *Cached {
	return &Cached{enc: enc, max: max, m: make(map[[32]byte][]float32)}
}

func key(ids, mask []int64) (k [32]byte) {
	h := sha256.New()
	var buf [8]byte
	for _, v := range ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	for _, v := range mask {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	h.Sum(k[:0])
	return
}

// Hidden returns the hidden size of the wrapped encoder.
func (c *Cached) Hidden() int {
	return c.enc.Hidden()
}

// Encode returns the cached vector or computes it. The returned slice is shared and
// must not be modified.
func (c *Cached) Encode(ids, mask []int64) ([]float32, error) {
	k := key(ids, mask)
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.m[k]; ok {
		c.hits++
		return v, nil
	}
	v, err := c.enc.Encode(ids, mask)
	if err != nil {
		return nil, err
	}
	c.misses++
	if c.max == 0 || len(c.m) < c.max {
		c.m[k] = v
	}
	return v, nil
}

// Stats returns the hit and miss counters.
func (c *Cached) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Close closes the wrapped encoder.
func (c *Cached) Close() error {
	return c.enc.Close()
}
