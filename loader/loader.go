// Package loader groups samples of a container into fixed size batches, one pass at a time.
package loader

import "math/rand"

import "github.com/pkg/errors"

import "github.com/neurlang/newsclassifier/datasets"

// ErrBatchSize is returned for a batch size below one.
var ErrBatchSize = errors.New("batch size must be positive")

// Batch is a group of samples. Every slice has the same length, the batch size.
type Batch struct {
	// Index holds the position of each sample in the container.
	Index  []int
	IDs    [][]int64
	Mask   [][]int64
	Labels []int
}

// Len returns the number of samples in the batch.
func (b Batch) Len() int {
	return len(b.Index)
}

// Loader produces batches of a container. It never mutates the samples.
type Loader struct {
	data    datasets.Container
	size    int
	shuffle bool
	rng     *rand.Rand
}

// New creates a loader with batch size size. When shuffle is set every pass draws a
// new permutation from a PRNG seeded with seed.
func New(data datasets.Container, size int, shuffle bool, seed int64) (*Loader, error) {
	if size < 1 {
		return nil, ErrBatchSize
	}
	return &Loader{
		data:    data,
		size:    size,
		shuffle: shuffle,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// MustNew is New that panics on error.
func MustNew(data datasets.Container, size int, shuffle bool, seed int64) *Loader {
	l, err := New(data, size, shuffle, seed)
	if err != nil {
		panic(err.Error())
	}
	return l
}

// Len returns the number of batches per pass.
func (l *Loader) Len() int {
	return (l.data.Len() + l.size - 1) / l.size
}

// Samples returns the number of samples per pass.
func (l *Loader) Samples() int {
	return l.data.Len()
}

// BatchSize returns the configured batch size.
func (l *Loader) BatchSize() int {
	return l.size
}

// Pass starts a new pass over the container. Passes are independent of each other.
func (l *Loader) Pass() *Pass {
	var order = make([]int, l.data.Len())
	for i := range order {
		order[i] = i
	}
	if l.shuffle {
		l.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return &Pass{data: l.data, size: l.size, order: order}
}

// Pass is a lazy iterator over the batches of one pass.
type Pass struct {
	data  datasets.Container
	size  int
	order []int
	pos   int
}

// Next returns the next batch, or false once every sample was emitted.
func (p *Pass) Next() (b Batch, ok bool) {
	if p.pos >= len(p.order) {
		return b, false
	}
	end := p.pos + p.size
	if end > len(p.order) {
		end = len(p.order)
	}
	b = Gather(p.data, p.order[p.pos:end])
	p.pos = end
	return b, true
}

// Order returns the sample order of the pass.
func (p *Pass) Order() []int {
	return p.order
}

// Gather builds a batch from the samples at the given container positions.
func Gather(data datasets.Container, index []int) Batch {
	b := Batch{
		Index:  append([]int(nil), index...),
		IDs:    make([][]int64, len(index)),
		Mask:   make([][]int64, len(index)),
		Labels: make([]int, len(index)),
	}
	for i, n := range index {
		s := data.Get(n)
		b.IDs[i] = s.IDs
		b.Mask[i] = s.Mask
		b.Labels[i] = s.Label
	}
	return b
}
