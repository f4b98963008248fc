// Package mean implements an averaging layer and combiner
package mean

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/newsclassifier/layer"

// Name is the registry name of the mean layer.
const Name = "mean"

func init() {
	layer.Register(Name, func(heads int) layer.Layer { return MustNew(heads) })
}

type MeanLayer struct {
	heads int
}

type Mean struct {
	heads []*mat.Dense
}

// MustNew creates a new mean layer over heads heads
func MustNew(heads int) *MeanLayer {
	o, err := New(heads)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new mean layer over heads heads
func New(heads int) (*MeanLayer, error) {
	if heads < 1 {
		return nil, layer.ErrHeads
	}
	return &MeanLayer{heads: heads}, nil
}

// Lay turns mean layer into a combiner
func (i *MeanLayer) Lay() layer.Combiner {
	return &Mean{heads: make([]*mat.Dense, i.heads)}
}

// Put inserts the logits of head n.
func (f *Mean) Put(n int, logits *mat.Dense) {
	f.heads[n] = logits
}

// Combined returns the elementwise mean of all heads.
func (f *Mean) Combined() *mat.Dense {
	var o *mat.Dense
	for _, h := range f.heads {
		if h == nil {
			continue
		}
		if o == nil {
			o = mat.DenseCopyOf(h)
			continue
		}
		o.Add(o, h)
	}
	if o != nil {
		o.Scale(1/float64(len(f.heads)), o)
	}
	return o
}

// Backward scales the gradient by the reciprocal head count.
func (f *Mean) Backward(n int, grad *mat.Dense) *mat.Dense {
	var o mat.Dense
	o.Scale(1/float64(len(f.heads)), grad)
	return &o
}
