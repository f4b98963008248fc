// Package sum implements a sum layer and combiner
package sum

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/newsclassifier/layer"

// Name is the registry name of the sum layer.
const Name = "sum"

func init() {
	layer.Register(Name, func(heads int) layer.Layer { return MustNew(heads) })
}

type SumLayer struct {
	heads int
}

type Sum struct {
	heads []*mat.Dense
}

// MustNew creates a new sum layer over heads heads
func MustNew(heads int) *SumLayer {
	o, err := New(heads)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new sum layer over heads heads
func New(heads int) (o *SumLayer, err error) {
	if heads < 1 {
		return nil, layer.ErrHeads
	}
	o = new(SumLayer)
	o.heads = heads
	return
}

// Lay turns sum layer into a combiner
func (i *SumLayer) Lay() layer.Combiner {
	o := new(Sum)
	o.heads = make([]*mat.Dense, i.heads)
	return o
}
