// Package maxpool implements a layer keeping the largest head logit per class
package maxpool

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/newsclassifier/layer"

// Name is the registry name of the maxpool layer.
const Name = "maxpool"

func init() {
	layer.Register(Name, func(heads int) layer.Layer { return MustNew(heads) })
}

type MaxPoolLayer struct {
	heads int
}

type MaxPool struct {
	heads  []*mat.Dense
	winner [][]int
}

// New creates a new maxpool layer over heads heads
func New(heads int) (*MaxPoolLayer, error) {
	if heads < 1 {
		return nil, layer.ErrHeads
	}
	return &MaxPoolLayer{heads: heads}, nil
}

// MustNew creates a new maxpool layer over heads heads
func MustNew(heads int) *MaxPoolLayer {
	o, err := New(heads)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// Lay turns maxpool layer into a combiner
func (i *MaxPoolLayer) Lay() layer.Combiner {
	return &MaxPool{heads: make([]*mat.Dense, i.heads)}
}
