// Package learning implements the optimizer updating the classifier head
package learning

import "math"

import "gonum.org/v1/gonum/mat"

// Param is one trainable matrix and its accumulated gradient.
type Param struct {
	Name  string
	Value *mat.Dense
	Grad  *mat.Dense

	// Decay enables weight decay. Biases are usually left undecayed.
	Decay bool
}

// AdamW keeps the moment estimates of a fixed set of parameters.
type AdamW struct {
	h      HyperParameters
	params []Param
	m, v   []*mat.Dense
	t      int
}

// NewAdamW creates an optimizer over params.
func NewAdamW(h HyperParameters, params []Param) *AdamW {
	o := &AdamW{h: h, params: params}
	for _, p := range params {
		r, c := p.Value.Dims()
		o.m = append(o.m, mat.NewDense(r, c, nil))
		o.v = append(o.v, mat.NewDense(r, c, nil))
	}
	return o
}

// Steps returns the number of updates applied.
func (o *AdamW) Steps() int {
	return o.t
}

// GradNorm returns the global L2 norm of all gradients.
func (o *AdamW) GradNorm() float64 {
	var s float64
	for _, p := range o.params {
		n := mat.Norm(p.Grad, 2)
		s += n * n
	}
	return math.Sqrt(s)
}

// Step applies one update using the accumulated gradients.
func (o *AdamW) Step() {
	o.t++
	scale := 1.0
	if o.h.GradClip > 0 {
		if n := o.GradNorm(); n > o.h.GradClip {
			scale = o.h.GradClip / n
		}
	}
	c1 := 1 - math.Pow(o.h.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.h.Beta2, float64(o.t))
	for i, p := range o.params {
		w := p.Value.RawMatrix().Data
		g := p.Grad.RawMatrix().Data
		m := o.m[i].RawMatrix().Data
		v := o.v[i].RawMatrix().Data
		for j := range w {
			gj := g[j] * scale
			m[j] = o.h.Beta1*m[j] + (1-o.h.Beta1)*gj
			v[j] = o.h.Beta2*v[j] + (1-o.h.Beta2)*gj*gj
			if p.Decay && o.h.WeightDecay > 0 {
				w[j] -= o.h.LearningRate * o.h.WeightDecay * w[j]
			}
			w[j] -= o.h.LearningRate * (m[j] / c1) / (math.Sqrt(v[j]/c2) + o.h.Eps)
		}
	}
}

// ZeroGrad resets the accumulated gradients.
func (o *AdamW) ZeroGrad() {
	for _, p := range o.params {
		p.Grad.Zero()
	}
}
