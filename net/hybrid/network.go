// Package hybrid implements the hybrid classifier: a frozen encoder followed by a flat
// and a hierarchical linear head whose logits are combined.
package hybrid

import "math"
import "math/rand"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/layer"
import "github.com/neurlang/newsclassifier/learning"
import _ "github.com/neurlang/newsclassifier/layer/maxpool"
import _ "github.com/neurlang/newsclassifier/layer/mean"
import "github.com/neurlang/newsclassifier/layer/sum"

// ErrShape is returned when a matrix does not fit the network dimensions.
var ErrShape = errors.New("shape mismatch")

// Names of the two heads, in combiner order.
const (
	HeadFlat         = "flat"
	HeadHierarchical = "hierarchical"
)

// Options configures a Network.
type Options struct {
	Hidden   int     // pooled representation size
	Classes  int     // number of classes C
	Dropout  float64 // dropout probability in training mode
	Combiner string  // registered layer name, "sum" when empty
	Seed     int64   // initialization and dropout PRNG seed

	// Labels is stored in snapshots. It may be nil.
	Labels *datasets.Labels
}

// Head is one linear projection from the pooled representation to C logits.
type Head struct {
	Name string
	W    *mat.Dense // (hidden, classes)
	B    *mat.Dense // (1, classes)

	GW *mat.Dense
	GB *mat.Dense
}

func newHead(name string, hidden, classes int, rng *rand.Rand) *Head {
	h := &Head{
		Name: name,
		W:    mat.NewDense(hidden, classes, nil),
		B:    mat.NewDense(1, classes, nil),
		GW:   mat.NewDense(hidden, classes, nil),
		GB:   mat.NewDense(1, classes, nil),
	}
	bound := 1 / math.Sqrt(float64(hidden))
	for _, m := range []*mat.Dense{h.W, h.B} {
		data := m.RawMatrix().Data
		for i := range data {
			data[i] = (2*rng.Float64() - 1) * bound
		}
	}
	return h
}

// project computes x·W + b.
func (h *Head) project(x *mat.Dense) *mat.Dense {
	r, _ := x.Dims()
	_, c := h.W.Dims()
	o := mat.NewDense(r, c, nil)
	o.Mul(x, h.W)
	b := h.B.RawRowView(0)
	for i := 0; i < r; i++ {
		row := o.RawRowView(i)
		for j := range row {
			row[j] += b[j]
		}
	}
	return o
}

// Network owns the parameters of both heads. Forward and Backward never change the
// parameters, only the optimizer does.
type Network struct {
	opt      Options
	combiner layer.Layer
	heads    []*Head
	training bool
	rng      *rand.Rand
}

// New creates a network with freshly initialized heads.
func New(opt Options) (*Network, error) {
	if opt.Hidden < 1 || opt.Classes < 1 {
		return nil, errors.Wrapf(ErrShape, "hidden %d classes %d", opt.Hidden, opt.Classes)
	}
	if opt.Dropout < 0 || opt.Dropout >= 1 {
		return nil, errors.Errorf("dropout %v outside [0,1)", opt.Dropout)
	}
	if opt.Combiner == "" {
		opt.Combiner = sum.Name
	}
	if opt.Labels != nil && opt.Labels.Len() != opt.Classes {
		return nil, errors.Wrapf(ErrShape, "%d labels for %d classes", opt.Labels.Len(), opt.Classes)
	}
	comb, err := layer.Named(opt.Combiner, 2)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(opt.Seed))
	return &Network{
		opt:      opt,
		combiner: comb,
		heads: []*Head{
			newHead(HeadFlat, opt.Hidden, opt.Classes, rng),
			newHead(HeadHierarchical, opt.Hidden, opt.Classes, rng),
		},
		rng: rng,
	}, nil
}

// MustNew is New that panics on error.
func MustNew(opt Options) *Network {
	n, err := New(opt)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// Hidden returns the expected pooled representation size.
func (n *Network) Hidden() int {
	return n.opt.Hidden
}

// Classes returns the number of classes.
func (n *Network) Classes() int {
	return n.opt.Classes
}

// Combiner returns the name of the combination strategy.
func (n *Network) Combiner() string {
	return n.opt.Combiner
}

// Dropout returns the dropout probability.
func (n *Network) Dropout() float64 {
	return n.opt.Dropout
}

// Labels returns the label set stored with the network, or nil.
func (n *Network) Labels() *datasets.Labels {
	return n.opt.Labels
}

// Heads returns the heads in combiner order.
func (n *Network) Heads() []*Head {
	return n.heads
}

// SetTraining switches between training mode (dropout active) and inference mode.
func (n *Network) SetTraining(training bool) {
	n.training = training
}

// Training reports the mode.
func (n *Network) Training() bool {
	return n.training
}

// Activations are the intermediate values of one forward pass, needed by Backward.
type Activations struct {
	// Logits are the combined (batch, classes) scores.
	Logits *mat.Dense

	input    *mat.Dense
	keep     []float64
	combiner layer.Combiner
}

// Forward applies dropout (training mode only), both heads and the combiner to the
// (batch, hidden) pooled representation.
func (n *Network) Forward(pooled *mat.Dense) (*Activations, error) {
	r, c := pooled.Dims()
	if r == 0 || c != n.opt.Hidden {
		return nil, errors.Wrapf(ErrShape, "pooled %dx%d, network hidden %d", r, c, n.opt.Hidden)
	}
	a := &Activations{input: pooled, combiner: n.combiner.Lay()}
	x := pooled
	if n.training && n.opt.Dropout > 0 {
		a.keep = make([]float64, r*c)
		scale := 1 / (1 - n.opt.Dropout)
		for i := range a.keep {
			if n.rng.Float64() >= n.opt.Dropout {
				a.keep[i] = scale
			}
		}
		x = mat.NewDense(r, c, nil)
		x.MulElem(pooled, mat.NewDense(r, c, a.keep))
	}
	a.input = x
	for i, h := range n.heads {
		a.combiner.Put(i, h.project(x))
	}
	a.Logits = a.combiner.Combined()
	return a, nil
}

// Backward accumulates the parameter gradients for the upstream gradient of the logits.
func (n *Network) Backward(a *Activations, grad *mat.Dense) error {
	gr, gc := grad.Dims()
	lr, lc := a.Logits.Dims()
	if gr != lr || gc != lc {
		return errors.Wrapf(ErrShape, "gradient %dx%d, logits %dx%d", gr, gc, lr, lc)
	}
	for i, h := range n.heads {
		g := a.combiner.Backward(i, grad)
		var gw mat.Dense
		gw.Mul(a.input.T(), g)
		h.GW.Add(h.GW, &gw)
		b := h.GB.RawRowView(0)
		for r := 0; r < gr; r++ {
			row := g.RawRowView(r)
			for j := range b {
				b[j] += row[j]
			}
		}
	}
	return nil
}

// Params lists the trainable matrices for the optimizer. Weights are decayed, biases not.
func (n *Network) Params() (o []learning.Param) {
	for _, h := range n.heads {
		o = append(o,
			learning.Param{Name: h.Name + ".weight", Value: h.W, Grad: h.GW, Decay: true},
			learning.Param{Name: h.Name + ".bias", Value: h.B, Grad: h.GB},
		)
	}
	return
}

// ZeroGrad resets the accumulated gradients.
func (n *Network) ZeroGrad() {
	for _, h := range n.heads {
		h.GW.Zero()
		h.GB.Zero()
	}
}
