package hybrid

import "bytes"
import "math"
import "path/filepath"
import "testing"

import "github.com/stretchr/testify/require"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/learning"

type fixed struct{ hidden int }

func (f fixed) Hidden() int  { return f.hidden }
func (f fixed) Close() error { return nil }
func (f fixed) Encode(ids, mask []int64) ([]float32, error) {
	o := make([]float32, f.hidden)
	for i := range o {
		o[i] = float32(ids[0]) / float32(i+1)
	}
	return o, nil
}

func pooled() *mat.Dense {
	return mat.NewDense(3, 4, []float64{
		0.5, -1, 2, 0,
		1, 1, 1, 1,
		-0.3, 0.2, 0, 0.7,
	})
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{Hidden: 0, Classes: 2})
	require.ErrorIs(t, err, ErrShape)
	_, err = New(Options{Hidden: 2, Classes: 2, Dropout: 1})
	require.Error(t, err)
	_, err = New(Options{Hidden: 2, Classes: 2, Combiner: "product"})
	require.Error(t, err)
	labels, _ := datasets.NewLabels([]int{1, 2, 3}, nil)
	_, err = New(Options{Hidden: 2, Classes: 2, Labels: labels})
	require.ErrorIs(t, err, ErrShape)
}

func TestForwardSumsHeads(t *testing.T) {
	n := MustNew(Options{Hidden: 4, Classes: 3, Dropout: 0.3, Seed: 1})
	require.Equal(t, "sum", n.Combiner())
	x := pooled()
	a, err := n.Forward(x)
	require.NoError(t, err)

	want := n.heads[0].project(x)
	want.Add(want, n.heads[1].project(x))
	require.True(t, mat.EqualApprox(want, a.Logits, 1e-12))

	again, err := n.Forward(x)
	require.NoError(t, err)
	require.True(t, mat.Equal(a.Logits, again.Logits))

	_, err = n.Forward(mat.NewDense(1, 3, nil))
	require.ErrorIs(t, err, ErrShape)
}

func TestDropoutOnlyInTraining(t *testing.T) {
	n := MustNew(Options{Hidden: 4, Classes: 3, Dropout: 0.5, Seed: 2})
	x := mat.NewDense(64, 4, nil)
	for i := 0; i < 64; i++ {
		x.SetRow(i, []float64{1, 1, 1, 1})
	}
	inference, _ := n.Forward(x)
	n.SetTraining(true)
	require.True(t, n.Training())
	training, _ := n.Forward(x)
	require.False(t, mat.EqualApprox(inference.Logits, training.Logits, 1e-9))
	n.SetTraining(false)
	back, _ := n.Forward(x)
	require.True(t, mat.Equal(inference.Logits, back.Logits))
}

func loss(n *Network, x *mat.Dense, labels []int) float64 {
	a, _ := n.Forward(x)
	l, _ := CrossEntropy(a.Logits, labels)
	return l
}

func TestGradientMatchesFiniteDifference(t *testing.T) {
	for _, comb := range []string{"sum", "mean"} {
		n := MustNew(Options{Hidden: 4, Classes: 3, Combiner: comb, Seed: 3})
		x := pooled()
		labels := []int{0, 2, 1}
		a, err := n.Forward(x)
		require.NoError(t, err)
		_, g := CrossEntropy(a.Logits, labels)
		require.NoError(t, n.Backward(a, g))

		const h = 1e-6
		for _, hd := range n.heads {
			for _, pair := range [][2]*mat.Dense{{hd.W, hd.GW}, {hd.B, hd.GB}} {
				w, gw := pair[0].RawMatrix().Data, pair[1].RawMatrix().Data
				for i := range w {
					orig := w[i]
					w[i] = orig + h
					up := loss(n, x, labels)
					w[i] = orig - h
					down := loss(n, x, labels)
					w[i] = orig
					require.InDelta(t, (up-down)/(2*h), gw[i], 1e-6, comb)
				}
			}
		}
		n.ZeroGrad()
		for _, p := range n.Params() {
			require.Zero(t, mat.Norm(p.Grad, 2))
		}
	}
}

func TestTrainingReducesLoss(t *testing.T) {
	n := MustNew(Options{Hidden: 4, Classes: 3, Seed: 4})
	x := pooled()
	labels := []int{0, 2, 1}
	h := learning.Default()
	h.LearningRate = 0.05
	opt := learning.NewAdamW(h, n.Params())
	before := loss(n, x, labels)
	for i := 0; i < 200; i++ {
		a, _ := n.Forward(x)
		_, g := CrossEntropy(a.Logits, labels)
		require.NoError(t, n.Backward(a, g))
		opt.Step()
		opt.ZeroGrad()
	}
	require.Less(t, loss(n, x, labels), before)
	a, _ := n.Forward(x)
	require.Equal(t, 3, Correct(a.Logits, labels))
}

func TestLosses(t *testing.T) {
	l, g := CrossEntropy(mat.NewDense(2, 2, nil), []int{0, 1})
	require.InDelta(t, math.Ln2, l, 1e-12)
	require.Equal(t, []float64{-0.25, 0.25, 0.25, -0.25}, g.RawMatrix().Data)

	p := Softmax(mat.NewDense(1, 3, []float64{1000, 1000, 1000}))
	require.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, p.RawRowView(0), 1e-12)

	m, mg := MeanSquared(mat.NewDense(1, 2, []float64{1, 3}), mat.NewDense(1, 2, []float64{0, 1}))
	require.InDelta(t, 2.5, m, 1e-12)
	require.Equal(t, []float64{1, 2}, mg.RawMatrix().Data)

	require.Equal(t, []int{1, 0}, Argmax(mat.NewDense(2, 2, []float64{0, 1, 2, 2})))
}

func TestSnapshotRoundTrip(t *testing.T) {
	labels, err := datasets.NewLabels([]int{1, 2, 3}, []string{"World", "Sports", "Business"})
	require.NoError(t, err)
	n := MustNew(Options{Hidden: 4, Classes: 3, Dropout: 0.3, Combiner: "maxpool", Seed: 5, Labels: labels})

	var buf bytes.Buffer
	require.NoError(t, n.WriteZlibWeights(&buf))
	m, err := ReadZlibWeights(&buf)
	require.NoError(t, err)
	require.Equal(t, "maxpool", m.Combiner())
	require.Equal(t, 0.3, m.Dropout())
	require.Equal(t, labels.Values, m.Labels().Values)
	require.Equal(t, "Sports", m.Labels().Name(1))
	for i := range n.heads {
		require.Equal(t, n.heads[i].W.RawMatrix().Data, m.heads[i].W.RawMatrix().Data)
		require.Equal(t, n.heads[i].B.RawMatrix().Data, m.heads[i].B.RawMatrix().Data)
	}

	name := filepath.Join(t.TempDir(), "head.json.zlib")
	require.NoError(t, n.WriteZlibWeightsToFile(name))
	f, err := ReadZlibWeightsFromFile(name)
	require.NoError(t, err)
	a, _ := n.Forward(pooled())
	b, _ := f.Forward(pooled())
	require.True(t, mat.Equal(a.Logits, b.Logits))

	_, err = ReadZlibWeights(bytes.NewReader([]byte("not zlib")))
	require.Error(t, err)
}

func TestClassifier(t *testing.T) {
	n := MustNew(Options{Hidden: 4, Classes: 2, Seed: 6})
	_, err := NewClassifier(fixed{hidden: 3}, n)
	require.ErrorIs(t, err, ErrShape)

	c, err := NewClassifier(fixed{hidden: 4}, n)
	require.NoError(t, err)
	ids := [][]int64{{2, 0}, {4, 0}}
	mask := [][]int64{{1, 0}, {1, 0}}
	p, err := c.Pool(ids, mask)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{2, 1, 2.0 / 3, 0.5}, p.RawRowView(0), 1e-6)

	a, err := c.Forward(ids, mask)
	require.NoError(t, err)
	r, cols := a.Logits.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, cols)

	_, err = c.Forward(nil, nil)
	require.ErrorIs(t, err, ErrShape)
	require.NoError(t, c.Close())
}
