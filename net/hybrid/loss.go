package hybrid

import "math"

import "gonum.org/v1/gonum/mat"

// Softmax returns the row-wise softmax of logits.
func Softmax(logits *mat.Dense) *mat.Dense {
	r, c := logits.Dims()
	o := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		in := logits.RawRowView(i)
		out := o.RawRowView(i)
		max := math.Inf(-1)
		for _, v := range in {
			if v > max {
				max = v
			}
		}
		var sum float64
		for j, v := range in {
			out[j] = math.Exp(v - max)
			sum += out[j]
		}
		for j := range out {
			out[j] /= sum
		}
	}
	return o
}

// Argmax returns the index of the largest logit of every row. Ties go to the lower class.
func Argmax(logits *mat.Dense) []int {
	r, _ := logits.Dims()
	o := make([]int, r)
	for i := 0; i < r; i++ {
		row := logits.RawRowView(i)
		for j := range row {
			if row[j] > row[o[i]] {
				o[i] = j
			}
		}
	}
	return o
}

// CrossEntropy returns the mean softmax cross-entropy of logits against class labels
// and its gradient with respect to the logits.
func CrossEntropy(logits *mat.Dense, labels []int) (loss float64, grad *mat.Dense) {
	p := Softmax(logits)
	r, _ := p.Dims()
	for i := 0; i < r; i++ {
		row := p.RawRowView(i)
		loss -= math.Log(math.Max(row[labels[i]], 1e-300))
		row[labels[i]] -= 1
	}
	loss /= float64(r)
	p.Scale(1/float64(r), p)
	return loss, p
}

// MeanSquared returns the mean over all cells of (a-b)² and its gradient with respect
// to a. The gradient with respect to b is the negation.
func MeanSquared(a, b *mat.Dense) (loss float64, grad *mat.Dense) {
	r, c := a.Dims()
	grad = mat.NewDense(r, c, nil)
	grad.Sub(a, b)
	n := float64(r * c)
	for _, d := range grad.RawMatrix().Data {
		loss += d * d
	}
	grad.Scale(2/n, grad)
	return loss / n, grad
}

// Correct counts the rows whose arg-max equals the label.
func Correct(logits *mat.Dense, labels []int) (n int) {
	for i, p := range Argmax(logits) {
		if p == labels[i] {
			n++
		}
	}
	return
}
