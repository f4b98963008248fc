package maxpool

import "gonum.org/v1/gonum/mat"

// Put inserts the logits of head n.
func (f *MaxPool) Put(n int, logits *mat.Dense) {
	f.heads[n] = logits
	f.winner = nil
}

// Combined returns the elementwise maximum of the heads. Ties go to the lower head.
func (f *MaxPool) Combined() *mat.Dense {
	var o *mat.Dense
	for n, h := range f.heads {
		if h == nil {
			continue
		}
		if o == nil {
			o = mat.DenseCopyOf(h)
			r, c := h.Dims()
			f.winner = make([][]int, r)
			for i := range f.winner {
				f.winner[i] = make([]int, c)
				for j := range f.winner[i] {
					f.winner[i][j] = n
				}
			}
			continue
		}
		r, c := h.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if v := h.At(i, j); v > o.At(i, j) {
					o.Set(i, j, v)
					f.winner[i][j] = n
				}
			}
		}
	}
	return o
}

// Backward routes the gradient of each cell to the head that won it.
func (f *MaxPool) Backward(n int, grad *mat.Dense) *mat.Dense {
	if f.winner == nil {
		f.Combined()
	}
	r, c := grad.Dims()
	o := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if f.winner[i][j] == n {
				o.Set(i, j, grad.At(i, j))
			}
		}
	}
	return o
}
