// Package encoder runs a frozen pretrained transformer and pools its output into one
// vector per sequence.
package encoder

// Encoder maps one tokenized sequence to its pooled representation.
type Encoder interface {
	// Hidden returns the length of the pooled vector.
	Hidden() int

	// Encode returns the pooled representation of ids. ids and mask have the same length.
	Encode(ids, mask []int64) ([]float32, error)

	// Close releases the runtime resources.
	Close() error
}

// Pooling selects how token states become one vector.
type Pooling string

// PoolCLS takes the state of the first token.
const PoolCLS Pooling = "cls"

// PoolMean averages the states of the unmasked tokens.
const PoolMean Pooling = "mean"

// PoolPooler reads the model's own pooler output.
const PoolPooler Pooling = "pooler"

// Pool reduces a row major (seq, hidden) matrix of token states.
func Pool(states []float32, mask []int64, hidden int, how Pooling) []float32 {
	var out = make([]float32, hidden)
	switch how {
	case PoolMean:
		var n float32
		for t := range mask {
			if mask[t] == 0 || (t+1)*hidden > len(states) {
				continue
			}
			row := states[t*hidden : (t+1)*hidden]
			for j := range out {
				out[j] += row[j]
			}
			n++
		}
		if n > 0 {
			for j := range out {
				out[j] /= n
			}
		}
	default:
		copy(out, states)
	}
	return out
}
