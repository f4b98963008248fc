// Package layer defines the interface of the strategies combining classifier head outputs.
package layer

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

// Combiner combines the logits of several heads, stores them internally, and combines
// them to form the output logits. One combiner serves one forward and backward pass.
type Combiner interface {

	// Put stores the (batch, classes) logits of head n.
	Put(n int, logits *mat.Dense)

	// Combined returns the combined (batch, classes) logits of the heads put so far.
	Combined() *mat.Dense

	// Backward returns the gradient reaching head n given the gradient of the
	// combined logits.
	Backward(n int, grad *mat.Dense) *mat.Dense
}

// ErrHeads is returned by layer constructors for fewer than one head.
var ErrHeads = errors.New("combiner needs at least one head")
