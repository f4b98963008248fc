package trainer

import "context"

import "github.com/pkg/errors"

import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/loader"
import "github.com/neurlang/newsclassifier/net/hybrid"

// ErrThreshold is returned for a confidence threshold outside [0, 1].
var ErrThreshold = errors.New("confidence threshold must be in [0, 1]")

// PseudoLabel runs inference over the unlabeled samples and keeps those whose highest
// class probability is at least threshold, labeled with that class. It returns the
// kept samples, in input order, and the number of inspected samples.
func PseudoLabel(ctx context.Context, model *hybrid.Classifier, unlabeled datasets.Container,
	batchSize int, threshold float64) (datasets.Dataslice, int, error) {

	if threshold < 0 || threshold > 1 {
		return nil, 0, errors.Wrapf(ErrThreshold, "got %v", threshold)
	}
	l, err := loader.New(unlabeled, batchSize, false, 0)
	if err != nil {
		return nil, 0, err
	}
	net := model.Network
	defer net.SetTraining(net.Training())
	net.SetTraining(false)

	var out datasets.Dataslice
	var seen int
	pass := l.Pass()
	for b, ok := pass.Next(); ok; b, ok = pass.Next() {
		if err := ctx.Err(); err != nil {
			return nil, seen, err
		}
		a, err := model.Forward(b.IDs, b.Mask)
		if err != nil {
			return nil, seen, err
		}
		probs := hybrid.Softmax(a.Logits)
		for i, class := range hybrid.Argmax(a.Logits) {
			seen++
			if probs.At(i, class) < threshold {
				continue
			}
			out = append(out, datasets.Sample{IDs: b.IDs[i], Mask: b.Mask[i], Label: class})
		}
	}
	return out, seen, nil
}

