package trainer

import "context"

import "go.uber.org/zap"

import "github.com/neurlang/newsclassifier/diag"
import "github.com/neurlang/newsclassifier/loader"
import "github.com/neurlang/newsclassifier/metrics"
import "github.com/neurlang/newsclassifier/net/hybrid"

// Evaluator runs inference-only passes and turns them into a metrics report.
type Evaluator struct {
	model *hybrid.Classifier
	names []string
	log   *zap.Logger
}

// NewEvaluator creates an evaluator. names are the class display names, may be nil.
func NewEvaluator(model *hybrid.Classifier, names []string, logger *zap.Logger) *Evaluator {
	return &Evaluator{model: model, names: names, log: diag.OrNop(logger)}
}

// Predict collects the true labels and the predictions of every sample of one pass,
// in the iteration order of the loader.
func (e *Evaluator) Predict(ctx context.Context, l *loader.Loader) (labels, preds []int, err error) {
	net := e.model.Network
	defer net.SetTraining(net.Training())
	net.SetTraining(false)

	labels = make([]int, 0, l.Samples())
	preds = make([]int, 0, l.Samples())
	pass := l.Pass()
	for b, ok := pass.Next(); ok; b, ok = pass.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		a, err := e.model.Forward(b.IDs, b.Mask)
		if err != nil {
			return nil, nil, err
		}
		labels = append(labels, b.Labels...)
		preds = append(preds, hybrid.Argmax(a.Logits)...)
	}
	return labels, preds, nil
}

// Evaluate computes the metrics report of one pass over l.
func (e *Evaluator) Evaluate(ctx context.Context, l *loader.Loader) (*metrics.Report, error) {
	labels, preds, err := e.Predict(ctx, l)
	if err != nil {
		return nil, err
	}
	r, err := metrics.Compute(labels, preds, e.model.Network.Classes(), e.names)
	if err != nil {
		return nil, err
	}
	e.log.Info("evaluation",
		zap.Int("samples", r.Total),
		zap.Float64("accuracy", r.Accuracy),
		zap.Float64("precision_weighted", r.Weighted.Precision),
		zap.Float64("recall_weighted", r.Weighted.Recall),
		zap.Float64("f1_weighted", r.Weighted.F1))
	return r, nil
}
