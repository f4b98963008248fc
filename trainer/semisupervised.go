package trainer

import "context"
import "math/rand"
import "time"

import "github.com/pkg/errors"
import "go.uber.org/zap"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/diag"
import "github.com/neurlang/newsclassifier/learning"
import "github.com/neurlang/newsclassifier/loader"
import "github.com/neurlang/newsclassifier/metrics"
import "github.com/neurlang/newsclassifier/net/hybrid"

// Refresh says how often the pseudo-label set is regenerated.
type Refresh string

// RefreshEpoch regenerates the pseudo-labels once at the start of every epoch.
const RefreshEpoch Refresh = "epoch"

// RefreshBatch regenerates the pseudo-labels before every labeled batch.
const RefreshBatch Refresh = "batch"

// SemiConfig configures semi-supervised training.
type SemiConfig struct {
	Epochs int
	Hyper  learning.HyperParameters

	// Threshold is the pseudo-label confidence threshold in [0, 1].
	Threshold float64

	// Epsilon scales the Gaussian noise added to the pooled representation for the
	// consistency loss.
	Epsilon float64

	Refresh Refresh

	// BatchSize bounds the rows of one forward pass over the pseudo-labeled set.
	BatchSize int

	Seed   int64
	Names  []string
	Logger *zap.Logger
}

// SemiEpochStats holds per-batch mean losses of one epoch and the validation report.
type SemiEpochStats struct {
	Epoch       int
	Labeled     float64
	Pseudo      float64
	Consistency float64
	Total       float64
	Accuracy    float64
	PseudoSize  int
	Refreshes   int // pseudo-labeling passes over the unlabeled pool
	Batches     int
	Report      *metrics.Report
	Duration    time.Duration
}

// SemiSupervised trains with a labeled loss, a pseudo-label loss and a consistency loss.
type SemiSupervised struct {
	model *hybrid.Classifier
	opt   *learning.AdamW
	cfg   SemiConfig
	rng   *rand.Rand
	log   *zap.Logger
}

// NewSemiSupervised validates cfg and creates the optimizer.
func NewSemiSupervised(model *hybrid.Classifier, cfg SemiConfig) (*SemiSupervised, error) {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, errors.Wrapf(ErrThreshold, "got %v", cfg.Threshold)
	}
	if cfg.Epsilon < 0 {
		return nil, errors.Errorf("noise magnitude %v is negative", cfg.Epsilon)
	}
	switch cfg.Refresh {
	case "":
		cfg.Refresh = RefreshEpoch
	case RefreshEpoch, RefreshBatch:
	default:
		return nil, errors.Errorf("unknown refresh policy %q", cfg.Refresh)
	}
	if cfg.BatchSize < 1 {
		return nil, errors.Wrapf(loader.ErrBatchSize, "pseudo batch %d", cfg.BatchSize)
	}
	if err := cfg.Hyper.Validate(); err != nil {
		return nil, err
	}
	return &SemiSupervised{
		model: model,
		opt:   learning.NewAdamW(cfg.Hyper, model.Network.Params()),
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		log:   diag.OrNop(cfg.Logger),
	}, nil
}

// Train runs cfg.Epochs epochs over the labeled loader, then evaluates on val after
// each epoch. val may be nil.
func (s *SemiSupervised) Train(ctx context.Context, train *loader.Loader, unlabeled datasets.Container,
	val *loader.Loader) ([]SemiEpochStats, error) {

	var out []SemiEpochStats
	eval := NewEvaluator(s.model, s.cfg.Names, s.log)
	for epoch := 1; epoch <= s.cfg.Epochs; epoch++ {
		start := time.Now()
		st, err := s.epoch(ctx, train, unlabeled)
		if err != nil {
			return out, errors.Wrapf(err, "epoch %d", epoch)
		}
		st.Epoch = epoch
		if val != nil {
			if st.Report, err = eval.Evaluate(ctx, val); err != nil {
				return out, errors.Wrapf(err, "epoch %d evaluation", epoch)
			}
		}
		st.Duration = time.Since(start)
		out = append(out, st)
		fields := []zap.Field{
			zap.Int("epoch", epoch),
			zap.Int("epochs", s.cfg.Epochs),
			zap.Float64("labeled_loss", st.Labeled),
			zap.Float64("pseudo_loss", st.Pseudo),
			zap.Float64("consistency_loss", st.Consistency),
			zap.Float64("loss", st.Total),
			zap.Float64("train_accuracy", st.Accuracy),
			zap.Int("pseudo_labels", st.PseudoSize),
			zap.Duration("duration", st.Duration),
		}
		if st.Report != nil {
			fields = append(fields, zap.Float64("val_accuracy", st.Report.Accuracy),
				zap.Float64("val_f1_weighted", st.Report.Weighted.F1))
		}
		s.log.Info("semi-supervised epoch", fields...)
	}
	return out, nil
}

func (s *SemiSupervised) pseudo(ctx context.Context, unlabeled datasets.Container, st *SemiEpochStats) (datasets.Dataslice, error) {
	if unlabeled == nil || unlabeled.Len() == 0 {
		return nil, nil
	}
	set, seen, err := PseudoLabel(ctx, s.model, unlabeled, s.cfg.BatchSize, s.cfg.Threshold)
	if err != nil {
		return nil, errors.Wrap(err, "pseudo-labeling")
	}
	st.Refreshes++
	s.log.Debug("pseudo-labels", zap.Int("kept", len(set)), zap.Int("inspected", seen))
	return set, nil
}

func (s *SemiSupervised) epoch(ctx context.Context, train *loader.Loader, unlabeled datasets.Container) (st SemiEpochStats, err error) {
	net := s.model.Network
	defer net.SetTraining(false)
	s.opt.ZeroGrad()

	var set datasets.Dataslice
	if s.cfg.Refresh == RefreshEpoch {
		if set, err = s.pseudo(ctx, unlabeled, &st); err != nil {
			return st, err
		}
	}
	var correct, samples int
	pass := train.Pass()
	for b, ok := pass.Next(); ok; b, ok = pass.Next() {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if err := labeled(b, net.Classes()); err != nil {
			return st, err
		}
		if s.cfg.Refresh == RefreshBatch {
			if set, err = s.pseudo(ctx, unlabeled, &st); err != nil {
				return st, err
			}
		}
		net.SetTraining(true)

		pooled, err := s.model.Pool(b.IDs, b.Mask)
		if err != nil {
			return st, err
		}
		a, err := net.Forward(pooled)
		if err != nil {
			return st, err
		}
		labeledLoss, grad := hybrid.CrossEntropy(a.Logits, b.Labels)
		if err := net.Backward(a, grad); err != nil {
			return st, err
		}

		pseudoLoss, err := s.pseudoLoss(set)
		if err != nil {
			return st, err
		}

		consistency, err := s.consistency(pooled)
		if err != nil {
			return st, err
		}

		s.opt.Step()
		s.opt.ZeroGrad()

		st.Labeled += labeledLoss
		st.Pseudo += pseudoLoss
		st.Consistency += consistency
		st.Total += labeledLoss + pseudoLoss + consistency
		st.Batches++
		correct += hybrid.Correct(a.Logits, b.Labels)
		samples += b.Len()
	}
	if st.Batches > 0 {
		n := float64(st.Batches)
		st.Labeled /= n
		st.Pseudo /= n
		st.Consistency /= n
		st.Total /= n
	}
	if samples > 0 {
		st.Accuracy = float64(correct) / float64(samples)
	}
	st.PseudoSize = len(set)
	return st, nil
}

// pseudoLoss accumulates the gradient of the cross-entropy averaged over the whole
// pseudo-labeled set. An empty set contributes 0 and no gradient.
func (s *SemiSupervised) pseudoLoss(set datasets.Dataslice) (float64, error) {
	if len(set) == 0 {
		return 0, nil
	}
	l, err := loader.New(set, s.cfg.BatchSize, false, 0)
	if err != nil {
		return 0, err
	}
	var loss float64
	total := float64(len(set))
	pass := l.Pass()
	for b, ok := pass.Next(); ok; b, ok = pass.Next() {
		a, err := s.model.Forward(b.IDs, b.Mask)
		if err != nil {
			return 0, err
		}
		part, grad := hybrid.CrossEntropy(a.Logits, b.Labels)
		w := float64(b.Len()) / total
		grad.Scale(w, grad)
		if err := s.model.Network.Backward(a, grad); err != nil {
			return 0, err
		}
		loss += w * part
	}
	return loss, nil
}

// consistency accumulates the gradient of the mean squared difference between the
// logits of the pooled representation and of its noised copy. Both passes run with
// dropout off, the noise is the only difference between them.
func (s *SemiSupervised) consistency(pooled *mat.Dense) (float64, error) {
	net := s.model.Network
	defer net.SetTraining(net.Training())
	net.SetTraining(false)
	r, c := pooled.Dims()
	noisy := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		in, out := pooled.RawRowView(i), noisy.RawRowView(i)
		for j := range out {
			out[j] = in[j] + s.cfg.Epsilon*s.rng.NormFloat64()
		}
	}
	clean, err := net.Forward(pooled)
	if err != nil {
		return 0, err
	}
	perturbed, err := net.Forward(noisy)
	if err != nil {
		return 0, err
	}
	loss, grad := hybrid.MeanSquared(clean.Logits, perturbed.Logits)
	if err := net.Backward(clean, grad); err != nil {
		return 0, err
	}
	grad.Scale(-1, grad)
	if err := net.Backward(perturbed, grad); err != nil {
		return 0, err
	}
	return loss, nil
}
