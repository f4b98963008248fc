package trainer

import "context"
import "time"

import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/newsclassifier/diag"
import "github.com/neurlang/newsclassifier/learning"
import "github.com/neurlang/newsclassifier/loader"
import "github.com/neurlang/newsclassifier/net/hybrid"

// Config configures supervised training.
type Config struct {
	Epochs int
	Hyper  learning.HyperParameters
	Logger *zap.Logger
}

// PhaseStats aggregates one training or validation phase. Loss is the mean of the
// per-batch mean losses, Accuracy is Correct / Samples.
type PhaseStats struct {
	Loss     float64
	Accuracy float64
	Samples  int
	Correct  int
	Batches  int
}

func (p *PhaseStats) add(loss float64, correct, samples int) {
	p.Loss += loss
	p.Correct += correct
	p.Samples += samples
	p.Batches++
}

func (p *PhaseStats) finish() {
	if p.Batches > 0 {
		p.Loss /= float64(p.Batches)
	}
	if p.Samples > 0 {
		p.Accuracy = float64(p.Correct) / float64(p.Samples)
	}
}

// EpochStats holds the outcome of one epoch. Validation is zero when no validation
// loader was given.
type EpochStats struct {
	Epoch      int
	Train      PhaseStats
	Validation PhaseStats
	Duration   time.Duration
}

// Trainer fine-tunes the network of a classifier with AdamW and cross-entropy.
type Trainer struct {
	model *hybrid.Classifier
	opt   *learning.AdamW
	cfg   Config
	log   *zap.Logger
}

// New creates a trainer owning the optimizer state of the model's network.
func New(model *hybrid.Classifier, cfg Config) (*Trainer, error) {
	if cfg.Epochs < 0 {
		return nil, errors.Errorf("epochs %d", cfg.Epochs)
	}
	if err := cfg.Hyper.Validate(); err != nil {
		return nil, err
	}
	return &Trainer{
		model: model,
		opt:   learning.NewAdamW(cfg.Hyper, model.Network.Params()),
		cfg:   cfg,
		log:   diag.OrNop(cfg.Logger),
	}, nil
}

// Train runs cfg.Epochs epochs, each a training phase over train followed by a
// validation phase over val. val may be nil.
func (t *Trainer) Train(ctx context.Context, train, val *loader.Loader) ([]EpochStats, error) {
	var out []EpochStats
	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		start := time.Now()
		st := EpochStats{Epoch: epoch}
		var err error
		if st.Train, err = t.TrainEpoch(ctx, train); err != nil {
			return out, errors.Wrapf(err, "epoch %d training", epoch)
		}
		if val != nil {
			if st.Validation, err = Validate(ctx, t.model, val); err != nil {
				return out, errors.Wrapf(err, "epoch %d validation", epoch)
			}
		}
		st.Duration = time.Since(start)
		out = append(out, st)
		t.log.Info("epoch",
			zap.Int("epoch", epoch),
			zap.Int("epochs", t.cfg.Epochs),
			zap.Float64("train_loss", st.Train.Loss),
			zap.Float64("train_accuracy", st.Train.Accuracy),
			zap.Float64("val_loss", st.Validation.Loss),
			zap.Float64("val_accuracy", st.Validation.Accuracy),
			zap.Duration("duration", st.Duration))
	}
	return out, nil
}

// TrainEpoch runs one training phase: per batch forward, loss, backward, one optimizer
// step and a gradient reset.
func (t *Trainer) TrainEpoch(ctx context.Context, l *loader.Loader) (st PhaseStats, err error) {
	net := t.model.Network
	net.SetTraining(true)
	defer net.SetTraining(false)
	t.opt.ZeroGrad()

	pass := l.Pass()
	for b, ok := pass.Next(); ok; b, ok = pass.Next() {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if err := labeled(b, net.Classes()); err != nil {
			return st, err
		}
		a, err := t.model.Forward(b.IDs, b.Mask)
		if err != nil {
			return st, err
		}
		loss, grad := hybrid.CrossEntropy(a.Logits, b.Labels)
		if err := net.Backward(a, grad); err != nil {
			return st, err
		}
		t.opt.Step()
		t.opt.ZeroGrad()
		st.add(loss, hybrid.Correct(a.Logits, b.Labels), b.Len())
		t.log.Debug("batch", zap.Int("batch", st.Batches), zap.Float64("loss", loss))
	}
	st.finish()
	return st, nil
}

// Validate computes loss and accuracy over l in inference mode without touching the
// parameters.
func Validate(ctx context.Context, model *hybrid.Classifier, l *loader.Loader) (st PhaseStats, err error) {
	net := model.Network
	defer net.SetTraining(net.Training())
	net.SetTraining(false)

	pass := l.Pass()
	for b, ok := pass.Next(); ok; b, ok = pass.Next() {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if err := labeled(b, net.Classes()); err != nil {
			return st, err
		}
		a, err := model.Forward(b.IDs, b.Mask)
		if err != nil {
			return st, err
		}
		loss, _ := hybrid.CrossEntropy(a.Logits, b.Labels)
		st.add(loss, hybrid.Correct(a.Logits, b.Labels), b.Len())
	}
	st.finish()
	return st, nil
}

// Optimizer exposes the optimizer state, for instance to report its step count.
func (t *Trainer) Optimizer() *learning.AdamW {
	return t.opt
}

func labeled(b loader.Batch, classes int) error {
	for i, y := range b.Labels {
		if y < 0 || y >= classes {
			return errors.Errorf("sample %d has label %d, want a class in [0,%d)", b.Index[i], y, classes)
		}
	}
	return nil
}
