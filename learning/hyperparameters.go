package learning

import "github.com/pkg/errors"

// HyperParameters configures the AdamW optimizer.
type HyperParameters struct {
	LearningRate float64 // step size
	Beta1        float64 // first moment decay, default 0.9
	Beta2        float64 // second moment decay, default 0.999
	Eps          float64 // denominator stabilizer, default 1e-8
	WeightDecay  float64 // decoupled decay of the weights, 0 disables
	GradClip     float64 // maximum global gradient norm, 0 disables
}

// Default returns hyperparameters suited to training a linear head on frozen features.
func Default() HyperParameters {
	return HyperParameters{
		LearningRate: 1e-3,
		Beta1:        0.9,
		Beta2:        0.999,
		Eps:          1e-8,
		WeightDecay:  0.01,
	}
}

// Validate rejects values for which the optimizer diverges or divides by zero.
func (h HyperParameters) Validate() error {
	switch {
	case h.LearningRate <= 0:
		return errors.Errorf("learning rate %v must be positive", h.LearningRate)
	case h.Beta1 < 0 || h.Beta1 >= 1:
		return errors.Errorf("beta1 %v outside [0,1)", h.Beta1)
	case h.Beta2 < 0 || h.Beta2 >= 1:
		return errors.Errorf("beta2 %v outside [0,1)", h.Beta2)
	case h.Eps <= 0:
		return errors.Errorf("eps %v must be positive", h.Eps)
	case h.WeightDecay < 0:
		return errors.Errorf("weight decay %v is negative", h.WeightDecay)
	case h.GradClip < 0:
		return errors.Errorf("gradient clip %v is negative", h.GradClip)
	}
	return nil
}
