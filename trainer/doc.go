// Package trainer provides high-level training orchestration for the hybrid classifier.
// It runs supervised epochs over batch loaders, evaluates a model into a metrics
// report, generates pseudo-labels from unlabeled samples and extends training
// semi-supervised with pseudo-label and consistency losses.
package trainer
