// Package pipeline wires configuration, tokenizer, encoder and network together for
// the command line programs.
package pipeline

import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/newsclassifier/config"
import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/datasets/news"
import "github.com/neurlang/newsclassifier/device"
import "github.com/neurlang/newsclassifier/diag"
import "github.com/neurlang/newsclassifier/encoder"
import "github.com/neurlang/newsclassifier/loader"
import "github.com/neurlang/newsclassifier/net/hybrid"
import "github.com/neurlang/newsclassifier/tokenizer"

// Pipeline holds the pretrained components shared by training, evaluation and inference.
type Pipeline struct {
	Config    config.Config
	Log       *zap.Logger
	Device    device.Context
	Tokenizer *tokenizer.Adapter
	Encoder   encoder.Encoder
	Labels    *datasets.Labels
}

// Open detects the device and loads the tokenizer and the encoder.
func Open(cfg config.Config, log *zap.Logger) (*Pipeline, error) {
	log = diag.OrNop(log)
	dev, err := device.Detect(cfg.Encoder.Device)
	if err != nil {
		return nil, errors.Wrap(err, "device")
	}
	log.Info("device", zap.Stringer("device", dev))

	tok, err := tokenizer.Load(tokenizer.Source{
		Repo:      cfg.Tokenizer.Repo,
		File:      cfg.Tokenizer.File,
		AuthToken: cfg.Tokenizer.AuthToken,
	}, cfg.Tokenizer.MaxLength)
	if err != nil {
		return nil, err
	}
	log.Info("tokenizer", zap.String("repo", cfg.Tokenizer.Repo), zap.String("file", cfg.Tokenizer.File),
		zap.Int("pad", tok.Special().Pad), zap.Int("cls", tok.Special().CLS), zap.Int("sep", tok.Special().SEP))

	enc, err := encoder.NewONNX(encoder.Options{
		Model:        cfg.Encoder.Model,
		Library:      cfg.Encoder.Library,
		SeqLen:       cfg.Tokenizer.MaxLength,
		Pooling:      cfg.Encoder.Pooling,
		InterThreads: cfg.Encoder.InterThreads,
		Device:       dev,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoder")
	}
	log.Info("encoder", zap.String("model", cfg.Encoder.Model), zap.Int("hidden", enc.Hidden()),
		zap.String("pooling", string(cfg.Encoder.Pooling)))

	return &Pipeline{
		Config:    cfg,
		Log:       log,
		Device:    dev,
		Tokenizer: tok,
		Encoder:   encoder.NewCached(enc, cfg.Encoder.Cache),
		Labels:    news.Labels(),
	}, nil
}

// Records reads and cleans a CSV and logs its summary. Labeled files reject labels
// outside p.Labels.
func (p *Pipeline) Records(path string, unlabeled bool) ([]datasets.Record, error) {
	records, err := news.ReadFile(path, news.Options{Unlabeled: unlabeled, Labels: p.Labels})
	if err != nil {
		return nil, err
	}
	records = datasets.CleanAll(records)
	summary := datasets.Summarize(records)
	if unlabeled {
		summary.Labels = nil
	}
	p.Log.Info("dataset", zap.String("path", path), zap.Object("summary", summary))
	return records, nil
}

// Samples tokenizes records. Unlabeled samples get datasets.Unlabeled.
func (p *Pipeline) Samples(records []datasets.Record, unlabeled bool) (datasets.Dataslice, error) {
	var classes []int
	if !unlabeled {
		var err error
		if classes, err = p.Labels.Classes(records); err != nil {
			return nil, err
		}
	}
	return p.Tokenizer.Tokenize(datasets.Texts(records, p.Config.Data.Field), classes, p.Config.Tokenizer.MaxLength)
}

// Loader tokenizes records and batches them with the training batch size.
func (p *Pipeline) Loader(records []datasets.Record, shuffle bool) (*loader.Loader, error) {
	data, err := p.Samples(records, false)
	if err != nil {
		return nil, err
	}
	return loader.New(data, p.Config.Train.BatchSize, shuffle, p.Config.Data.Seed)
}

// NewNetwork creates a freshly initialized network sized for the encoder and labels.
func (p *Pipeline) NewNetwork() (*hybrid.Network, error) {
	return hybrid.New(hybrid.Options{
		Hidden:   p.Encoder.Hidden(),
		Classes:  p.Labels.Len(),
		Dropout:  p.Config.Model.Dropout,
		Combiner: p.Config.Model.Combiner,
		Seed:     p.Config.Model.Seed,
		Labels:   p.Labels,
	})
}

// Classifier composes the encoder with net. The label set stored in net, if any,
// replaces p.Labels.
func (p *Pipeline) Classifier(net *hybrid.Network) (*hybrid.Classifier, error) {
	if l := net.Labels(); l != nil {
		p.Labels = l
	}
	return hybrid.NewClassifier(p.Encoder, net)
}

// Close releases the encoder.
func (p *Pipeline) Close() error {
	if p.Encoder == nil {
		return nil
	}
	return p.Encoder.Close()
}
