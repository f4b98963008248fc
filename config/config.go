// Package config holds the settings of the training and inference programs. A YAML
// file is decoded over Default(), then the environment overrides it.
package config

import "bytes"
import "io"
import "os"

import "github.com/pkg/errors"
import "gopkg.in/yaml.v3"

import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/encoder"
import "github.com/neurlang/newsclassifier/layer"
import "github.com/neurlang/newsclassifier/learning"
import "github.com/neurlang/newsclassifier/trainer"

// Environment variables read by ApplyEnv.
const (
	EnvToken   = "HF_TOKEN"
	EnvLibrary = "ONNXRUNTIME_SHARED_LIBRARY_PATH"
)

type Data struct {
	Train       string         `yaml:"train"`
	Test        string         `yaml:"test"`
	Unlabeled   string         `yaml:"unlabeled"`
	Field       datasets.Field `yaml:"field"`
	ValFraction float64        `yaml:"val_fraction"`
	Seed        int64          `yaml:"seed"`
}

type Tokenizer struct {
	Repo      string `yaml:"repo"`
	File      string `yaml:"file"`
	MaxLength int    `yaml:"max_length"`
	AuthToken string `yaml:"-"`
}

type Encoder struct {
	Model        string          `yaml:"model"`
	Library      string          `yaml:"library"`
	Pooling      encoder.Pooling `yaml:"pooling"`
	Device       string          `yaml:"device"`
	InterThreads int             `yaml:"inter_threads"`
	Cache        int             `yaml:"cache"`
}

type Model struct {
	Dropout  float64 `yaml:"dropout"`
	Combiner string  `yaml:"combiner"`
	Seed     int64   `yaml:"seed"`
	Snapshot string  `yaml:"snapshot"`
}

type Optimizer struct {
	LearningRate float64 `yaml:"learning_rate"`
	WeightDecay  float64 `yaml:"weight_decay"`
	GradClip     float64 `yaml:"grad_clip"`
}

type Train struct {
	Epochs    int       `yaml:"epochs"`
	BatchSize int       `yaml:"batch_size"`
	Optimizer Optimizer `yaml:"optimizer"`
}

type Semi struct {
	Epochs    int             `yaml:"epochs"`
	Threshold float64         `yaml:"threshold"`
	Epsilon   float64         `yaml:"epsilon"`
	Refresh   trainer.Refresh `yaml:"refresh"`
	Optimizer Optimizer       `yaml:"optimizer"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete program configuration.
type Config struct {
	Data      Data      `yaml:"data"`
	Tokenizer Tokenizer `yaml:"tokenizer"`
	Encoder   Encoder   `yaml:"encoder"`
	Model     Model     `yaml:"model"`
	Train     Train     `yaml:"train"`
	Semi      Semi      `yaml:"semi"`
	Log       Log       `yaml:"log"`
}

// Default returns the settings of the reference news classification run.
func Default() Config {
	return Config{
		Data: Data{
			Train:       "train.csv",
			Test:        "test.csv",
			Field:       datasets.FieldDescription,
			ValFraction: 0.2,
			Seed:        42,
		},
		Tokenizer: Tokenizer{
			Repo:      "bert-base-uncased",
			MaxLength: 128,
		},
		Encoder: Encoder{
			Model:        "bert-base-uncased.onnx",
			Pooling:      encoder.PoolPooler,
			Device:       "auto",
			InterThreads: 1,
		},
		Model: Model{
			Dropout:  0.3,
			Combiner: "sum",
			Seed:     42,
			Snapshot: "news.json.zlib",
		},
		Train: Train{
			Epochs:    3,
			BatchSize: 16,
			Optimizer: Optimizer{LearningRate: 1e-3, WeightDecay: 0.01},
		},
		Semi: Semi{
			Epochs:    10,
			Threshold: 0.9,
			Epsilon:   0.1,
			Refresh:   trainer.RefreshEpoch,
			Optimizer: Optimizer{LearningRate: 1e-3, WeightDecay: 0.01},
		},
		Log: Log{Level: "info", Format: "console"},
	}
}

// Load returns Default() overlaid with the YAML file at path (skipped when empty) and
// the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read config")
		}
		if err := cfg.Decode(bytes.NewReader(data)); err != nil {
			return cfg, errors.Wrap(err, path)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// Decode overlays YAML from r. Unknown keys are an error.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return errors.Wrap(err, "decode config")
	}
	return nil
}

// ApplyEnv reads the HuggingFace token and the ONNX Runtime library path.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvToken); v != "" {
		c.Tokenizer.AuthToken = v
	}
	if v := getenv(EnvLibrary); v != "" && c.Encoder.Library == "" {
		c.Encoder.Library = v
	}
}

// Hyper returns the optimizer hyperparameters of o.
func (o Optimizer) Hyper() learning.HyperParameters {
	h := learning.Default()
	h.LearningRate = o.LearningRate
	h.WeightDecay = o.WeightDecay
	h.GradClip = o.GradClip
	return h
}

// Validate rejects impossible values.
func (c Config) Validate() error {
	switch c.Data.Field {
	case datasets.FieldDescription, datasets.FieldTitle, datasets.FieldBoth:
	default:
		return errors.Errorf("data.field %q", c.Data.Field)
	}
	if c.Data.ValFraction <= 0 || c.Data.ValFraction >= 1 {
		return errors.Wrapf(datasets.ErrFraction, "data.val_fraction %v", c.Data.ValFraction)
	}
	if c.Tokenizer.Repo == "" && c.Tokenizer.File == "" {
		return errors.New("tokenizer: set repo or file")
	}
	if c.Tokenizer.MaxLength < 3 {
		return errors.Errorf("tokenizer.max_length %d below 3", c.Tokenizer.MaxLength)
	}
	switch c.Encoder.Pooling {
	case encoder.PoolCLS, encoder.PoolMean, encoder.PoolPooler:
	default:
		return errors.Errorf("encoder.pooling %q", c.Encoder.Pooling)
	}
	switch c.Encoder.Device {
	case "auto", "cpu", "cuda":
	default:
		return errors.Errorf("encoder.device %q", c.Encoder.Device)
	}
	if c.Encoder.Cache < 0 {
		return errors.Errorf("encoder.cache %d", c.Encoder.Cache)
	}
	if c.Model.Dropout < 0 || c.Model.Dropout >= 1 {
		return errors.Errorf("model.dropout %v outside [0,1)", c.Model.Dropout)
	}
	if _, err := layer.Named(c.Model.Combiner, 2); err != nil {
		return errors.Wrap(err, "model.combiner")
	}
	if c.Train.Epochs < 0 || c.Semi.Epochs < 0 {
		return errors.Errorf("epochs %d/%d", c.Train.Epochs, c.Semi.Epochs)
	}
	if c.Train.BatchSize < 1 {
		return errors.Errorf("train.batch_size %d", c.Train.BatchSize)
	}
	if err := c.Train.Optimizer.Hyper().Validate(); err != nil {
		return errors.Wrap(err, "train.optimizer")
	}
	if err := c.Semi.Optimizer.Hyper().Validate(); err != nil {
		return errors.Wrap(err, "semi.optimizer")
	}
	if c.Semi.Threshold < 0 || c.Semi.Threshold > 1 {
		return errors.Wrapf(trainer.ErrThreshold, "semi.threshold %v", c.Semi.Threshold)
	}
	if c.Semi.Epsilon < 0 {
		return errors.Errorf("semi.epsilon %v", c.Semi.Epsilon)
	}
	switch c.Semi.Refresh {
	case trainer.RefreshEpoch, trainer.RefreshBatch:
	default:
		return errors.Errorf("semi.refresh %q", c.Semi.Refresh)
	}
	return nil
}
