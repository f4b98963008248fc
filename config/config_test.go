package config

import "os"
import "path/filepath"
import "strings"
import "testing"

import "github.com/stretchr/testify/require"

import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/trainer"

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 0.3, cfg.Model.Dropout)
	require.Equal(t, trainer.RefreshEpoch, cfg.Semi.Refresh)
}

func TestYAMLOverridesDefaults(t *testing.T) {
	name := filepath.Join(t.TempDir(), "news.yaml")
	require.NoError(t, os.WriteFile(name, []byte(`
data:
  train: ag/train.csv
  field: both
train:
  epochs: 5
  optimizer:
    learning_rate: 0.0005
semi:
  refresh: batch
model:
  combiner: mean
`), 0o644))
	cfg, err := Load(name)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, "ag/train.csv", cfg.Data.Train)
	require.Equal(t, datasets.FieldBoth, cfg.Data.Field)
	require.Equal(t, 5, cfg.Train.Epochs)
	require.Equal(t, 0.0005, cfg.Train.Optimizer.Hyper().LearningRate)
	require.Equal(t, 0.01, cfg.Train.Optimizer.WeightDecay)
	require.Equal(t, trainer.RefreshBatch, cfg.Semi.Refresh)
	require.Equal(t, "mean", cfg.Model.Combiner)
	require.Equal(t, "test.csv", cfg.Data.Test)
	require.Equal(t, 16, cfg.Train.BatchSize)
}

func TestDecodeErrors(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.Decode(strings.NewReader("train:\n  epoch: 5\n")))
	require.NoError(t, cfg.Decode(strings.NewReader("")))

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{EnvToken: "hf_secret", EnvLibrary: "/opt/ort/libonnxruntime.so"}
	cfg.ApplyEnv(func(k string) string { return env[k] })
	require.Equal(t, "hf_secret", cfg.Tokenizer.AuthToken)
	require.Equal(t, "/opt/ort/libonnxruntime.so", cfg.Encoder.Library)

	cfg.Encoder.Library = "./lib.so"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	require.Equal(t, "./lib.so", cfg.Encoder.Library)
}

func TestValidateRejects(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"fraction":  func(c *Config) { c.Data.ValFraction = 1 },
		"field":     func(c *Config) { c.Data.Field = "body" },
		"tokenizer": func(c *Config) { c.Tokenizer.Repo = "" },
		"length":    func(c *Config) { c.Tokenizer.MaxLength = 2 },
		"pooling":   func(c *Config) { c.Encoder.Pooling = "max" },
		"device":    func(c *Config) { c.Encoder.Device = "tpu" },
		"dropout":   func(c *Config) { c.Model.Dropout = 1 },
		"combiner":  func(c *Config) { c.Model.Combiner = "product" },
		"batch":     func(c *Config) { c.Train.BatchSize = 0 },
		"lr":        func(c *Config) { c.Train.Optimizer.LearningRate = 0 },
		"threshold": func(c *Config) { c.Semi.Threshold = 1.1 },
		"epsilon":   func(c *Config) { c.Semi.Epsilon = -0.1 },
		"refresh":   func(c *Config) { c.Semi.Refresh = "never" },
	} {
		cfg := Default()
		mutate(&cfg)
		require.Error(t, cfg.Validate(), name)
	}
}
