package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every hyperparameter of the pipeline in one explicit
// struct. Components receive it (or the fields they need) as arguments;
// there is no process-wide hyperparameter state.
type Config struct {
	// Text pipeline
	VocabSize int `yaml:"vocab_size"` // maximum number of ranked tokens
	MaxLen    int `yaml:"max_len"`    // fixed padded sequence length

	// Model
	EmbeddingSize int  `yaml:"embedding_size"`
	LSTMSize      int  `yaml:"lstm_size"`
	UseLSTM       bool `yaml:"use_lstm"` // false = embeddings-only variant

	// Training
	LearningRate  float64 `yaml:"learning_rate"`
	BatchSize     int     `yaml:"batch_size"`
	Epochs        int     `yaml:"epochs"`
	ValFraction   float64 `yaml:"val_fraction"`
	Seed          int64   `yaml:"seed"`
	Optimizer     string  `yaml:"optimizer"` // "adam" or "sgd"
	GradClipNorm  float64 `yaml:"grad_clip_norm"`

	// Early stopping / plateau policy
	EarlyStoppingPatience int     `yaml:"early_stopping_patience"`
	ReduceLRPatience      int     `yaml:"reduce_lr_patience"`
	ReduceLRFactor        float64 `yaml:"reduce_lr_factor"`
	MinLearningRate       float64 `yaml:"min_learning_rate"`
}

// DefaultConfig returns defaults sized for the Quora question-pair
// exercise: 50K vocabulary, 25-token window, small embeddings.
func DefaultConfig() Config {
	return Config{
		VocabSize: 50000,
		MaxLen:    25,

		EmbeddingSize: 32,
		LSTMSize:      64,
		UseLSTM:       false,

		LearningRate: 0.001,
		BatchSize:    128,
		Epochs:       20,
		ValFraction:  0.1,
		Seed:         42,
		Optimizer:    "adam",
		GradClipNorm: 1.0,

		EarlyStoppingPatience: 3,
		ReduceLRPatience:      1,
		ReduceLRFactor:        0.5,
		MinLearningRate:       1e-5,
	}
}

// LoadConfig reads a YAML config file over the defaults, so a file only
// needs to name the fields it changes.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.VocabSize <= 0 {
		return fmt.Errorf("config: vocab_size must be positive, got %d", c.VocabSize)
	}
	if c.MaxLen <= 0 {
		return fmt.Errorf("config: max_len must be positive, got %d", c.MaxLen)
	}
	if c.EmbeddingSize <= 0 {
		return fmt.Errorf("config: embedding_size must be positive, got %d", c.EmbeddingSize)
	}
	if c.UseLSTM && c.LSTMSize <= 0 {
		return fmt.Errorf("config: lstm_size must be positive when use_lstm is set, got %d", c.LSTMSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("config: learning_rate must be positive, got %g", c.LearningRate)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("config: epochs must be positive, got %d", c.Epochs)
	}
	if c.ValFraction <= 0 || c.ValFraction >= 1 {
		return fmt.Errorf("config: val_fraction must be in (0,1), got %g", c.ValFraction)
	}
	if c.Optimizer != "adam" && c.Optimizer != "sgd" {
		return fmt.Errorf("config: optimizer must be \"adam\" or \"sgd\", got %q", c.Optimizer)
	}
	if c.ReduceLRFactor <= 0 || c.ReduceLRFactor >= 1 {
		return fmt.Errorf("config: reduce_lr_factor must be in (0,1), got %g", c.ReduceLRFactor)
	}
	if c.EarlyStoppingPatience < 1 {
		return fmt.Errorf("config: early_stopping_patience must be at least 1, got %d", c.EarlyStoppingPatience)
	}
	if c.ReduceLRPatience < 1 {
		return fmt.Errorf("config: reduce_lr_patience must be at least 1, got %d", c.ReduceLRPatience)
	}
	return nil
}
