package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	yaml := `
vocab_size: 1234
max_len: 10
use_lstm: true
lstm_size: 16
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.VocabSize != 1234 {
		t.Errorf("vocab_size = %d, want 1234", cfg.VocabSize)
	}
	if cfg.MaxLen != 10 {
		t.Errorf("max_len = %d, want 10", cfg.MaxLen)
	}
	if !cfg.UseLSTM || cfg.LSTMSize != 16 {
		t.Errorf("lstm settings not applied: use=%v size=%d", cfg.UseLSTM, cfg.LSTMSize)
	}

	// Unnamed fields keep their defaults.
	def := DefaultConfig()
	if cfg.EmbeddingSize != def.EmbeddingSize {
		t.Errorf("embedding_size = %d, want default %d", cfg.EmbeddingSize, def.EmbeddingSize)
	}
	if cfg.Optimizer != def.Optimizer {
		t.Errorf("optimizer = %q, want default %q", cfg.Optimizer, def.Optimizer)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero vocab", func(c *Config) { c.VocabSize = 0 }},
		{"negative max_len", func(c *Config) { c.MaxLen = -1 }},
		{"zero embedding", func(c *Config) { c.EmbeddingSize = 0 }},
		{"lstm without width", func(c *Config) { c.UseLSTM = true; c.LSTMSize = 0 }},
		{"zero lr", func(c *Config) { c.LearningRate = 0 }},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
		{"zero epochs", func(c *Config) { c.Epochs = 0 }},
		{"bad val fraction", func(c *Config) { c.ValFraction = 1.0 }},
		{"bad optimizer", func(c *Config) { c.Optimizer = "rmsprop" }},
		{"bad lr factor", func(c *Config) { c.ReduceLRFactor = 1.0 }},
		{"zero es patience", func(c *Config) { c.EarlyStoppingPatience = 0 }},
		{"zero lr patience", func(c *Config) { c.ReduceLRPatience = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
