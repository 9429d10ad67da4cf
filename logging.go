package main

import (
	"fmt"

	"go.uber.org/zap"
)

// newLogger builds the process logger. CLI runs get the human-readable
// development encoder; set json=true for the serve command where logs
// are more likely to be collected.
func newLogger(json bool) (*zap.Logger, error) {
	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build logger: %w", err)
	}
	return logger, nil
}
