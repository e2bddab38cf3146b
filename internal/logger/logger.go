package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
)

// New builds a JSON production logger at the configured level.
func New(cfg *config.Config) (*zap.Logger, error) {
	level := "info"
	if cfg != nil && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
