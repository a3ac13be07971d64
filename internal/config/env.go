// Package config loads engine settings from the environment and builds the
// process logger.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Engine holds the settings read from LOOT_* environment variables. Flags
// and the config file take precedence when set.
type Engine struct {
	MaxRolls  int      `env:"LOOT_MAX_ROLLS" envDefault:"1000"`
	Seed      int64    `env:"LOOT_SEED"`
	LogLevel  string   `env:"LOOT_LOG_LEVEL" envDefault:"warn"`
	LogFormat string   `env:"LOOT_LOG_FORMAT" envDefault:"text"`
	TablesDir []string `env:"LOOT_TABLES_DIR" envSeparator:":"`
	History   string   `env:"LOOT_HISTORY" envDefault:"loot-history.jsonl"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEngine reads Engine from the environment.
func LoadEngine() (Engine, error) {
	var cfg Engine
	if err := ParseEnv(&cfg); err != nil {
		return Engine{}, err
	}
	if cfg.MaxRolls < 1 {
		return Engine{}, fmt.Errorf("LOOT_MAX_ROLLS must be positive, got %d", cfg.MaxRolls)
	}
	return cfg, nil
}
