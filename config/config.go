// Package config loads application settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Thresholds are the gross-margin percentages used to label estimate
// performance. They only drive presentation.
type Thresholds struct {
	Excellent float64 `env:"SITECOST_THRESHOLD_EXCELLENT" envDefault:"25"`
	Good      float64 `env:"SITECOST_THRESHOLD_GOOD"      envDefault:"15"`
	Poor      float64 `env:"SITECOST_THRESHOLD_POOR"      envDefault:"5"`
}

// Config controls estimate defaults, formatting and startup behaviour.
type Config struct {
	TargetMarginPercent float64 `env:"SITECOST_TARGET_MARGIN_PERCENT" envDefault:"20"`
	CurrencySymbol      string  `env:"SITECOST_CURRENCY_SYMBOL"       envDefault:"$"`
	Locale              string  `env:"SITECOST_LOCALE"                envDefault:"en-US"`
	SeedDemo            bool    `env:"SITECOST_SEED_DEMO"             envDefault:"true"`
	StaticDir           string  `env:"SITECOST_STATIC_DIR"            envDefault:"./static"`
	Thresholds          Thresholds
}

// Default returns the configuration used when the environment is empty.
func Default() Config {
	return Config{
		TargetMarginPercent: 20,
		CurrencySymbol:      "$",
		Locale:              "en-US",
		SeedDemo:            true,
		StaticDir:           "./static",
		Thresholds: Thresholds{
			Excellent: 25,
			Good:      15,
			Poor:      5,
		},
	}
}

// Load parses the environment into a Config. On a parse failure the
// defaults are returned together with the error so callers can log it and
// keep serving.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Default(), fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TargetMarginPercent < 0 || c.TargetMarginPercent >= 100 {
		return fmt.Errorf("target margin %.2f out of range [0, 100)", c.TargetMarginPercent)
	}
	t := c.Thresholds
	if !(t.Excellent >= t.Good && t.Good >= t.Poor) {
		return fmt.Errorf("thresholds must be ordered excellent >= good >= poor, got %.1f/%.1f/%.1f",
			t.Excellent, t.Good, t.Poor)
	}
	return nil
}
