// Package config loads the command line settings: defaults, then an
// optional YAML file, then ALPHASHAPE_* environment variables. The result
// is validated before use.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Named alpha choices
const (
	AlphaAllPoints = "all-points"
	AlphaOneRegion = "one-region"
	AlphaAuto      = "auto"
)

const envPrefix = "ALPHASHAPE_"

// Config holds every tunable of the alphashape command
type Config struct {
	// Alpha is a named choice or a non-negative number
	Alpha string `yaml:"alpha" validate:"required,alphachoice"`

	// SimplifyRatio is the fraction of edges simplify keeps
	SimplifyRatio float64 `yaml:"simplify_ratio" validate:"gt=0,lte=1"`

	// Components is the solid component target of the "auto" alpha
	Components int `yaml:"components" validate:"gte=1"`

	MetricsFile string `yaml:"metrics_file"`

	Log   LogConfig   `yaml:"log"`
	Batch BatchConfig `yaml:"batch"`
	Watch WatchConfig `yaml:"watch"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=256"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Alpha:         AlphaOneRegion,
		SimplifyRatio: 0.05,
		Components:    1,
		Log:           LogConfig{Level: "info"},
		Batch:         BatchConfig{Concurrency: 4},
		Watch:         WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("alphachoice", validateAlphaChoice)
}

func validateAlphaChoice(fl validator.FieldLevel) bool {
	_, err := ParseAlpha(fl.Field().String())
	return err == nil
}

// Load builds the configuration. An empty path or a missing file leaves
// the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the struct tag constraints
func (c Config) Validate() error {
	return validate.Struct(c)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	parse := func(name string, fn func(string) error) {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			if err := fn(v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
			}
		}
	}

	str("ALPHA", &cfg.Alpha)
	str("METRICS_FILE", &cfg.MetricsFile)
	str("LOG_LEVEL", &cfg.Log.Level)
	parse("SIMPLIFY_RATIO", func(v string) (err error) {
		cfg.SimplifyRatio, err = strconv.ParseFloat(v, 64)
		return err
	})
	parse("COMPONENTS", func(v string) (err error) {
		cfg.Components, err = strconv.Atoi(v)
		return err
	})
	parse("LOG_JSON", func(v string) (err error) {
		cfg.Log.JSON, err = strconv.ParseBool(v)
		return err
	})
	parse("BATCH_CONCURRENCY", func(v string) (err error) {
		cfg.Batch.Concurrency, err = strconv.Atoi(v)
		return err
	})
	parse("WATCH_DEBOUNCE", func(v string) (err error) {
		cfg.Watch.Debounce, err = time.ParseDuration(v)
		return err
	})
	return errors.Join(errs...)
}

// AlphaChoice is a parsed alpha setting: either a named threshold or an
// explicit value
type AlphaChoice struct {
	Name  string
	Value float64
}

// IsNamed reports whether the choice names a threshold instead of a value
func (a AlphaChoice) IsNamed() bool {
	return a.Name != ""
}

// ParseAlpha accepts "all-points", "one-region", "auto" or a finite
// non-negative number
func ParseAlpha(s string) (AlphaChoice, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case AlphaAllPoints, AlphaOneRegion, AlphaAuto:
		return AlphaChoice{Name: strings.ToLower(s)}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return AlphaChoice{}, fmt.Errorf("alpha %q is neither a number nor one of %s, %s, %s", s, AlphaAllPoints, AlphaOneRegion, AlphaAuto)
	}
	if !(v >= 0) || math.IsInf(v, 1) {
		return AlphaChoice{}, fmt.Errorf("alpha %v must be finite and non-negative", v)
	}
	return AlphaChoice{Value: v}, nil
}
