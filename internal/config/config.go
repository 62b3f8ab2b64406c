// Package config builds the structval command configuration from
// environment variables and command-line flags. Flags win over the
// environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"

	"github.com/reoring/structval/internal/logger"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STRUCTVAL_"

// ErrInvalidConfig is returned when a setting holds an unsupported value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings shared by all subcommands.
type Config struct {
	// FailFast stops validation at the first violation.
	FailFast bool `env:"FAIL_FAST"`
	// LogLevel is a zerolog level name.
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
	// LogFormat is "text" or "json".
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	// Output selects how violations are printed: "text" or "json".
	Output string `env:"OUTPUT" envDefault:"text"`
}

// Load registers the shared flags on fs, parses args and merges the result
// over the configuration read from environ. Only flags present in args
// override the environment, including -fail-fast=false.
func Load(fs *flag.FlagSet, args []string, environ map[string]string) (*Config, error) {
	cfg, err := parseEnv(environ)
	if err != nil {
		return nil, err
	}

	flags := &Config{}
	fs.BoolVar(&flags.FailFast, "fail-fast", false, "stop at the first violation")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	fs.StringVar(&flags.LogFormat, "log-format", "", "log format (text or json)")
	fs.StringVar(&flags.Output, "o", "", "output format (text or json)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := mergo.Merge(cfg, flags, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("error merging configs: %w", err)
	}
	// WithOverride skips zero values.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "fail-fast" {
			cfg.FailFast = flags.FailFast
		}
	})
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Output = strings.ToLower(cfg.Output)
	return cfg, cfg.validate()
}

func parseEnv(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix, Environment: environ})
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if !oneOf(c.LogFormat, "text", "json") {
		errs = append(errs, fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat))
	}
	if !oneOf(c.Output, "text", "json") {
		errs = append(errs, fmt.Errorf("%w: output %q", ErrInvalidConfig, c.Output))
	}
	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
