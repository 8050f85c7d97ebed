package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config is the runtime configuration of a grading run. The rubric itself
// (criteria, points, threshold) lives in the rubric file, not here.
type Config struct {
	SubmissionPath string `env:"GRADER_SUBMISSION" envDefault:"solution_hr.mongodb"`
	RubricPath     string `env:"GRADER_RUBRIC"` // empty: built-in HR lab rubric

	StoreDriver    string        `env:"GRADER_STORE_DRIVER" envDefault:"mongo"` // mongo|postgres|sqlite
	StoreDSN       string        `env:"GRADER_STORE_DSN"`                         // empty: driver default
	StoreDatabase  string        `env:"GRADER_STORE_DATABASE" envDefault:"hrDB"`
	ConnectTimeout time.Duration `env:"GRADER_CONNECT_TIMEOUT" envDefault:"10s"`

	Format   Format `env:"GRADER_FORMAT" envDefault:"text"`
	LogLevel string `env:"GRADER_LOG_LEVEL" envDefault:"warn"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", c.Format)
	}
	if c.SubmissionPath == "" {
		return errors.New("submission path is empty")
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("negative connect timeout %s", c.ConnectTimeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
