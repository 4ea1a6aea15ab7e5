package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "subreddit-bot"

// NewLogger builds the process logger writing to stdout.
func NewLogger(cfg *Config) (*zerolog.Logger, error) {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *Config, out io.Writer) (*zerolog.Logger, error) {
	level, err := zerologLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var w io.Writer = out
	if cfg.Format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	return &l, nil
}

// zerologLevel maps a configured level onto zerolog's. The empty level,
// which zerolog.ParseLevel accepts as NoLevel, is rejected.
func zerologLevel(level Level) (zerolog.Level, error) {
	if level == "" {
		return zerolog.NoLevel, fmt.Errorf("empty log level")
	}
	l, err := zerolog.ParseLevel(strings.ToLower(string(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// Redact hides all but a short prefix and suffix of a secret.
func Redact(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-2:]
}
