// Package logging builds the zerolog logger shared by the CLI, the API
// server and the simulation engine.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level      string // trace, debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

// New returns a logger writing to cfg.Output and a closer for it. File
// outputs are opened in append mode; closing stdout or stderr is a no-op.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	out, err := openOutput(cfg.Output)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	log, err := NewWithWriter(cfg, out)
	if err != nil {
		_ = out.Close()
		return zerolog.Nop(), nil, err
	}
	return log, out, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewWithWriter is New with an explicit destination, mostly for tests.
func NewWithWriter(cfg Config, out io.Writer) (zerolog.Logger, error) {
	lvl := strings.ToLower(strings.TrimSpace(cfg.Level))
	if lvl == "" {
		lvl = "info"
	}
	level, err := zerolog.ParseLevel(lvl)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}

	// The global level defaults to debug; trace needs it lowered.
	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	switch strings.ToLower(cfg.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (want json or console)", cfg.Format)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

func openOutput(target string) (io.WriteCloser, error) {
	switch target {
	case "", "stderr":
		return nopCloser{os.Stderr}, nil
	case "stdout":
		return nopCloser{os.Stdout}, nil
	default:
		f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		return f, nil
	}
}
