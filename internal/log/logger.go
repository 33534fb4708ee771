package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stderr)
	Service string    // optional service name attached to every log entry
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global zerolog logger exactly once.
func Configure(cfg Config) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		level := resolveLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)
		base = New(cfg)
	})
}

// New builds a standalone logger from cfg without touching the global one.
// The level is applied on the logger itself so callers (tests, CLIs with a
// -log-level flag) get exactly what they asked for.
func New(cfg Config) zerolog.Logger {
	writer := cfg.Output
	if writer == nil {
		// stdout belongs to generated output (headers, reports)
		writer = os.Stderr
	}

	service := cfg.Service
	if service == "" {
		service = os.Getenv("LOG_SERVICE")
		if service == "" {
			service = "keymatrix"
		}
	}

	// the watcher and the CLI goroutines share one writer
	return zerolog.New(zerolog.SyncWriter(writer)).Level(resolveLevel(cfg.Level)).With().
		Timestamp().
		Str("service", service).
		Str("version", os.Getenv("VERSION")).
		Logger()
}

func resolveLevel(name string) zerolog.Level {
	level := zerolog.InfoLevel
	if name != "" {
		if parsed, err := zerolog.ParseLevel(name); err == nil {
			level = parsed
		}
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	return level
}

func logger() zerolog.Logger {
	Configure(Config{})
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	l := logger().With().Str(FieldComponent, component).Logger()
	return l
}
