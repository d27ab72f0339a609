// Package observability holds therapytrack's structured logging, metrics,
// health checks and request tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

const serviceName = "therapytrack"

// LogConfig configures NewLogger.
type LogConfig struct {
	// Level is debug, info, warn or error. Anything else means info.
	Level string
	// JSON selects the JSON handler instead of text.
	JSON bool
	// Output defaults to os.Stderr. Stdout belongs to the CLI and MCP stdio.
	Output    io.Writer
	AddSource bool
	Version   string
}

// DefaultLogConfig is info-level text on stderr.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Output: os.Stderr, Version: "dev"}
}

// LogConfigFromEnv applies APP_ENV, LOG_LEVEL, LOG_FORMAT and
// THERAPYTRACK_VERSION on top of base. APP_ENV=production switches to JSON
// with source locations unless LOG_FORMAT says otherwise.
func LogConfigFromEnv(base LogConfig) LogConfig {
	cfg := base
	if os.Getenv("APP_ENV") == "production" {
		cfg.JSON = true
		cfg.AddSource = true
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	switch os.Getenv("LOG_FORMAT") {
	case "json":
		cfg.JSON = true
	case "text":
		cfg.JSON = false
	}
	if version := os.Getenv("THERAPYTRACK_VERSION"); version != "" {
		cfg.Version = version
	}
	return cfg
}

// NewLogger builds a logger that stamps every record with the service name,
// the version and the request fields found in the record's context.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level), AddSource: cfg.AddSource}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	attrs := []slog.Attr{slog.String("service", serviceName)}
	if cfg.Version != "" {
		attrs = append(attrs, slog.String("version", cfg.Version))
	}
	return slog.New(contextHandler{h.WithAttrs(attrs)})
}

// LoggerFromEnv is NewLogger over the environment-adjusted defaults.
func LoggerFromEnv() *slog.Logger {
	return NewLogger(LogConfigFromEnv(DefaultLogConfig()))
}

// ParseLevel maps a level name onto slog; unknown names mean info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, f := range loggedFields {
		if v := stringFromContext(ctx, f.key); v != "" {
			r.AddAttrs(slog.String(f.attr, v))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
