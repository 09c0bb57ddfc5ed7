// Package logging provides the bridge's structured logging, ported from
// accumulate-lite-client-2/liteclient/logging: an slog-backed Logger with
// configurable level/format/output, fluent With* chaining, and
// domain-specific helpers retargeted from proof/network operations to
// justification verification and storage-proof checks.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/bridgecore/finality-bridge/pkg/bridgeerr"
)

// Logger wraps slog.Logger with bridge-specific helpers.
type Logger struct {
	*slog.Logger
	config *Config
}

// Config configures a Logger.
type Config struct {
	Level      slog.Level
	Format     string // "json" or "text"
	Output     string // "stdout", "stderr", or a file path
	Structured bool
	AddSource  bool
}

// DefaultConfig returns a text logger on stdout at info level.
func DefaultConfig() *Config {
	return &Config{Level: slog.LevelInfo, Format: "text", Output: "stdout"}
}

// Field is a structured log key/value pair.
type Field struct {
	Key   string
	Value any
}

// NewLogger builds a Logger from config, defaulting to DefaultConfig if nil.
func NewLogger(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var output io.Writer
	switch config.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		output = file
	}

	handlerOpts := &slog.HandlerOptions{Level: config.Level, AddSource: config.AddSource}
	var handler slog.Handler
	if config.Format == "json" || config.Structured {
		handler = slog.NewJSONHandler(output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(output, handlerOpts)
	}

	return &Logger{Logger: slog.New(handler), config: config}, nil
}

// WithFields returns a derived logger carrying the given fields.
func (l *Logger) WithFields(fields ...Field) *Logger {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, len(fields)*2)
	for i, f := range fields {
		args[i*2] = f.Key
		args[i*2+1] = f.Value
	}
	return &Logger{Logger: l.Logger.With(args...), config: l.config}
}

// WithComponent tags the logger with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields(Field{Key: "component", Value: component})
}

// WithError attaches error detail, unwrapping a *bridgeerr.Error's code and
// context rather than just its message.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	args := []any{"error", err.Error()}
	var be *bridgeerr.Error
	if asErr, ok := err.(*bridgeerr.Error); ok {
		be = asErr
		args = append(args, "error_code", string(be.Code), "error_timestamp", be.Timestamp)
		for k, v := range be.Context {
			args = append(args, fmt.Sprintf("error_context_%s", k), v)
		}
	}
	return &Logger{Logger: l.Logger.With(args...), config: l.config}
}

func (l *Logger) log(level slog.Level, msg string, fields ...Field) {
	if !l.Logger.Enabled(context.Background(), level) {
		return
	}
	attrs := make([]slog.Attr, len(fields))
	for i, f := range fields {
		attrs[i] = slog.Any(f.Key, f.Value)
	}
	if l.config.AddSource {
		_, file, line, ok := runtime.Caller(2)
		if ok {
			attrs = append(attrs, slog.Group("source", slog.String("file", file), slog.Int("line", line)))
		}
	}
	l.Logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields...) }

// LogJustificationVerification records the outcome of one §4.E verifier
// call: bridge, round, set id, result and duration.
func (l *Logger) LogJustificationVerification(bridgeID uint64, round, setID uint64, ok bool, duration time.Duration) {
	fields := []Field{
		{Key: "bridge_id", Value: bridgeID},
		{Key: "round", Value: round},
		{Key: "set_id", Value: setID},
		{Key: "accepted", Value: ok},
		{Key: "duration_ms", Value: duration.Milliseconds()},
		{Key: "type", Value: "justification_verification"},
	}
	level := slog.LevelInfo
	if !ok {
		level = slog.LevelWarn
	}
	l.log(level, "justification verification", fields...)
}

// LogStorageProofCheck records the outcome of one §4.C checker call.
func (l *Logger) LogStorageProofCheck(bridgeID uint64, key []byte, ok bool, duration time.Duration) {
	fields := []Field{
		{Key: "bridge_id", Value: bridgeID},
		{Key: "key", Value: string(key)},
		{Key: "accepted", Value: ok},
		{Key: "duration_ms", Value: duration.Milliseconds()},
		{Key: "type", Value: "storage_proof_check"},
	}
	level := slog.LevelInfo
	if !ok {
		level = slog.LevelWarn
	}
	l.log(level, "storage proof check", fields...)
}

// ParseLevel parses a log level string, defaulting to info on failure.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown log level %q", level)
	}
}
