package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger wraps slog for playerdata. It writes to a log file, or to stderr when no file is configured.
type Logger struct {
	logger       *slog.Logger
	file         *os.File
	traceEnabled bool
}

// Config contains logging information used to set up the logging framework
type Config struct {
	// Log Level.  One of: trace, debug, info, warn, error
	Level string
	// Path to the file to log into.  Empty logs to stderr.
	FilePath string
	// Output format.  One of: json, text.  Defaults to json.
	Format string
}

func New(config Config) (*Logger, error) {
	var out io.Writer = os.Stderr
	var file *os.File

	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0700); err != nil {
			return nil, fmt.Errorf("unable to create log directory: %w", err)
		}

		f, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		out = f
		file = f
	}

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(config.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return &Logger{
		logger:       slog.New(handler),
		file:         file,
		traceEnabled: strings.EqualFold(config.Level, "trace"),
	}, nil
}

// With returns a logger that adds args to every record.  The returned logger shares the parent's file
// and must not be closed.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		logger:       l.logger.With(args...),
		traceEnabled: l.traceEnabled,
	}
}

// Close the log file, if one was opened
func (l *Logger) Close() {
	if l.file == nil {
		return
	}
	if err := l.file.Close(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error closing logger: %v\n", err)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Trace logs at debug level, prefixed, when the logger was configured at trace level
func (l *Logger) Trace(msg string, args ...any) {
	if l.traceEnabled {
		l.logger.Debug("TRACE: "+msg, args...)
	}
}

// parseLogLevel converts a string log level into the slog version.  Defaults to info.
func parseLogLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
