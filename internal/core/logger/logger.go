package logger

import (
	"context"
	"maps"
	"time"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

type attributes = map[string]any

type LogEntry struct {
	Level      LogLevel
	Message    string
	Attributes attributes
	// Scope holds the request scoped fields found on the context, e.g. the request id.
	Scope     attributes
	Error     error
	Timestamp time.Time
}

type Logger interface {
	Log(ctx context.Context, entry LogEntry)
	Shutdown(ctx context.Context) error
}

var globalLogger Logger = &discardLogger{}

type scopeKey struct{}

// WithFields returns a context whose log entries carry fields in their Scope.
// Fields already on ctx are kept unless overwritten.
func WithFields(ctx context.Context, fields attributes) context.Context {
	scope := make(attributes, len(fields))
	if parent, ok := ctx.Value(scopeKey{}).(attributes); ok {
		maps.Copy(scope, parent)
	}
	maps.Copy(scope, fields)
	return context.WithValue(ctx, scopeKey{}, scope)
}

func FieldsFrom(ctx context.Context) map[string]any {
	scope, _ := ctx.Value(scopeKey{}).(attributes)
	return scope
}

func newLogEntry(ctx context.Context, level LogLevel, message string, err error, attrs attributes) LogEntry {
	return LogEntry{
		Level:      level,
		Message:    message,
		Attributes: attrs,
		Scope:      FieldsFrom(ctx),
		Error:      err,
		Timestamp:  time.Now(),
	}
}

func Debug(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(ctx, LogLevelDebug, message, nil, attrs))
}

func Info(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(ctx, LogLevelInfo, message, nil, attrs))
}

func Warn(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(ctx, LogLevelWarn, message, nil, attrs))
}

func Error(ctx context.Context, message string, err error, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(ctx, LogLevelError, message, err, attrs))
}

func Fatal(ctx context.Context, message string, err error, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(ctx, LogLevelFatal, message, err, attrs))
}

// Log emits a prebuilt entry, filling in Scope and Timestamp when missing.
func Log(ctx context.Context, entry LogEntry) {
	if entry.Scope == nil {
		entry.Scope = FieldsFrom(ctx)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	globalLogger.Log(ctx, entry)
}

func Shutdown(ctx context.Context) error {
	return globalLogger.Shutdown(ctx)
}

// SetLogger swaps the global logger and returns a func restoring the previous one.
func SetLogger(l Logger) func() {
	previous := globalLogger
	globalLogger = l
	return func() { globalLogger = previous }
}

func Initialize(collectorEndpoint, serviceName string, isProduction bool) error {
	var (
		l   Logger
		err error
	)

	if isProduction {
		l, err = initializeOtelLogger(collectorEndpoint, serviceName)
	} else {
		l, err = initStdoutLogger(serviceName)
	}

	if err != nil {
		return err
	}

	globalLogger = l
	return nil
}
