package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
)

var slogLevels = map[LogLevel]slog.Level{
	LogLevelDebug: slog.LevelDebug,
	LogLevelInfo:  slog.LevelInfo,
	LogLevelWarn:  slog.LevelWarn,
	LogLevelError: slog.LevelError,
	LogLevelFatal: slog.LevelError,
}

type StdoutLogger struct {
	logger *slog.Logger
	exit   func(code int)
}

func initStdoutLogger(serviceName string) (Logger, error) {
	return newStdoutLogger(os.Stdout, serviceName), nil
}

func newStdoutLogger(w io.Writer, serviceName string) *StdoutLogger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return &StdoutLogger{
		logger: slog.New(handler.WithAttrs([]slog.Attr{slog.String("service", serviceName)})),
		exit:   os.Exit,
	}
}

// Log prints the message with the request scope and error. Entry attributes
// are left to the collector, on a terminal they drown the message.
func (l *StdoutLogger) Log(ctx context.Context, entry LogEntry) {
	keys := make([]string, 0, len(entry.Scope))
	for key := range entry.Scope {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys)*2+2)
	for _, key := range keys {
		attrs = append(attrs, key, entry.Scope[key])
	}
	if entry.Error != nil {
		attrs = append(attrs, "error", entry.Error.Error())
	}

	level, ok := slogLevels[entry.Level]
	if !ok {
		level = slog.LevelInfo
	}
	l.logger.Log(ctx, level, entry.Message, attrs...)

	if entry.Level == LogLevelFatal {
		l.exit(1)
	}
}

func (l *StdoutLogger) Shutdown(context.Context) error {
	return nil
}
