package logger

import "context"

// discardLogger is active until Initialize runs, which keeps tests quiet.
type discardLogger struct{}

func (discardLogger) Log(context.Context, LogEntry)  {}
func (discardLogger) Shutdown(context.Context) error { return nil }
