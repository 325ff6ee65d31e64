package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

type recordingLogger struct {
	entries []LogEntry
}

func (r *recordingLogger) Log(_ context.Context, entry LogEntry) {
	r.entries = append(r.entries, entry)
}

func (r *recordingLogger) Shutdown(context.Context) error { return nil }

func TestWithFields(t *testing.T) {
	ctx := WithFields(context.Background(), map[string]any{"request_id": "r-1"})
	ctx = WithFields(ctx, map[string]any{"user_id": "u-1"})
	child := WithFields(ctx, map[string]any{"request_id": "r-2"})

	got := FieldsFrom(ctx)
	if got["request_id"] != "r-1" || got["user_id"] != "u-1" {
		t.Fatalf("expected merged fields, got %v", got)
	}
	if FieldsFrom(child)["request_id"] != "r-2" {
		t.Fatalf("expected override on child, got %v", FieldsFrom(child))
	}
	if FieldsFrom(ctx)["request_id"] != "r-1" {
		t.Fatal("child must not mutate the parent scope")
	}
	if FieldsFrom(context.Background()) != nil {
		t.Fatal("expected no fields on a bare context")
	}
}

func TestHelpersCarryScope(t *testing.T) {
	rec := &recordingLogger{}
	restore := SetLogger(rec)
	defer restore()

	ctx := WithFields(context.Background(), map[string]any{"request_id": "r-7"})
	Info(ctx, "Order created successfully", map[string]any{"order_id": "o-1"})
	Error(ctx, "transaction: create order failed", errors.New("boom"), nil)
	Log(ctx, LogEntry{Level: LogLevelWarn, Message: "HTTP Request"})

	if len(rec.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(rec.entries))
	}
	for _, entry := range rec.entries {
		if entry.Scope["request_id"] != "r-7" {
			t.Fatalf("expected request scope on %q, got %v", entry.Message, entry.Scope)
		}
		if entry.Timestamp.IsZero() {
			t.Fatalf("expected timestamp on %q", entry.Message)
		}
	}
	if rec.entries[1].Error == nil || rec.entries[1].Level != LogLevelError {
		t.Fatalf("unexpected error entry %+v", rec.entries[1])
	}
}

func TestSetLogger_Restore(t *testing.T) {
	rec := &recordingLogger{}
	restore := SetLogger(rec)
	restore()

	Info(context.Background(), "after restore", nil)
	if len(rec.entries) != 0 {
		t.Fatal("expected previous logger after restore")
	}
}

func TestStdoutLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newStdoutLogger(&buf, "hoodlum-test")

	exited := 0
	l.exit = func(code int) { exited = code }

	l.Log(context.Background(), LogEntry{
		Level:      LogLevelError,
		Message:    "cache: set order failed",
		Attributes: map[string]any{"order_id": "o-1"},
		Scope:      map[string]any{"request_id": "r-1"},
		Error:      errors.New("redis down"),
	})

	out := buf.String()
	for _, want := range []string{"level=ERROR", "service=hoodlum-test", "request_id=r-1", `error="redis down"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "order_id") {
		t.Fatalf("entry attributes should stay off stdout, got %q", out)
	}

	l.Log(context.Background(), LogEntry{Level: LogLevelFatal, Message: "Failed to connect to MongoDB"})
	if exited != 1 {
		t.Fatalf("expected exit code 1 on fatal, got %d", exited)
	}
}

func TestOtelAttributes(t *testing.T) {
	kvs := otelAttributes(LogEntry{
		Scope:      map[string]any{"request_id": "r-1", "user_id": "scope"},
		Attributes: map[string]any{"user_id": "entry", "http.duration": 1500 * time.Millisecond},
		Error:      errors.New("boom"),
	})

	got := make(map[string]otellog.Value, len(kvs))
	var keys []string
	for _, kv := range kvs {
		got[kv.Key] = kv.Value
		keys = append(keys, kv.Key)
	}

	if strings.Join(keys, ",") != "http.duration,request_id,user_id,error" {
		t.Fatalf("unexpected attribute order %v", keys)
	}
	if got["user_id"].AsString() != "entry" {
		t.Fatalf("expected entry attribute to win, got %v", got["user_id"])
	}
	if got["http.duration"].AsInt64() != 1500 {
		t.Fatalf("expected duration in ms, got %v", got["http.duration"])
	}
	if got["error"].AsString() != "boom" {
		t.Fatalf("expected error attribute, got %v", got["error"])
	}
}

type sku string

func (s sku) String() string { return "sku-" + string(s) }

func TestOtelKeyValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  otellog.Kind
	}{
		{"string", "x", otellog.KindString},
		{"int", 3, otellog.KindInt64},
		{"int64", int64(3), otellog.KindInt64},
		{"float", 1.5, otellog.KindFloat64},
		{"bool", true, otellog.KindBool},
		{"stringer", sku("1"), otellog.KindString},
		{"other", []int{1}, otellog.KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := otelKeyValue("k", tt.value).Value.Kind(); got != tt.kind {
				t.Fatalf("expected kind %v, got %v", tt.kind, got)
			}
		})
	}

	if got := otelKeyValue("k", sku("1")).Value.AsString(); got != "sku-1" {
		t.Fatalf("unexpected stringer value %q", got)
	}
}

func TestOTELLogger_FatalExits(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	exited := 0
	l := &OTELLogger{
		logger:   provider.Logger("hoodlum-test"),
		provider: provider,
		exit:     func(code int) { exited = code },
	}

	l.Log(context.Background(), LogEntry{Level: LogLevelError, Message: "cache: set order failed"})
	if exited != 0 {
		t.Fatalf("expected no exit below fatal, got %d", exited)
	}

	l.Log(context.Background(), LogEntry{Level: LogLevelFatal, Message: "Invalid configuration"})
	if exited != 1 {
		t.Fatalf("expected exit code 1 on fatal, got %d", exited)
	}
}
