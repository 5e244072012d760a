/*
Package logger - GORM logger adapter tests
*/
package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"ddd-kernel/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerAdapterLevels(t *testing.T) {
	original := current()
	defer SetLogger(original)

	testCases := []struct {
		name      string
		logLevel  gormlogger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"Warn Level", gormlogger.Warn, false, false},
		{"Info Level", gormlogger.Info, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			SetLogger(zap.New(core))

			adapter := NewGormLoggerAdapter(tc.logLevel)
			if adapter.LogMode(gormlogger.Info) == nil {
				t.Fatal("LogMode should return a new adapter")
			}

			ctx := context.Background()
			adapter.Info(ctx, "test info message")
			adapter.Warn(ctx, "test warn message")
			adapter.Error(ctx, "test error message")
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM outbox_events", 1
			}, nil)

			if got := logs.FilterMessage("test info message").Len() > 0; got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tc.wantInfo)
			}
			if logs.FilterMessage("test warn message").Len() != 1 {
				t.Error("Warn message not found in logs")
			}
			if logs.FilterMessage("test error message").Len() != 1 {
				t.Error("Error message not found in logs")
			}
			if got := logs.FilterMessage("SQL query executed").Len() > 0; got != tc.wantTrace {
				t.Errorf("trace logged = %v, want %v", got, tc.wantTrace)
			}
		})
	}
}

func TestGormLoggerAdapterSlowAndErrors(t *testing.T) {
	original := current()
	defer SetLogger(original)

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	adapter := NewGormLoggerAdapterWithConfig(gormlogger.Info, &GormLoggerConfig{
		SlowThreshold:             time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})
	ctx := persistence.ContextWithRequestID(context.Background(), "req-123")

	adapter.Trace(ctx, time.Now().Add(-10*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM slow_table", 1
	}, nil)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM outbox_events WHERE id = 'x'", 0
	}, gormlogger.ErrRecordNotFound)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO outbox_events", 0
	}, errors.New("duplicate"))

	slow := logs.FilterMessage("Slow SQL query").All()
	if len(slow) != 1 {
		t.Fatalf("expected 1 slow query entry, got %d", len(slow))
	}
	if slow[0].ContextMap()["request_id"] != "req-123" {
		t.Error("request id should be propagated from context")
	}
	if got := logs.FilterMessage("Database operation failed").Len(); got != 1 {
		t.Errorf("expected only the non-not-found error to be logged, got %d", got)
	}
}

func TestParseGormLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"debug":  gormlogger.Info,
		"error":  gormlogger.Error,
		"silent": gormlogger.Silent,
		"":       gormlogger.Warn,
	}
	for in, want := range cases {
		if got := ParseGormLevel(in); got != want {
			t.Errorf("ParseGormLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
