/*
Package logger 提供内核统一日志能力。

全局 logger 在未初始化时所有方法都是安全的空操作，
领域层代码（如事件派发器）可以直接调用而不需要关心组合根是否已经完成初始化。
*/
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ddd-kernel/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu        sync.RWMutex
	log       *zap.Logger
	atomLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func Init(cfg *config.LogConfig, env string) error {
	atomLevel.SetLevel(parseLevel(cfg.Level))

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoder := newEncoder(cfg.Format, env, encoderConfig)

	var writeSyncer zapcore.WriteSyncer
	switch cfg.Output {
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writeSyncer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     7,
			Compress:   true,
		})
	default:
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, writeSyncer, atomLevel)
	SetLogger(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
	return nil
}

func newEncoder(format, env string, encoderConfig zapcore.EncoderConfig) zapcore.Encoder {
	switch format {
	case "console":
		return zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	if env == "dev" || env == "development" || atomLevel.Level() == zapcore.DebugLevel {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger 替换全局 logger（测试中可注入 zaptest/observer）
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Get 返回全局 logger，未初始化时返回 Nop logger
func Get() *zap.Logger {
	if l := current(); l != nil {
		return l
	}
	return zap.NewNop()
}

func UpdateLevel(level string) {
	atomLevel.SetLevel(parseLevel(level))
}

func Sync() error {
	l := current()
	if l == nil {
		return nil
	}
	if err := l.Sync(); err != nil {
		errStr := err.Error()
		if !strings.Contains(errStr, "inappropriate ioctl for device") &&
			!strings.Contains(errStr, "invalid argument") &&
			!strings.Contains(errStr, "bad file descriptor") {
			return err
		}
	}
	return nil
}

func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

func WithRequestID(requestID string) *zap.Logger {
	return With(zap.String("request_id", requestID))
}

// WithEvent 返回带有领域事件上下文的 logger
func WithEvent(kind, aggregateID string) *zap.Logger {
	return With(zap.String("event_kind", kind), zap.String("aggregate_id", aggregateID))
}

func WithContext(fields map[string]any) *zap.Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			zapFields = append(zapFields, zap.String(k, val))
		case int:
			zapFields = append(zapFields, zap.Int(k, val))
		case int64:
			zapFields = append(zapFields, zap.Int64(k, val))
		case float64:
			zapFields = append(zapFields, zap.Float64(k, val))
		case bool:
			zapFields = append(zapFields, zap.Bool(k, val))
		case error:
			zapFields = append(zapFields, zap.NamedError(k, val))
		default:
			zapFields = append(zapFields, zap.Any(k, val))
		}
	}
	return With(zapFields...)
}

func Debug(msg string, fields ...zap.Field) {
	if l := current(); l != nil {
		l.Debug(msg, fields...)
	}
}

func Info(msg string, fields ...zap.Field) {
	if l := current(); l != nil {
		l.Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if l := current(); l != nil {
		l.Warn(msg, fields...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if l := current(); l != nil {
		l.Error(msg, fields...)
	}
}

func Fatal(msg string, fields ...zap.Field) {
	if l := current(); l != nil {
		l.Fatal(msg, fields...)
	}
}
