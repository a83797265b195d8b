package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	// Level is the minimum enabled level: debug, info, warn, error
	Level string
	// ServiceName is attached to every entry
	ServiceName string
	// Development switches to the console encoder with colored levels
	Development bool
}

// Logger wraps zap.Logger with service-scoped helpers
type Logger struct {
	zl *zap.Logger
}

var (
	mu     sync.RWMutex
	global *Logger
)

// Init initializes the global logger. Must be called once at startup before
// any call to Get.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{Level: "info", Development: true}
	}

	level := zapcore.InfoLevel
	switch cfg.Level {
	case "debug", "development":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zl, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.ServiceName != "" {
		zl = zl.With(zap.String("service", cfg.ServiceName))
	}

	mu.Lock()
	global = &Logger{zl: zl}
	mu.Unlock()
	return nil
}

// Get returns the global logger. Falls back to a no-op logger if Init was
// never called, so library code can log unconditionally.
func Get() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return &Logger{zl: zap.NewNop()}
	}
	return global
}

// Sync flushes buffered entries. Call on shutdown.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return nil
	}
	return global.zl.Sync()
}

// With returns a child logger with the given fields attached.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zl: l.zl.With(fields...)}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zl.Debug(msg, fields...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zl.Info(msg, fields...)
}

// Warn logs a warn-level message.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zl.Warn(msg, fields...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zl.Error(msg, fields...)
}

// Fatal logs the message then exits.
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zl.Fatal(msg, fields...)
}
