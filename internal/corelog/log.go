// Package corelog provides the package-level structured logger shared by
// every layer of the kernel.
package corelog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l
}

// Configure replaces the package logger. Safe to call concurrently; intended
// to be called once at process start with a logger built from the deployment
// environment (development vs. production encoding, log level).
func Configure(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a child logger carrying the given structured fields.
func With(fields ...zap.Field) *zap.Logger {
	return current().With(fields...)
}

func Debug(msg string, fields ...zap.Field) {
	current().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	current().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	current().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	current().Error(msg, fields...)
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() {
	_ = current().Sync()
}
