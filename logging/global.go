package logging

import (
	"context"
	"log/slog"
	"os"
)

// LoggingService wraps the configured logger for dependency injection.
type LoggingService struct {
	Logger *slog.Logger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance.
func InitLogger(logDir string, retentionWeeks int, maxFileSize int64, level slog.Level) {
	DefaultLoggingService = &LoggingService{
		Logger: SetupLogger(logDir, retentionWeeks, maxFileSize, level),
	}
	slog.SetDefault(DefaultLoggingService.Logger)
}

func logWith(level slog.Level, msg string, args ...any) {
	if DefaultLoggingService != nil && DefaultLoggingService.Logger != nil {
		DefaultLoggingService.Logger.Log(context.Background(), level, msg, args...)
		return
	}
	// Fallback to console logger if not initialized
	fallback := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	fallback.Log(context.Background(), level, msg, args...)
}

// Package-level functions for direct access

func Debug(msg string, args ...any) { logWith(slog.LevelDebug, msg, args...) }
func Info(msg string, args ...any)  { logWith(slog.LevelInfo, msg, args...) }
func Warn(msg string, args ...any)  { logWith(slog.LevelWarn, msg, args...) }
func Error(msg string, args ...any) { logWith(slog.LevelError, msg, args...) }
