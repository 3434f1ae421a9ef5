package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/quiz-studio/authoring-service/internal/utils"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// slogFrom unwraps the slog handler behind a utils.Logger so operation
// logs share the process-wide output format.
func slogFrom(logger utils.Logger) *slog.Logger {
	if sl, ok := logger.(*utils.SlogLogger); ok {
		return sl.GetSlogLogger()
	}
	return slog.Default()
}

// ===== OPERATION LOGGING =====

// LogOperation records one service call with its outcome and duration.
// Expected editing failures (lint rejections, out-of-range indices) log at
// warn or info; only genuine faults log at error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, questionIndex int, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		case IsUnavailable(err):
			level = slog.LevelWarn
			status = "unavailable"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	// Negative index means the operation targets the whole list.
	if questionIndex >= 0 {
		attrs = append(attrs, slog.Int("question_index", questionIndex))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		}
	}

	if requestID := ctx.Value("request_id"); requestID != nil {
		attrs = append(attrs, slog.String("request_id", requestID.(string)))
	}

	// Add caller information for errors
	if err != nil && status == "error" {
		if pc, file, line, ok := runtime.Caller(2); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				attrs = append(attrs,
					slog.String("caller_func", fn.Name()),
					slog.String("caller_file", file),
					slog.Int("caller_line", line),
				)
			}
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) LogValidationErrors(ctx context.Context, operation string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Int("error_count", len(validationErrors)),
	}

	// Limit to the first 5 errors to avoid log spam
	for i, err := range validationErrors {
		if i >= 5 {
			break
		}
		attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
			slog.String("field", err.Field),
			slog.String("message", err.Message),
			slog.Any("value", err.Value),
		))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

// ===== TIMING HELPER =====

// TimedOperation wraps a service call with duration tracking:
//
//	done := l.TimedOperation(ctx, "add_question", index)
//	...
//	done(err)
func (l *ServiceLogger) TimedOperation(ctx context.Context, operation string, questionIndex int) func(error) {
	start := time.Now()
	return func(err error) {
		l.LogOperation(ctx, operation, questionIndex, time.Since(start), err)
	}
}

func (l *ServiceLogger) Debug(ctx context.Context, msg string, args ...any) {
	if l.config.EnableDebug {
		l.logger.DebugContext(ctx, msg, args...)
	}
}
