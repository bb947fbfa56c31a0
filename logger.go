package spikego

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with spikego-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithGrid adds the lattice grid size to the logger.
func (l *Logger) WithGrid(gridSize int) *Logger {
	return &Logger{
		Logger: l.Logger.With("grid_size", gridSize),
	}
}

// WithLabel adds a class label field to the logger.
func (l *Logger) WithLabel(label int) *Logger {
	return &Logger{
		Logger: l.Logger.With("label", label),
	}
}

// WithNeuronCount adds a neuron count field to the logger.
func (l *Logger) WithNeuronCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("neurons", count),
	}
}

// LogProcess logs the encoding of one sample into the lattice.
func (l *Logger) LogProcess(ctx context.Context, pixels, spikes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "process failed",
			"pixels", pixels,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "process completed",
			"pixels", pixels,
			"spikes", spikes,
		)
	}
}

// LogTrain logs a training operation.
func (l *Logger) LogTrain(ctx context.Context, label int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "train failed",
			"label", label,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "train completed",
			"label", label,
		)
	}
}

// LogClassify logs a classification operation.
func (l *Logger) LogClassify(ctx context.Context, label int, confidence float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "classify failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "classify completed",
			"label", label,
			"confidence", confidence,
		)
	}
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"op", op,
			"name", name,
			"duration", duration,
		)
	}
}
