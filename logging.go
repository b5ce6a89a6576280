// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"context"
	"log/slog"
)

// Logger is the logging sink handed to NewAllocator by the host process.
// Any logger with these five methods works; SlogLogger adapts the
// standard library's *slog.Logger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// levelTrace sits one tick below slog.LevelDebug, following the common
// slog convention for a "more verbose than debug" level.
const levelTrace = slog.Level(-8)

// SlogLogger adapts *slog.Logger to the Logger interface, attaching
// structured fields per pipeline stage via With.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger wraps the given *slog.Logger. A nil logger falls back to
// slog.Default(), read once when NewSlogLogger is called; a later
// slog.SetDefault() does not change a SlogLogger already built.
func NewSlogLogger(log *slog.Logger) SlogLogger {
	if log == nil {
		log = slog.Default()
	}
	return SlogLogger{log: log}
}

func (s SlogLogger) Trace(msg string, args ...any) {
	s.log.Log(context.Background(), levelTrace, msg, args...)
}
func (s SlogLogger) Debug(msg string, args ...any) { s.log.Debug(msg, args...) }
func (s SlogLogger) Info(msg string, args ...any)  { s.log.Info(msg, args...) }
func (s SlogLogger) Warn(msg string, args ...any)  { s.log.Warn(msg, args...) }
func (s SlogLogger) Error(msg string, args ...any) { s.log.Error(msg, args...) }

// With returns a new SlogLogger with the given structured args attached to
// every subsequent call, mirroring the teacher's per-stage stepLog.
func (s SlogLogger) With(args ...any) SlogLogger {
	return SlogLogger{log: s.log.With(args...)}
}

// loggerWith attaches structured args to l if it knows how (SlogLogger
// does via With), otherwise returns l unchanged. This lets the pipeline
// interpreter tag every stage's log lines without requiring every Logger
// implementation to support structured fields.
func loggerWith(l Logger, args ...any) Logger {
	if w, ok := l.(interface{ With(args ...any) SlogLogger }); ok {
		return w.With(args...)
	}
	return l
}

// noopLogger discards everything; used when the caller passes a nil Logger.
type noopLogger struct{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
