// Package gwlog is the gateway's process-wide logging discipline (spec
// §4.J): initialised before any subsystem, always writes to stderr, and
// every other package routes through it instead of touching stdout or the
// standard log package directly. Mirrors the teacher's singleton-over-an-
// atomic-pointer design (pkg/logger) but built directly on log/slog rather
// than a private wrapper module.
package gwlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var singleton atomic.Pointer[slog.Logger]

func init() {
	singleton.Store(newDefault())
}

func newDefault() *slog.Logger {
	level := levelFromEnv(os.Getenv("LOG_LEVEL"))
	if strings.EqualFold(os.Getenv("ADMIN_MODE"), "true") {
		level = slog.LevelError
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

func levelFromEnv(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "silent":
		// slog has no "off" level; pin above Error so nothing emits.
		return slog.Level(64)
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

// Init (re)configures the singleton logger. Call once at process startup,
// before any other subsystem logs; safe to call again (e.g. in tests) since
// the pointer swap is atomic.
func Init(level slog.Level, adminMode bool) {
	if adminMode && level < slog.LevelError {
		level = slog.LevelError
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	singleton.Store(slog.New(h))
}

// SetOutput is a test hook: repoints the singleton at an arbitrary writer
// with a debug-level handler, replacing any level set by Init.
func SetOutput(w interface{ Write([]byte) (int, error) }) {
	l := singleton.Load()
	_ = l
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	singleton.Store(slog.New(h))
}

func log() *slog.Logger { return singleton.Load() }

func Debug(msg string)                  { log().Debug(msg) }
func Debugf(format string, args ...any)  { log().Debug(sprintf(format, args...)) }
func Debugw(msg string, kv ...any)       { log().Debug(msg, kv...) }
func Info(msg string)                   { log().Info(msg) }
func Infof(format string, args ...any)  { log().Info(sprintf(format, args...)) }
func Infow(msg string, kv ...any)       { log().Info(msg, kv...) }
func Warn(msg string)                  { log().Warn(msg) }
func Warnf(format string, args ...any) { log().Warn(sprintf(format, args...)) }
func Warnw(msg string, kv ...any)      { log().Warn(msg, kv...) }
func Error(msg string)                  { log().Error(msg) }
func Errorf(format string, args ...any) { log().Error(sprintf(format, args...)) }
func Errorw(msg string, kv ...any)      { log().Error(msg, kv...) }

// WithContext attaches request-scoped fields (e.g. a correlation id) for the
// duration of a call chain; callers that don't need it can ignore it.
func WithContext(_ context.Context, kv ...any) *slog.Logger {
	return log().With(kv...)
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
