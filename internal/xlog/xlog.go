// Package xlog is the decode pipeline's minimal leveled-logging
// collaborator: recoverable events (an unknown XML element skipped, a
// probe that declined to match) are reported through it rather than
// ad-hoc fmt.Println calls, the way pkg/errors carries structured
// context through every layer instead of bare error strings. No pack
// example wires a logging library (zap/logrus/zerolog never appear in
// any retrieved go.mod), so this is built on stdlib log/slog rather than
// a third-party logger.
package xlog

import "log/slog"

// Logger is the narrow interface the decode pipeline depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Default is the package-level Logger every layer of the decode pipeline
// consults — a shared collaborator rather than a constructor parameter
// threaded through every call, the way pkg/errors is reached for from
// anywhere without being passed down explicitly. It starts as a no-op so
// library consumers must opt in.
var Default Logger = nopLogger{}

// SetDefault installs l as the package-level Default logger. Passing nil
// restores the no-op default.
func SetDefault(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	Default = l
}

// FromSlog adapts an existing *slog.Logger — the common case for a
// caller application that already uses log/slog — to Logger.
func FromSlog(l *slog.Logger) Logger {
	return slogLogger{l}
}

type slogLogger struct{ l *slog.Logger }

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
