package sinkdag

import "log/slog"

// noopLogger returns a logger that discards everything, so a nil logger
// passed via WithLogger (the default) costs nothing on the build path.
// Grounded on tigerwill90-fox/logger.go and
// yesoreyeram-thaiyyal/backend/pkg/logging/logger.go, both of which wrap
// log/slog rather than a third-party logging library - no repo in the
// pack reaches for one, so slog is the idiom this module follows too.
func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func resolveLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return noopLogger()
	}
	return l
}
