package infinitable

import (
	"io"
	"log/slog"
	"os"
)

// logLevel controls the level for every logger created by this package.
// Default is LevelInfo, which hides the per-frame debug output.
var logLevel = new(slog.LevelVar)

// SetVerbose switches package logging between debug and info.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
}

// verbose reports whether debug logging is on, so hot paths can skip
// building attributes nobody will see.
func verbose() bool {
	return logLevel.Level() <= slog.LevelDebug
}

// NewLogger returns a text logger writing to w at the package level.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

var defaultLogger = NewLogger(os.Stderr)
