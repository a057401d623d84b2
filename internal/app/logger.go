package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Accepted values of Config.LogFormat.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// parseLogLevel maps a configured level name to a slog.Level.
func parseLogLevel(name string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(name)]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", name)
	}
	return level, nil
}

// newLogger builds the application logger writing to outW. Unknown levels
// fall back to info; NewConfig rejects them before this is reached. The
// global default logger is left alone.
func newLogger(levelName, format string, outW io.Writer) *slog.Logger {
	level, _ := parseLogLevel(levelName)
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case logFormatJSON:
		return slog.New(slog.NewJSONHandler(outW, opts))
	default:
		return slog.New(slog.NewTextHandler(outW, opts))
	}
}
