package logger

import (
	"fmt"
	"io"
	"os"
)

// SetupLogger initializes the default logger from CLI settings.
// A non-empty logFile redirects output, which keeps the TUI alt screen clean.
func SetupLogger(logLevel string, logJSON, logSource bool, logFile string) (io.Closer, error) {
	level := LogLevel(logLevel)
	switch level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, DisabledLevel:
	default:
		level = InfoLevel
	}
	var out io.Writer = os.Stderr
	var closer io.Closer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		out = f
		closer = f
	}
	Init(&Config{
		Level:      level,
		Output:     out,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
	return closer, nil
}
