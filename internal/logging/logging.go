package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
func Setup(format string) zerolog.Logger {
	return zerolog.New(consoleWriter(format)).With().Timestamp().Logger()
}

// SetupWithFile is Setup plus a JSON copy of every entry appended to path,
// the run log kept next to the output tables. The returned closer flushes
// and closes the file.
func SetupWithFile(format, path string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}
	w := zerolog.MultiLevelWriter(consoleWriter(format), f)
	return zerolog.New(w).With().Timestamp().Logger(), f, nil
}

func consoleWriter(format string) io.Writer {
	if format == "text" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}
	return os.Stderr
}
