package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// SetupHandler configures a text slog handler with the provided writer and log level.
func SetupHandler(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	lvl := log.InfoLevel
	switch strings.ToLower(logLevel) {
	case "debug":
		lvl = log.DebugLevel
	case "info":
		lvl = log.InfoLevel
	case "warn", "warning":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
	})
}

// Setup installs the default slog logger based on the provided log level.
func Setup(logLevel string) {
	slog.SetDefault(slog.New(SetupHandler(logLevel, nil)))
}
