package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

/*
Init sends the default charm logger to a file, so a full-screen terminal UI
keeps the screen to itself. The returned function restores stderr and
closes the file.
*/
func Init(logFilePath string) (func() error, error) {
	if dir := filepath.Dir(logFilePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)

	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFilePath, err)
	}

	redirect(logFile)
	log.Info("logging initialized", "file", logFilePath)

	return func() error {
		log.Info("closing log file")
		redirect(os.Stderr)
		return logFile.Close()
	}, nil
}

func redirect(out io.Writer) {
	log.SetOutput(out)
	log.SetReportTimestamp(true)
	log.SetReportCaller(out != os.Stderr)
}

/*
SetLevel parses a level name such as "debug" or "warn". Unknown names leave
the level at info.
*/
func SetLevel(level string) {
	parsed, err := log.ParseLevel(level)

	if err != nil {
		log.Warn("unknown log level, using info", "level", level)
		parsed = log.InfoLevel
	}

	log.SetLevel(parsed)
}
