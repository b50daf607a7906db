package monitor

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const logFile = "logs/trader.log"

// Logger wraps logrus. It is passed explicitly to every component that emits
// events; there is no package-level logger.
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a logger with the given level (debug/info/warn/error)
// and output (console/file/both). Unknown values fall back to info/console.
func NewLogger(level, output string) *Logger {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	var writers []io.Writer
	switch output {
	case "file":
		if file, err := openLogFile(); err != nil {
			logger.Warnf("Failed to open log file: %v, falling back to console", err)
			writers = []io.Writer{os.Stdout}
		} else {
			writers = []io.Writer{file}
		}
	case "both":
		if file, err := openLogFile(); err != nil {
			writers = []io.Writer{os.Stdout}
		} else {
			writers = []io.Writer{os.Stdout, file}
		}
	default:
		writers = []io.Writer{os.Stdout}
	}

	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &Logger{Logger: logger}
}

func openLogFile() (*os.File, error) {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}
