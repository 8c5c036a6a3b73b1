package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// Log is the site-wide structured logger.
var Log = logrus.New()

// LogFilePath returns the path to the site log file.
func LogFilePath() string {
	return filepath.Join("logs", "imex-website.log")
}

// InitLogging prepares the log file and configures Log to write JSON to
// stdout and the log file.
func InitLogging(level string) (*os.File, io.Writer) {
	Log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		Log.SetLevel(lvl)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}

	if err := os.MkdirAll(filepath.Dir(LogFilePath()), os.ModePerm); err != nil {
		Log.WithError(err).Warn("Failed to create logs directory")
	}

	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		Log.WithError(err).Warn("Failed to open log file")
		LogWriter = os.Stdout
		Log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	Log.SetOutput(LogWriter)
	return logFile, LogWriter
}
