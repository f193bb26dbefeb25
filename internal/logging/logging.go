package logging

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger configured from the environment. Output goes to
// stderr so that stdout stays free for the machine-readable summary the
// workflow runner parses.
func NewLogger(service string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if os.Getenv("LOG_FORMAT") == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(logLevel())

	return logger.WithFields(logrus.Fields{
		"service": service,
		"run_id":  uuid.New().String(),
	})
}

func logLevel() logrus.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
