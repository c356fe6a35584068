package ros

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger tagged with the given module name. The level
// is taken from ZTELEOP_LOG (debug, info, warn, error) and defaults to
// info.
func NewLogger(module string) *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if v := os.Getenv("ZTELEOP_LOG"); v != "" {
		if level, err := logrus.ParseLevel(v); err == nil {
			logger.SetLevel(level)
		}
	}
	return logger.WithField("module", module)
}

// DiscardLogger returns a logger that writes nothing.
func DiscardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func moduleLogger(logger *logrus.Entry, module string) *logrus.Entry {
	if logger == nil {
		return NewLogger(module)
	}
	return logger.WithField("module", module)
}
