package logging

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"minefield.dev/launcher/internal/configloader"
)

// Configure applies level, formatter and the optional system log hook to logger.
func Configure(logger *logrus.Logger, configuration configloader.Config) (err error) {
	var level logrus.Level
	if level, err = logrus.ParseLevel(configuration.LogLevel); err != nil {
		return errors.Wrap(err, "invalid LOG_LEVEL")
	}
	logger.SetLevel(level)

	switch configuration.LogFormat {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("invalid LOG_FORMAT %q", configuration.LogFormat)
	}

	// Entries keep going to the logger output when the system log is unreachable
	if configuration.LogSyslog {
		hook, hookErr := newSyslogHook()
		if hookErr != nil {
			logger.Warnf("Cannot connect to the system log: %v", hookErr)
			return nil
		}
		logger.AddHook(hook)
	}
	return nil
}
