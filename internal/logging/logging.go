package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger.
func Setup(level string, asJSON bool) error {
	return setup(log.StandardLogger(), os.Stderr, level, asJSON)
}

func setup(logger *log.Logger, w io.Writer, level string, asJSON bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}

	logger.SetOutput(w)
	logger.SetLevel(lvl)

	if asJSON {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{
			DisableTimestamp: true,
		})
	}

	return nil
}
