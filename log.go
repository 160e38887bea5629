package mempool

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.Formatter = newTextFormatter()
}

func newTextFormatter() *logrus.TextFormatter {
	return &logrus.TextFormatter{
		TimestampFormat: "Jan 02 15:04:05",
		FullTimestamp:   true,
		DisableColors:   true,
	}
}

// Logger returns the package logger used by pools that are not given one.
func Logger() *logrus.Logger {
	return log
}

// newEntry builds the per-pool log entry. An explicit level from the config
// is applied to the package logger only, never to a caller supplied one.
func newEntry(c Config) *logrus.Entry {
	l := c.Logger
	if l == nil {
		l = log
		if lvl, err := logrus.ParseLevel(c.LogLevel); c.LogLevel != "" && err == nil {
			l.SetLevel(lvl)
		}
	}
	return l.WithField("prefix", "mempool")
}
