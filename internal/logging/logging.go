// Package logging builds the loggers used by the host.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv forces debug logging when set to a true value.
const DebugEnv = "SLOTGRAPH_DEBUG"

// New returns a text logger writing to stderr at the given level.
// An empty level means info.
func New(level string) (*logrus.Logger, error) {
	return NewWithOutput(os.Stderr, level)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(w io.Writer, level string) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	l.SetLevel(lvl)

	if debugForced() {
		l.SetLevel(logrus.DebugLevel)
	}

	return l, nil
}

func debugForced() bool {
	debug, err := strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		return false
	}
	return debug
}
