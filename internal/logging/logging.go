// Package logging configures the logrus logger shared by partkit commands.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool      // If false, all logging is discarded
	Level   string    // Minimum log level name. Default: "info"
	Format  string    // FormatText or FormatJSON. Default: FormatText
	Output  io.Writer // Destination. Default: os.Stderr
}

// Init configures the standard logrus logger and returns it.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) (*logrus.Logger, error) {
	return configure(logrus.StandardLogger(), opts)
}

// New returns a fresh logger configured by opts.
func New(opts Options) (*logrus.Logger, error) {
	return configure(logrus.New(), opts)
}

func configure(l *logrus.Logger, opts Options) (*logrus.Logger, error) {
	if !opts.Enabled {
		l.SetOutput(io.Discard)
		return l, nil
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
		level = parsed
	}
	l.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("invalid log format %q", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)
	return l, nil
}
