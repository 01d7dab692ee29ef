package partition

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures a Table at construction.
type Option func(*options)

type options struct {
	policy      Policy
	uniqueNames bool
	log         logrus.FieldLogger
}

func defaultOptions() options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return options{
		policy: FirstFit,
		log:    l,
	}
}

// WithPolicy sets the selection policy. Default: FirstFit.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithUniqueNames makes Allocate reject a name that is already resident.
// Without it, the same name may occupy several partitions at once.
func WithUniqueNames() Option {
	return func(o *options) { o.uniqueNames = true }
}

// WithLogger routes allocation and release events to log at debug level.
// Default: events are discarded.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
