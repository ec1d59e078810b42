package stl

import (
	"io"
	"log/slog"
)

// Option configures a decode call
type Option func(*options)

type options struct {
	terminatorPrefix bool
	logger           *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// WithTerminatorPrefix makes the ASCII scanner accept "endsolid <name>" as the
// terminator line. By default only a line exactly equal to "endsolid" ends the
// facet body.
func WithTerminatorPrefix() Option {
	return func(o *options) {
		o.terminatorPrefix = true
	}
}

// WithLogger sets the logger used for debug output while decoding
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
