package replication

import (
	"github.com/karupanerura/ttlmemcache/logging"
	"github.com/karupanerura/ttlmemcache/metrics"
)

// Option is the interface for the options of a Channel.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// WithByteMode makes Pipe hand encoded records to the destination's Write
// instead of passing records directly.
func WithByteMode(byteMode bool) Option {
	return optionFunc(func(o *options) {
		o.byteMode = byteMode
	})
}

// WithCodec sets the codec of encoded records.
func WithCodec(codec Codec) Option {
	return optionFunc(func(o *options) {
		o.codec = codec
	})
}

// WithLogger sets the logger to the channel.
func WithLogger(logger logging.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = logger
	})
}

// WithErrorHandler sets the function receiving the errors of inbound records.
// The channel keeps processing subsequent records after an error.
func WithErrorHandler(onError func(error)) Option {
	return optionFunc(func(o *options) {
		o.onError = onError
	})
}

// WithMetrics records the channel activity into the registry.
func WithMetrics(registry *metrics.Registry) Option {
	return optionFunc(func(o *options) {
		o.metrics = registry
	})
}

type options struct {
	byteMode bool
	codec    Codec
	logger   logging.Logger
	onError  func(error)
	metrics  *metrics.Registry
}

func defaultOptions() options {
	return options{
		codec:   JSONCodec{},
		logger:  logging.Nop(),
		metrics: metrics.NewRegistry(),
	}
}
