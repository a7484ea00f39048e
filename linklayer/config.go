package linklayer

import (
	"time"

	"github.com/diwakrZha/node-open-protocol-v2/logger"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

// Default configuration values.
const (
	DefaultTimeout    = 3000 * time.Millisecond
	DefaultRetryLimit = 3

	// senderQueueSize bounds the number of outbound writes the loop will
	// accept before Write blocks, mirroring secs1.ConnectionConfig's
	// senderQueueSize.
	senderQueueSize = 16

	// deliveryQueueSize bounds the upward-delivery backpressure buffer.
	deliveryQueueSize = 16
)

// Config holds a LinkLayer's options, built with NewConfig and functional
// options, mirroring secs1.NewConnectionConfig's range-validated
// functional-option shape.
type Config struct {
	timeout           time.Duration
	retryLimit        int
	rawData           bool
	disableMidParsing map[uint16]bool
	logger            logger.Logger
	registry          *mid.Registry
}

// Option configures a Config.
type Option func(*Config)

// WithTimeout sets the retransmit interval. Values <= 0 are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryLimit sets the maximum number of retransmits before a pending
// write fails with ErrTimeout. Negative values are ignored.
func WithRetryLimit(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.retryLimit = n
		}
	}
}

// WithRawData enables attaching the original framed bytes to every
// delivered Message.
func WithRawData(enabled bool) Option {
	return func(c *Config) { c.rawData = enabled }
}

// WithDisableMidParsing marks the given MIDs to be delivered as raw bytes,
// bypassing the MID Parser.
func WithDisableMidParsing(mids ...uint16) Option {
	return func(c *Config) {
		for _, m := range mids {
			c.disableMidParsing[m] = true
		}
	}
}

// WithLogger sets the Config's logger. Defaults to logger.GetLogger().
func WithLogger(l logger.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// WithRegistry sets the MID codec registry used to parse/serialize
// payloads. Defaults to mid.Default.
func WithRegistry(r *mid.Registry) Option {
	return func(c *Config) { c.registry = r }
}

// NewConfig builds a Config from opts, applying the documented defaults
// for any option not supplied.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		timeout:           DefaultTimeout,
		retryLimit:        DefaultRetryLimit,
		disableMidParsing: make(map[uint16]bool),
		logger:            logger.GetLogger(),
		registry:          mid.Default,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Timeout returns the configured retransmit interval.
func (c *Config) Timeout() time.Duration { return c.timeout }

// RetryLimit returns the configured maximum retransmit count.
func (c *Config) RetryLimit() int { return c.retryLimit }

// RawData returns whether raw-data mode is enabled.
func (c *Config) RawData() bool { return c.rawData }

// MidParsingDisabled reports whether the given MID bypasses the MID Parser.
func (c *Config) MidParsingDisabled(m uint16) bool { return c.disableMidParsing[m] }
