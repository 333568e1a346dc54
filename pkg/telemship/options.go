package telemship

import (
	"github.com/bft-labs/telemship/internal/config"
	"github.com/bft-labs/telemship/internal/domain"
	"github.com/bft-labs/telemship/internal/ports"
	"github.com/bft-labs/telemship/pkg/log"
)

// Config holds the configuration for a Shipper.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = config.Config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// Handle is an opaque reference to one queued telemetry batch.
type Handle = domain.Handle

// Queue is the durable store of pending telemetry batches. Implement it to
// replace the built-in file spool with your own storage.
type Queue = ports.Queue

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Logger is the interface for structured logging.
type Logger = log.Logger

// Option configures optional behavior of a Shipper.
type Option func(*options)

// options holds the optional configuration for a Shipper instance.
type options struct {
	httpClient   ports.HTTPClient
	logger       log.Logger
	queue        ports.Queue
	eventHandler EventHandler
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithHTTPClient sets a custom HTTP client for endpoint communication.
// If not provided, a client with the configured connect and read timeouts
// is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithQueue injects a custom batch queue in place of the built-in file
// spool. When set, Config.SpoolDir is ignored and the spool watcher is not
// started; trigger sending from your producer instead.
func WithQueue(queue Queue) Option {
	return func(o *options) {
		o.queue = queue
	}
}

// WithEventHandler sets a handler for shipper events.
// Events are called synchronously from shipper goroutines.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
