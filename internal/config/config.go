package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/telemship/internal/adapters/fs"
	adapterhttp "github.com/bft-labs/telemship/internal/adapters/http"
	"github.com/bft-labs/telemship/internal/app"
)

// Config holds the configuration for the telemetry shipper.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// EndpointURL overrides the default ingestion endpoint when set.
	EndpointURL string

	// SpoolDir is the directory holding queued batch files. Required unless
	// a custom queue is injected.
	SpoolDir string

	// MaxSpoolFiles bounds the number of batch files kept in the spool.
	MaxSpoolFiles int

	// ConnectTimeout bounds connection establishment per attempt.
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers per attempt.
	ReadTimeout time.Duration

	// SendInterval is the period of the automatic trigger.
	SendInterval time.Duration

	// BackoffMax caps the trigger interval while the endpoint keeps
	// answering with recoverable errors.
	BackoffMax time.Duration

	// MaxRequests caps the number of concurrent transmission attempts.
	MaxRequests int

	// Compress enables gzip compression of outgoing payloads.
	Compress bool

	// LogPayloads logs outgoing payloads verbatim at debug level. Off by
	// default: telemetry content may be sensitive.
	LogPayloads bool

	// WatchSpool triggers sending when a new batch file lands in the spool.
	WatchSpool bool

	// Once drains the queue a single time and exits instead of running the
	// periodic trigger.
	Once bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MaxSpoolFiles:  fs.DefaultMaxFiles,
		ConnectTimeout: adapterhttp.DefaultConnectTimeout,
		ReadTimeout:    adapterhttp.DefaultReadTimeout,
		SendInterval:   15 * time.Second,
		BackoffMax:     5 * time.Minute,
		MaxRequests:    app.DefaultMaxRequests,
		Compress:       true,
		WatchSpool:     true,
	}
}

// Validate checks the configuration for errors.
// An unparseable EndpointURL is deliberately not an error: the connection
// builder falls back to the default endpoint at send time.
func (c *Config) Validate() error {
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.SendInterval <= 0 {
		return fmt.Errorf("send interval must be positive")
	}
	if c.BackoffMax < c.SendInterval {
		return fmt.Errorf("backoff max must be at least the send interval")
	}
	if c.MaxRequests <= 0 {
		return fmt.Errorf("max requests must be positive")
	}
	if c.MaxSpoolFiles <= 0 {
		return fmt.Errorf("max spool files must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value if present and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration value if not empty and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses and sets an int value if not empty and flag not changed.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for %s: %w", flag, err)
	}
	*dst = n
	return nil
}

// setBoolFromString parses and sets a bool value if not empty and flag not changed.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for %s: %w", flag, err)
	}
	*dst = b
	return nil
}
