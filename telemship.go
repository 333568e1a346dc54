// Package telemship re-exports the embeddable telemetry shipper from
// pkg/telemship for convenient import of the module root.
//
// Example usage:
//
//	cfg := telemship.DefaultConfig()
//	cfg.SpoolDir = "/var/lib/myapp/telemetry"
//	shipper, err := telemship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := shipper.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package telemship

import (
	"github.com/bft-labs/telemship/pkg/telemship"
)

// Config holds the configuration for the telemetry shipper.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = telemship.Config

// Shipper drains a local queue of telemetry batches over HTTP.
type Shipper = telemship.Shipper

// Option configures optional behavior of a Shipper.
type Option = telemship.Option

// EventHandler receives notifications about shipper operations.
type EventHandler = telemship.EventHandler

// New creates a new Shipper with the given configuration.
func New(cfg Config, opts ...Option) (*Shipper, error) {
	return telemship.New(cfg, opts...)
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return telemship.DefaultConfig()
}

// DefaultEndpointURL is the default ingestion endpoint for telemetry batches.
const DefaultEndpointURL = telemship.DefaultEndpointURL
