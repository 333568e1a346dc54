package http

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/bft-labs/telemship/internal/ports"
	"github.com/bft-labs/telemship/pkg/log"
)

// DefaultEndpointURL is the default ingestion endpoint for telemetry batches.
const DefaultEndpointURL = "https://gate.hockeyapp.net/v2/track"

// Default transport timeouts for transmission.
const (
	DefaultConnectTimeout = 15 * time.Second
	DefaultReadTimeout    = 10 * time.Second
)

// BuilderConfig holds the endpoint settings for connection construction.
type BuilderConfig struct {
	// EndpointURL overrides the default ingestion endpoint when set.
	// An override that fails to parse falls back to the default rather
	// than failing the send.
	EndpointURL string

	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers.
	ReadTimeout time.Duration

	// Compress enables gzip compression of the payload.
	Compress bool
}

// Builder implements ports.ConnectionBuilder over net/http.
type Builder struct {
	config BuilderConfig
	client ports.HTTPClient
	logger log.Logger
}

// NewBuilder creates a connection builder. When client is nil, a client with
// the configured connect and read timeouts is constructed.
func NewBuilder(config BuilderConfig, client ports.HTTPClient, logger log.Logger) *Builder {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = DefaultReadTimeout
	}
	if client == nil {
		client = NewClient(config.ConnectTimeout, config.ReadTimeout)
	}
	return &Builder{
		config: config,
		client: client,
		logger: logger,
	}
}

// Build produces a single-use connection to the resolved endpoint.
// Returns nil when no usable endpoint URL can be resolved; the caller aborts
// the current send cycle.
func (b *Builder) Build() ports.Connection {
	u := b.resolveURL()
	if u == nil {
		return nil
	}
	return &Connection{
		url:            u,
		client:         b.client,
		compress:       b.config.Compress,
		attemptTimeout: b.config.ConnectTimeout + b.config.ReadTimeout,
	}
}

// resolveURL prefers the override endpoint when it parses; otherwise the
// default endpoint is used.
func (b *Builder) resolveURL() *url.URL {
	if b.config.EndpointURL != "" {
		u, err := url.Parse(b.config.EndpointURL)
		if err == nil && u.Scheme != "" && u.Host != "" {
			return u
		}
		b.logger.Debug("custom endpoint URL does not parse, using default",
			log.String("url", b.config.EndpointURL),
		)
	}

	u, err := url.Parse(DefaultEndpointURL)
	if err != nil {
		b.logger.Error("could not parse default endpoint URL", log.Err(err))
		return nil
	}
	return u
}

// NewClient builds an *http.Client with separate connect and response-header
// timeouts, mirroring the connect/read timeout split of the wire protocol.
// The response body is bounded separately, by the per-attempt deadline that
// Connection.Send places on the request context.
func NewClient(connectTimeout, readTimeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
			ResponseHeaderTimeout: readTimeout,
		},
	}
}
