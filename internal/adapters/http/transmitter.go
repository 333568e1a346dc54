package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bft-labs/telemship/internal/ports"
)

// contentType is the wire format of a telemetry batch: newline-delimited
// JSON records.
const contentType = "application/x-json-stream"

// Connection implements ports.Connection for one POST to the ingestion
// endpoint.
type Connection struct {
	url            *url.URL
	client         ports.HTTPClient
	compress       bool
	attemptTimeout time.Duration
}

// URL returns the resolved endpoint for this connection.
func (c *Connection) URL() string {
	return c.url.String()
}

// Send writes the payload, issues the request, and waits for a response or
// transport failure. The response body is read in full for diagnostics.
func (c *Connection) Send(ctx context.Context, payload string) (ports.TransmitResult, error) {
	body, encoding, err := encodePayload(payload, c.compress)
	if err != nil {
		return ports.TransmitResult{}, fmt.Errorf("encode payload: %w", err)
	}

	// The transport bounds dialing and the header wait individually, but only
	// a deadline on the request covers a stalled response body.
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url.String(), body)
	if err != nil {
		return ports.TransmitResult{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "no-cache")
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ports.TransmitResult{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// The status code already arrived; classification does not depend
		// on the body, so a truncated body is only a diagnostics loss.
		respBody = []byte(fmt.Sprintf("(failed to read response body: %v)", err))
	}

	return ports.TransmitResult{
		Status: resp.StatusCode,
		Body:   string(respBody),
	}, nil
}

// encodePayload prepares the request body, gzip-compressed when enabled.
// The returned encoding is the Content-Encoding header value, empty for a
// plain write.
func encodePayload(payload string, compress bool) (io.Reader, string, error) {
	if !compress {
		return strings.NewReader(payload), "", nil
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := io.WriteString(gz, payload); err != nil {
		return nil, "", err
	}
	if err := gz.Close(); err != nil {
		return nil, "", err
	}
	return &buf, "gzip", nil
}
