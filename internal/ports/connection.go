package ports

import "context"

// TransmitResult is the server's answer to one transmission attempt.
type TransmitResult struct {
	// Status is the numeric HTTP response status code.
	Status int

	// Body is the response body, read in full for diagnostics. The error
	// stream is preferred when the server provides one.
	Body string
}

// Connection is a single-use descriptor for one transmission attempt against
// the ingestion endpoint.
type Connection interface {
	// Send writes the payload, issues the request, and waits for a response
	// or transport failure. A non-nil error means no status code was
	// obtained (connection refused, DNS failure, interrupted I/O).
	Send(ctx context.Context, payload string) (TransmitResult, error)
}

// ConnectionBuilder produces connections to the configured ingestion
// endpoint. A nil connection means construction failed; the caller aborts
// the current cycle and the batch stays queued for a future trigger.
type ConnectionBuilder interface {
	Build() Connection
}
