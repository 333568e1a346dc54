package telemship

// EventHandler receives notifications about shipper operations. Callbacks
// run synchronously on shipper goroutines and must return quickly.
type EventHandler interface {
	// OnSendSuccess is called after a batch was accepted and deleted.
	OnSendSuccess(status int, bytesSent int)

	// OnSendError is called after a failed transmission attempt. retryable
	// is true when the batch was returned to the queue for a later retry.
	OnSendError(err error, retryable bool)

	// OnStateChange is called on every lifecycle state transition.
	OnStateChange(previous, current State, reason string)
}

// sendEvents adapts send outcomes into backoff adjustments and forwards
// them to the optional user handler.
type sendEvents struct {
	handler EventHandler
	backoff *backoff
}

func (e *sendEvents) OnSendSuccess(status int, bytesSent int) {
	e.backoff.Reset()
	if e.handler != nil {
		e.handler.OnSendSuccess(status, bytesSent)
	}
}

func (e *sendEvents) OnSendError(err error, retryable bool) {
	if retryable {
		e.backoff.Step()
	}
	if e.handler != nil {
		e.handler.OnSendError(err, retryable)
	}
}
