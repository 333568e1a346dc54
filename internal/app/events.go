package app

// SendEventEmitter is called on the outcome of each transmission attempt.
// Callbacks run synchronously on the sending goroutine and must return
// quickly.
type SendEventEmitter interface {
	// OnSendSuccess is called after a batch was accepted and deleted.
	OnSendSuccess(status int, bytesSent int)

	// OnSendError is called after a failed attempt. retryable is true for
	// transport failures and recoverable server conditions, where the batch
	// was returned to the queue.
	OnSendError(err error, retryable bool)
}
