package domain

// Outcome classifies the result of one transmission attempt based solely on
// the HTTP status code of the response. Payload content never influences
// classification.
type Outcome int

const (
	// OutcomeSuccess means the batch was accepted and can be deleted.
	OutcomeSuccess Outcome = iota

	// OutcomeRecoverable means a transient server-side or rate-limiting
	// condition; resending the same batch later is expected to succeed.
	OutcomeRecoverable

	// OutcomeUnexpected means the batch was rejected for a reason that
	// resending cannot fix; it must be dropped rather than retried.
	OutcomeUnexpected
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeRecoverable:
		return "RecoverableError"
	case OutcomeUnexpected:
		return "UnexpectedError"
	default:
		return "Unknown"
	}
}

// Status codes that indicate a transient condition worth retrying.
var recoverableStatuses = map[int]struct{}{
	408: {}, // Request Timeout
	429: {}, // Too Many Requests
	500: {}, // Internal Server Error
	503: {}, // Service Unavailable
	511: {}, // Network Authentication Required
}

// Classify maps an HTTP status code to an Outcome.
// 200 through 203 inclusive count as success; the fixed recoverable set
// counts as transient; everything else is unexpected.
func Classify(status int) Outcome {
	if status >= 200 && status <= 203 {
		return OutcomeSuccess
	}
	if _, ok := recoverableStatuses[status]; ok {
		return OutcomeRecoverable
	}
	return OutcomeUnexpected
}
