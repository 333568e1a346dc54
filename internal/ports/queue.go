package ports

import "github.com/bft-labs/telemship/internal/domain"

// Queue is the durable store of pending telemetry batches. The transmission
// engine never owns batch data; every state change goes through the queue.
//
// A batch returned by NextAvailable is claimed: the queue must not hand it
// to another caller until MakeAvailable returns it or Delete removes it.
// Claims are not required to survive a process restart.
type Queue interface {
	// NextAvailable claims the next batch awaiting transmission.
	// Returns false when no batch is available.
	NextAvailable() (domain.Handle, bool)

	// Load reads the serialized payload for a claimed batch.
	// An empty payload with nil error means the stored data is corrupt or
	// stale; callers are expected to delete such batches.
	Load(h domain.Handle) (string, error)

	// Delete removes a batch permanently. Deleting a batch that no longer
	// exists is not an error.
	Delete(h domain.Handle) error

	// MakeAvailable returns a claimed batch to the available pool so a
	// future transmission attempt can pick it up again. Releasing a batch
	// that is not claimed is not an error.
	MakeAvailable(h domain.Handle) error
}
