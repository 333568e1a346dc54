package domain

// Handle is an opaque reference to one queued telemetry batch. For the file
// spool queue it is the path of the batch file; custom queue implementations
// may encode whatever identifier they need.
type Handle string

// String returns the handle's identifier.
func (h Handle) String() string {
	return string(h)
}
