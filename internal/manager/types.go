package manager

import "time"

// State represents lifecycle state of the manager/instances.
type State string

const (
	StateReady     State = "ready"
	StateCompiling State = "compiling"
	StateDraining  State = "draining"
	StateError     State = "error"
)

// Instance represents one compiled model kept resident (one per model id).
type Instance struct {
	ID         string
	State      State
	LastUsed   time.Time
	Signatures []string
	// Queueing primitives
	genCh   chan struct{} // size 1: single in-flight execution per instance
	queueCh chan struct{} // buffered: queue slots
	// Runner backing this instance
	runner Runner
}
