package litert

import (
	"context"
	"sync"
	"time"
)

// waitSlice is how long each native wait blocks between context checks.
// The native API has no interruption primitive, so cancellation is advisory
// polling on this granularity.
const waitSlice = 20 * time.Millisecond

// Event signals completion of an asynchronous execution. It starts
// unsignaled; Wait consumes it exactly once and unfences the buffers the
// execution referenced. The caller destroys the event when done.
type Event struct {
	lc  lifecycle
	api nativeAPI
	h   ref

	mu       sync.Mutex
	consumed bool
	fenced   []*TensorBuffer
}

// Signaled polls the event without blocking.
func (e *Event) Signaled() (bool, error) {
	const op = "event signaled"
	if err := e.lc.use(op); err != nil {
		return false, err
	}
	s, st := e.api.EventSignaled(e.h)
	if st != StatusOk {
		return false, statusErr(op, st)
	}
	return s, nil
}

// Wait blocks until the execution completes or ctx is done. It succeeds at
// most once per event; the buffers referenced by the execution become
// readable again only after that success. A second Wait fails.
func (e *Event) Wait(ctx context.Context) error {
	const op = "event wait"
	if err := e.lc.use(op); err != nil {
		return err
	}
	e.mu.Lock()
	if e.consumed {
		e.mu.Unlock()
		return errInvalid(op, "event already consumed")
	}
	e.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		st := e.api.WaitEvent(e.h, waitSlice)
		switch st {
		case StatusOk:
			e.mu.Lock()
			if e.consumed {
				// lost the race to a concurrent Wait
				e.mu.Unlock()
				return errInvalid(op, "event already consumed")
			}
			e.consumed = true
			fenced := e.fenced
			e.fenced = nil
			e.mu.Unlock()
			for _, b := range fenced {
				b.clearPending(e)
			}
			return nil
		case StatusErrorTimeoutExpired:
			// re-check ctx and wait again
		default:
			return statusErr(op, st)
		}
	}
}

// Destroy releases the event. Safe to call more than once. Destroying an
// unconsumed event leaks the fence on its buffers; wait first.
func (e *Event) Destroy() error {
	if e.lc.release() {
		e.api.DestroyEvent(e.h)
	}
	return nil
}
