package litert

import "sync"

// lifecycle tracks a wrapper's ownership state. Every wrapper embeds one so
// double release is structurally impossible and use-after-release (or
// use-after-move) is rejected on the Go side before any native call.
type lifecycle struct {
	mu       sync.Mutex
	released bool
	moved    bool
}

// use returns an error if the handle is no longer owned by this wrapper.
func (l *lifecycle) use(op string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released || l.moved {
		return errUseAfterRelease(op)
	}
	return nil
}

// release flips the wrapper to released and reports whether the caller is the
// one that must destroy the native handle. A moved wrapper never destroys:
// ownership already belongs to the consuming call.
func (l *lifecycle) release() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released || l.moved {
		return false
	}
	l.released = true
	return true
}

// move marks the wrapper inert after its handle was consumed by another
// creation call. Fails if the handle was already released or moved.
func (l *lifecycle) move(op string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released || l.moved {
		return errUseAfterRelease(op)
	}
	l.moved = true
	return nil
}
