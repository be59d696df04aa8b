package manager

import (
	"context"
	"time"
)

// beginInference admits one request to inst. A queue slot is taken first; a
// full queue rejects immediately. The request then waits up to maxWait for
// the single in-flight slot. The returned release func gives both slots back
// and must be called exactly once.
func (m *Manager) beginInference(ctx context.Context, inst *Instance) (release func(), err error) {
	m.mu.RLock()
	draining := inst.State == StateDraining || m.closed
	m.mu.RUnlock()
	if draining {
		return nil, tooBusyError{modelID: inst.ID}
	}

	select {
	case inst.queueCh <- struct{}{}:
	default:
		return nil, tooBusyError{modelID: inst.ID}
	}

	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case inst.genCh <- struct{}{}:
	case <-timer.C:
		<-inst.queueCh
		return nil, tooBusyError{modelID: inst.ID}
	case <-ctx.Done():
		<-inst.queueCh
		return nil, ctx.Err()
	}

	return func() {
		<-inst.genCh
		<-inst.queueCh
	}, nil
}
