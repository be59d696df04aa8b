package manager

import (
	"context"
	"time"
)

// ensureInstance returns the ready instance for modelID, compiling it on
// first use. Concurrent calls for the same model share one compilation via
// singleflight; the cache is evicted to capacity before a new compile.
func (m *Manager) ensureInstance(ctx context.Context, modelID string) (*Instance, error) {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, modelNotFoundError{id: modelID}
	}
	inst, ok := m.instances[modelID]
	m.mu.RUnlock()
	if ok && inst.State == StateReady {
		m.mu.Lock()
		inst.LastUsed = time.Now()
		m.mu.Unlock()
		return inst, nil
	}

	mdl, ok := m.getModelByID(modelID)
	if !ok {
		return nil, ErrModelNotFound(modelID)
	}

	// Fail fast when the caller already gave up.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := m.compileGroup.Do(modelID, func() (any, error) {
		// Re-check under the group: a previous flight may have completed
		// while this call queued.
		m.mu.RLock()
		if inst, ok := m.instances[modelID]; ok && inst.State == StateReady {
			m.mu.RUnlock()
			return inst, nil
		}
		m.mu.RUnlock()

		m.evictToCap()

		start := time.Now()
		m.log.Info().Str("model", modelID).Str("path", mdl.Path).Msg("compile start")
		runner, err := m.engine.Load(mdl.Path)
		if err != nil {
			m.log.Error().Str("model", modelID).Err(err).Msg("compile failed")
			m.mu.Lock()
			m.lastError = err.Error()
			m.mu.Unlock()
			return nil, err
		}
		inst := &Instance{
			ID:         modelID,
			State:      StateReady,
			LastUsed:   time.Now(),
			Signatures: runner.Signatures(),
			genCh:      make(chan struct{}, 1),
			queueCh:    make(chan struct{}, m.maxQueueDepth),
			runner:     runner,
		}
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			runner.Close()
			return nil, modelNotFoundError{id: modelID}
		}
		m.instances[modelID] = inst
		m.compilesTotal++
		m.lastError = ""
		m.mu.Unlock()
		m.log.Info().Str("model", modelID).Dur("dur", time.Since(start)).Msg("compile done")
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Instance), nil
}
