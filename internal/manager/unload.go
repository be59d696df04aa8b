package manager

import "time"

// Unload drains one instance and removes it from the cache. New admissions
// are refused while draining; in-flight work gets drainTimeout to finish
// before the runner is closed underneath it.
func (m *Manager) Unload(modelID string) error {
	m.mu.Lock()
	inst, ok := m.instances[modelID]
	if !ok {
		m.mu.Unlock()
		return ErrModelNotFound(modelID)
	}
	inst.State = StateDraining
	m.mu.Unlock()

	deadline := time.Now().Add(m.drainTimeout)
	for time.Now().Before(deadline) {
		if len(inst.genCh) == 0 && len(inst.queueCh) == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	m.mu.Lock()
	delete(m.instances, modelID)
	m.mu.Unlock()

	m.log.Info().Str("model", modelID).Msg("unloaded model")
	if inst.runner != nil {
		return inst.runner.Close()
	}
	return nil
}
