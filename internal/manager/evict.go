package manager

// evictToCap removes LRU idle instances until a new compile fits the cache
// cap. Instances with queued or in-flight work are skipped; if everything is
// busy the cache is allowed to exceed the cap temporarily.
func (m *Manager) evictToCap() {
	for {
		m.mu.Lock()
		if len(m.instances) < m.cacheSize {
			m.mu.Unlock()
			return
		}
		var lru *Instance
		for _, inst := range m.instances {
			if len(inst.genCh) > 0 || len(inst.queueCh) > 0 {
				// active or has queued work
				continue
			}
			if inst.State != StateReady {
				continue
			}
			if lru == nil || inst.LastUsed.Before(lru.LastUsed) {
				lru = inst
			}
		}
		if lru == nil {
			// nothing evictable
			m.mu.Unlock()
			return
		}
		delete(m.instances, lru.ID)
		m.evictionsTotal++
		m.mu.Unlock()

		m.log.Info().Str("model", lru.ID).Msg("evicted compiled model")
		if lru.runner != nil {
			lru.runner.Close()
		}
	}
}
