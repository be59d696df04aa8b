package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/MaxGubin/LiteRT/pkg/types"
)

type Manager struct {
	mu           sync.RWMutex
	registry     []types.Model
	defaultModel string
	engine       Engine
	accelName    string
	instances    map[string]*Instance
	jobs         map[string]*job
	closed       bool
	lastError    string

	// compile deduplication: concurrent requests for the same model share
	// one compilation
	compileGroup singleflight.Group

	cacheSize     int
	maxQueueDepth int
	maxWait       time.Duration
	drainTimeout  time.Duration

	evictionsTotal uint64
	compilesTotal  uint64

	startTime time.Time
	log       zerolog.Logger
}

// Ready reports whether the manager can serve requests. True as soon as the
// manager is constructed and not closed; models compile on demand.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.closed
}

// ListModels returns the registry contents.
func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// Close releases every compiled model and the engine. The manager rejects
// work afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	instances := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		instances = append(instances, inst)
	}
	m.instances = make(map[string]*Instance)
	m.mu.Unlock()

	var firstErr error
	for _, inst := range instances {
		if inst.runner == nil {
			continue
		}
		if err := inst.runner.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := m.engine.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// getModelByID finds a model in the registry by id.
func (m *Manager) getModelByID(id string) (types.Model, bool) {
	for _, mdl := range m.registry {
		if mdl.ID == id {
			return mdl, true
		}
	}
	return types.Model{}, false
}

// resolveModelID applies the configured default for an empty request id.
func (m *Manager) resolveModelID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	if m.defaultModel == "" {
		return "", modelNotFoundError{id: "(unspecified)"}
	}
	return m.defaultModel, nil
}
