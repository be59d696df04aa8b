package manager

import (
	"sort"
	"time"

	"github.com/MaxGubin/LiteRT/pkg/litert"

	"github.com/MaxGubin/LiteRT/pkg/types"
)

// Status reports resident instances and runtime counters for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	instances := make([]types.InstanceStatus, 0, len(m.instances))
	for _, inst := range m.instances {
		instances = append(instances, types.InstanceStatus{
			ModelID:       inst.ID,
			State:         string(inst.State),
			LastUsed:      inst.LastUsed.Unix(),
			Signatures:    inst.Signatures,
			QueueLen:      len(inst.queueCh),
			Inflight:      len(inst.genCh),
			MaxQueueDepth: m.maxQueueDepth,
		})
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].ModelID < instances[j].ModelID })

	return types.StatusResponse{
		Instances:        instances,
		CacheCapacity:    m.cacheSize,
		RuntimeAvailable: litert.Available(),
		Accelerator:      m.accelName,
		EvictionsTotal:   m.evictionsTotal,
		CompilesTotal:    m.compilesTotal,
		JobsTracked:      len(m.jobs),
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
		Error:            m.lastError,
	}
}
