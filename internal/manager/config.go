package manager

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/MaxGubin/LiteRT/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultCacheSize     = 4
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
	defaultDrainTimeout  = 5 * time.Second
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Registry     []types.Model
	DefaultModel string
	// Engine serves compilations; required. Use UnavailableEngine when no
	// native runtime is linked in.
	Engine Engine
	// CacheSize caps how many compiled models stay resident.
	CacheSize     int
	MaxQueueDepth int
	MaxWait       time.Duration
	DrainTimeout  time.Duration
	// AcceleratorName is reported in /status.
	AcceleratorName string
	// Logger for compile/evict events; Nop when unset.
	Logger *zerolog.Logger
}

// New constructs a Manager from ManagerConfig, applying package defaults.
func New(cfg ManagerConfig) *Manager {
	m := &Manager{
		registry:     cfg.Registry,
		defaultModel: cfg.DefaultModel,
		engine:       cfg.Engine,
		accelName:    cfg.AcceleratorName,
		instances:    make(map[string]*Instance),
		jobs:         make(map[string]*job),
	}
	if m.engine == nil {
		m.engine = UnavailableEngine(errors.New("no engine configured"))
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	} else {
		m.log = zerolog.Nop()
	}
	if cfg.CacheSize <= 0 {
		m.cacheSize = defaultCacheSize
	} else {
		m.cacheSize = cfg.CacheSize
	}
	if cfg.MaxQueueDepth <= 0 {
		m.maxQueueDepth = defaultMaxQueueDepth
	} else {
		m.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		m.maxWait = defaultMaxWait
	} else {
		m.maxWait = cfg.MaxWait
	}
	if cfg.DrainTimeout <= 0 {
		m.drainTimeout = defaultDrainTimeout
	} else {
		m.drainTimeout = cfg.DrainTimeout
	}
	m.startTime = time.Now()
	return m
}
