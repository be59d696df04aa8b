package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir    string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	DefaultModel string `json:"default_model" yaml:"default_model" toml:"default_model"`
	// Accelerator selects compilation targets: none, cpu, gpu, npu.
	Accelerator string `json:"accelerator" yaml:"accelerator" toml:"accelerator"`
	// DispatchLibraryDir points the runtime at vendor dispatch libraries.
	DispatchLibraryDir string `json:"dispatch_library_dir" yaml:"dispatch_library_dir" toml:"dispatch_library_dir"`
	// CacheSize caps how many compiled models stay resident (0=default).
	CacheSize int `json:"cache_size" yaml:"cache_size" toml:"cache_size"`
	// MaxQueueDepth bounds queued requests per compiled model (0=default).
	MaxQueueDepth int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	// MaxWaitMS bounds how long a request waits for admission (0=default).
	MaxWaitMS int `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
