package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MaxGubin/LiteRT/internal/common/fsutil"
	"github.com/MaxGubin/LiteRT/pkg/types"
)

// LoadDir scans a directory for *.tflite files and builds a registry from
// filenames. ID is the filename without extension; Path is the absolute file
// path.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".tflite") {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		p := filepath.Join(abs, name)
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		models = append(models, types.Model{ID: id, Name: id, Path: p, SizeBytes: size})
	}
	return models, nil
}
