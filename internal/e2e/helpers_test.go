package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MaxGubin/LiteRT/internal/httpapi"
	"github.com/MaxGubin/LiteRT/internal/manager"
	"github.com/MaxGubin/LiteRT/internal/registry"
	"github.com/MaxGubin/LiteRT/pkg/types"
)

// createTempModelsDir creates a temporary directory populated with empty
// .tflite files and returns the directory path and the model IDs.
func createTempModelsDir(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	ids := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("flatbuffer"), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
		ids = append(ids, n[:len(n)-len(filepath.Ext(n))])
	}
	return dir, ids
}

// stubEngine implements manager.Engine over stubRunner for end-to-end tests
// without the native runtime.
type stubEngine struct {
	runDelay time.Duration
}

func (e *stubEngine) Load(path string) (manager.Runner, error) {
	return &stubRunner{delay: e.runDelay}, nil
}

func (e *stubEngine) Close() error { return nil }

type stubRunner struct {
	delay time.Duration
}

func (r *stubRunner) Signatures() []string { return []string{"serving_default"} }

func (r *stubRunner) Run(ctx context.Context, signature string, inputs []types.Tensor) ([]types.Tensor, error) {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	out := make([]types.Tensor, len(inputs))
	copy(out, inputs)
	return out, nil
}

func (r *stubRunner) Close() error { return nil }

// newServerForDir scans modelsDir and serves the full HTTP stack over cfg.
func newServerForDir(t *testing.T, modelsDir string, cfg manager.ManagerConfig) (*httptest.Server, *manager.Manager) {
	t.Helper()
	reg, err := registry.LoadDir(modelsDir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	cfg.Registry = reg
	mgr := manager.New(cfg)
	t.Cleanup(func() { mgr.Close() })
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
