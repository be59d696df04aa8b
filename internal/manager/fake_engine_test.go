package manager

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/MaxGubin/LiteRT/pkg/types"
)

// fakeEngine counts loads and hands out echoRunners. Load can be made to
// fail or block for backpressure and singleflight tests.
type fakeEngine struct {
	mu      sync.Mutex
	loads   int
	loadErr error
	// loadGate, when set, blocks Load until closed.
	loadGate chan struct{}
	closed   bool
}

func (e *fakeEngine) Load(path string) (Runner, error) {
	e.mu.Lock()
	gate := e.loadGate
	e.mu.Unlock()
	if gate != nil {
		<-gate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	e.loads++
	return &echoRunner{path: path}, nil
}

func (e *fakeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *fakeEngine) loadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loads
}

// echoRunner returns its inputs unchanged. runGate, when set, blocks Run
// until closed so tests can hold the in-flight slot.
type echoRunner struct {
	path    string
	runGate chan struct{}
	runs    atomic.Int64
	closed  atomic.Bool
}

func (r *echoRunner) Signatures() []string { return []string{"serving_default"} }

func (r *echoRunner) Run(ctx context.Context, signature string, inputs []types.Tensor) ([]types.Tensor, error) {
	r.runs.Add(1)
	if r.runGate != nil {
		select {
		case <-r.runGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	out := make([]types.Tensor, len(inputs))
	copy(out, inputs)
	return out, nil
}

func (r *echoRunner) Close() error {
	r.closed.Store(true)
	return nil
}
