package manager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MaxGubin/LiteRT/pkg/litert"
	"github.com/MaxGubin/LiteRT/pkg/types"
)

func testRegistry() []types.Model {
	return []types.Model{
		{ID: "alpha", Name: "alpha", Path: "/models/alpha.tflite", SizeBytes: 128},
		{ID: "beta", Name: "beta", Path: "/models/beta.tflite", SizeBytes: 256},
		{ID: "gamma", Name: "gamma", Path: "/models/gamma.tflite", SizeBytes: 512},
	}
}

func newTestManager(t *testing.T, eng Engine, mutate func(*ManagerConfig)) *Manager {
	t.Helper()
	cfg := ManagerConfig{
		Registry:     testRegistry(),
		DefaultModel: "alpha",
		Engine:       eng,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	m := New(cfg)
	t.Cleanup(func() { m.Close() })
	return m
}

func inferReq(model string) types.InferRequest {
	return types.InferRequest{
		Model:  model,
		Inputs: []types.Tensor{{Name: "in0", Dims: []int32{1, 4}, Data: []float32{1, 2, 3, 4}}},
	}
}

func TestInferCompilesOnDemandAndEchoes(t *testing.T) {
	eng := &fakeEngine{}
	m := newTestManager(t, eng, nil)

	resp, err := m.Infer(context.Background(), inferReq("alpha"))
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if resp.Model != "alpha" {
		t.Fatalf("resp.Model = %q, want alpha", resp.Model)
	}
	if len(resp.Outputs) != 1 || len(resp.Outputs[0].Data) != 4 {
		t.Fatalf("unexpected outputs: %+v", resp.Outputs)
	}
	if eng.loadCount() != 1 {
		t.Fatalf("loads = %d, want 1", eng.loadCount())
	}

	// second call hits the cached instance
	if _, err := m.Infer(context.Background(), inferReq("alpha")); err != nil {
		t.Fatalf("second Infer: %v", err)
	}
	if eng.loadCount() != 1 {
		t.Fatalf("loads after reuse = %d, want 1", eng.loadCount())
	}
}

func TestInferDefaultModel(t *testing.T) {
	m := newTestManager(t, &fakeEngine{}, nil)
	resp, err := m.Infer(context.Background(), inferReq(""))
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if resp.Model != "alpha" {
		t.Fatalf("resp.Model = %q, want default alpha", resp.Model)
	}
}

func TestInferUnknownModel(t *testing.T) {
	m := newTestManager(t, &fakeEngine{}, nil)
	_, err := m.Infer(context.Background(), inferReq("nope"))
	if !IsModelNotFound(err) {
		t.Fatalf("err = %v, want model not found", err)
	}
}

func TestInferNoDefaultConfigured(t *testing.T) {
	m := newTestManager(t, &fakeEngine{}, func(cfg *ManagerConfig) { cfg.DefaultModel = "" })
	_, err := m.Infer(context.Background(), inferReq(""))
	if !IsModelNotFound(err) {
		t.Fatalf("err = %v, want model not found", err)
	}
}

func TestConcurrentInferSharesOneCompile(t *testing.T) {
	eng := &fakeEngine{loadGate: make(chan struct{})}
	m := newTestManager(t, eng, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Infer(context.Background(), inferReq("alpha"))
		}(i)
	}
	// let all callers pile into the singleflight before releasing the load
	time.Sleep(50 * time.Millisecond)
	close(eng.loadGate)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if eng.loadCount() != 1 {
		t.Fatalf("loads = %d, want 1 shared compile", eng.loadCount())
	}
}

func TestEvictionAtCacheCap(t *testing.T) {
	eng := &fakeEngine{}
	m := newTestManager(t, eng, func(cfg *ManagerConfig) { cfg.CacheSize = 2 })

	if _, err := m.Infer(context.Background(), inferReq("alpha")); err != nil {
		t.Fatalf("alpha: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := m.Infer(context.Background(), inferReq("beta")); err != nil {
		t.Fatalf("beta: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := m.Infer(context.Background(), inferReq("gamma")); err != nil {
		t.Fatalf("gamma: %v", err)
	}

	st := m.Status()
	if len(st.Instances) != 2 {
		t.Fatalf("resident = %d, want 2", len(st.Instances))
	}
	for _, inst := range st.Instances {
		if inst.ModelID == "alpha" {
			t.Fatalf("alpha should have been evicted as LRU: %+v", st.Instances)
		}
	}
	if st.EvictionsTotal != 1 {
		t.Fatalf("EvictionsTotal = %d, want 1", st.EvictionsTotal)
	}
	if st.CompilesTotal != 3 {
		t.Fatalf("CompilesTotal = %d, want 3", st.CompilesTotal)
	}
}

func TestBackpressureRejectsWhenQueueFull(t *testing.T) {
	eng := &fakeEngine{}
	m := newTestManager(t, eng, func(cfg *ManagerConfig) {
		cfg.MaxQueueDepth = 1
		cfg.MaxWait = 50 * time.Millisecond
	})

	// compile first so we can reach into the runner
	if _, err := m.Infer(context.Background(), inferReq("alpha")); err != nil {
		t.Fatalf("warmup: %v", err)
	}
	m.mu.RLock()
	runner := m.instances["alpha"].runner.(*echoRunner)
	m.mu.RUnlock()
	runner.runGate = make(chan struct{})
	defer close(runner.runGate)

	// occupy the in-flight slot
	started := make(chan struct{})
	go func() {
		close(started)
		m.Infer(context.Background(), inferReq("alpha"))
	}()
	<-started
	// wait until the blocked run holds the slot
	deadline := time.Now().Add(time.Second)
	for runner.runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	// the queue slot fills next; with depth 1 the wait times out
	_, err := m.Infer(context.Background(), inferReq("alpha"))
	if !IsTooBusy(err) {
		t.Fatalf("err = %v, want too busy", err)
	}
}

func TestUnloadDrainsAndRemoves(t *testing.T) {
	eng := &fakeEngine{}
	m := newTestManager(t, eng, nil)

	if _, err := m.Infer(context.Background(), inferReq("alpha")); err != nil {
		t.Fatalf("warmup: %v", err)
	}
	m.mu.RLock()
	runner := m.instances["alpha"].runner.(*echoRunner)
	m.mu.RUnlock()

	if err := m.Unload("alpha"); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if !runner.closed.Load() {
		t.Fatal("runner not closed after unload")
	}
	if len(m.Status().Instances) != 0 {
		t.Fatal("instance still resident after unload")
	}
	if err := m.Unload("alpha"); !IsModelNotFound(err) {
		t.Fatalf("second unload err = %v, want model not found", err)
	}
}

func TestJobsLifecycle(t *testing.T) {
	m := newTestManager(t, &fakeEngine{}, nil)

	id, err := m.Submit(inferReq("alpha"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id == "" {
		t.Fatal("empty job id")
	}

	var jr types.JobResponse
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		jr, err = m.Job(id)
		if err != nil {
			t.Fatalf("Job: %v", err)
		}
		if jr.State != types.JobStateRunning {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if jr.State != types.JobStateDone {
		t.Fatalf("job state = %q, want done", jr.State)
	}
	if jr.Result == nil || jr.Result.Model != "alpha" {
		t.Fatalf("unexpected result: %+v", jr.Result)
	}

	if _, err := m.Job("no-such-job"); !IsJobNotFound(err) {
		t.Fatalf("err = %v, want job not found", err)
	}
}

func TestSubmitUnknownModelFailsSynchronously(t *testing.T) {
	m := newTestManager(t, &fakeEngine{}, nil)
	if _, err := m.Submit(inferReq("nope")); !IsModelNotFound(err) {
		t.Fatalf("err = %v, want model not found", err)
	}
}

func TestJobRecordsFailure(t *testing.T) {
	eng := &fakeEngine{loadErr: errors.New("compile blew up")}
	m := newTestManager(t, eng, nil)

	id, err := m.Submit(inferReq("alpha"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	var jr types.JobResponse
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		jr, _ = m.Job(id)
		if jr.State != types.JobStateRunning {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if jr.State != types.JobStateFailed {
		t.Fatalf("job state = %q, want failed", jr.State)
	}
	if jr.Error == "" {
		t.Fatal("failed job carries no error message")
	}
}

func TestUnavailableEnginePassesKindThrough(t *testing.T) {
	loadErr := &litert.Error{Kind: litert.KindRuntimeUnavailable, Op: "engine", Msg: "built without the native runtime"}
	m := newTestManager(t, UnavailableEngine(loadErr), nil)

	_, err := m.Infer(context.Background(), inferReq("alpha"))
	if !litert.IsRuntimeUnavailable(err) {
		t.Fatalf("err = %v, want runtime unavailable", err)
	}
	st := m.Status()
	if st.Error == "" {
		t.Fatal("status should surface the last compile error")
	}
}

func TestStatusReport(t *testing.T) {
	m := newTestManager(t, &fakeEngine{}, func(cfg *ManagerConfig) {
		cfg.CacheSize = 3
		cfg.AcceleratorName = "cpu"
	})

	if _, err := m.Infer(context.Background(), inferReq("beta")); err != nil {
		t.Fatalf("Infer: %v", err)
	}
	st := m.Status()
	if st.CacheCapacity != 3 {
		t.Fatalf("CacheCapacity = %d, want 3", st.CacheCapacity)
	}
	if st.Accelerator != "cpu" {
		t.Fatalf("Accelerator = %q, want cpu", st.Accelerator)
	}
	if len(st.Instances) != 1 {
		t.Fatalf("Instances = %d, want 1", len(st.Instances))
	}
	inst := st.Instances[0]
	if inst.ModelID != "beta" || inst.State != string(StateReady) {
		t.Fatalf("unexpected instance: %+v", inst)
	}
	if len(inst.Signatures) != 1 || inst.Signatures[0] != "serving_default" {
		t.Fatalf("unexpected signatures: %v", inst.Signatures)
	}
}

func TestCloseRejectsFurtherWork(t *testing.T) {
	eng := &fakeEngine{}
	m := New(ManagerConfig{Registry: testRegistry(), DefaultModel: "alpha", Engine: eng})

	if _, err := m.Infer(context.Background(), inferReq("alpha")); err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.Ready() {
		t.Fatal("Ready after Close")
	}
	if _, err := m.Infer(context.Background(), inferReq("alpha")); err == nil {
		t.Fatal("Infer after Close should fail")
	}
	if !eng.closed {
		t.Fatal("engine not closed")
	}
	// Close is idempotent
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestListModels(t *testing.T) {
	m := newTestManager(t, &fakeEngine{}, nil)
	models := m.ListModels()
	if len(models) != 3 {
		t.Fatalf("len = %d, want 3", len(models))
	}
	models[0].ID = "mutated"
	if m.ListModels()[0].ID == "mutated" {
		t.Fatal("ListModels leaked internal slice")
	}
}
