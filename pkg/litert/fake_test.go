package litert

import (
	"sync"
	"time"
)

// fakeEngine is an in-memory nativeAPI used by the package tests. It keeps
// every live native object in a table so tests can assert exact allocation
// balance per resource family, runs models as identity (input i copied to
// output i), and signals async events after a configurable number of waits.
type fakeEngine struct {
	mu   sync.Mutex
	next ref
	objs map[ref]*fakeObj

	// failNext maps a method name to the status its next call returns.
	// Consumed on use.
	failNext map[string]Status

	// asyncWaitTicks is how many WaitEvent calls an async event absorbs
	// before signaling. 1 means the first wait succeeds.
	asyncWaitTicks int

	topo []fakeSignature

	// compiledOptions records the accelerator mask of each consumed
	// options bag, in compile order.
	compiledOptions []Accelerator
}

type fakeKind int

const (
	fkEnv fakeKind = iota
	fkEnvOpts
	fkModel
	fkSignature
	fkSubgraph
	fkTensor
	fkOptions
	fkOpaque
	fkCompiled
	fkReqs
	fkBuffer
	fkEvent
	fkMetrics
)

type fakeObj struct {
	kind fakeKind

	// env
	envOpts []envOption

	// model views
	model    ref
	sigIndex int
	slot     int
	isInput  bool

	// options
	accel   Accelerator
	opaques []string

	// opaque options
	identifier string
	payload    []byte

	// compiled model
	srcModel ref

	// tensor buffer
	data       []byte
	tensorType RankedTensorType
	bufferType TensorBufferType

	// event
	signaled  bool
	waitsLeft int

	// metrics
	metrics []Metric
}

type fakeSignature struct {
	key     string
	inputs  []fakeTensorSpec
	outputs []fakeTensorSpec
}

type fakeTensorSpec struct {
	name string
	tt   RankedTensorType

	reqSize  int
	reqAlign int
	reqKinds []TensorBufferType
}

// newFakeEngine returns an engine with a single-signature identity model:
// "serving_default" mapping in0 [1,4]f32 to out0 [1,4]f32, each slot
// requiring a 256-byte, 16-aligned host-memory buffer.
func newFakeEngine() *fakeEngine {
	f32x4 := RankedTensorType{ElementType: ElementFloat32, Dimensions: []int32{1, 4}}
	return &fakeEngine{
		next:           1,
		objs:           make(map[ref]*fakeObj),
		failNext:       make(map[string]Status),
		asyncWaitTicks: 1,
		topo: []fakeSignature{{
			key: "serving_default",
			inputs: []fakeTensorSpec{{
				name: "in0", tt: f32x4,
				reqSize: 256, reqAlign: 16,
				reqKinds: []TensorBufferType{BufferHostMemory},
			}},
			outputs: []fakeTensorSpec{{
				name: "out0", tt: f32x4,
				reqSize: 256, reqAlign: 16,
				reqKinds: []TensorBufferType{BufferHostMemory},
			}},
		}},
	}
}

func (f *fakeEngine) fail(method string) (Status, bool) {
	if st, ok := f.failNext[method]; ok {
		delete(f.failNext, method)
		return st, true
	}
	return StatusOk, false
}

func (f *fakeEngine) alloc(o *fakeObj) ref {
	r := f.next
	f.next++
	f.objs[r] = o
	return r
}

func (f *fakeEngine) get(r ref, k fakeKind) (*fakeObj, Status) {
	o, ok := f.objs[r]
	if !ok || o.kind != k {
		return nil, StatusErrorNotFound
	}
	return o, StatusOk
}

// alive counts live objects of one kind.
func (f *fakeEngine) alive(k fakeKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, o := range f.objs {
		if o.kind == k {
			n++
		}
	}
	return n
}

// aliveOwned counts every object of an owned family (views excluded).
func (f *fakeEngine) aliveOwned() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, o := range f.objs {
		switch o.kind {
		case fkEnv, fkModel, fkOptions, fkOpaque, fkCompiled, fkBuffer, fkEvent, fkMetrics:
			n++
		}
	}
	return n
}

func (f *fakeEngine) spec(m ref, sigIndex, slot int, input bool) *fakeTensorSpec {
	if sigIndex < 0 || sigIndex >= len(f.topo) {
		return nil
	}
	sig := &f.topo[sigIndex]
	slots := sig.inputs
	if !input {
		slots = sig.outputs
	}
	if slot < 0 || slot >= len(slots) {
		return nil
	}
	return &slots[slot]
}

// environment

func (f *fakeEngine) CreateEnvironment(opts []envOption) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("CreateEnvironment"); ok {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkEnv, envOpts: opts}), StatusOk
}

func (f *fakeEngine) DestroyEnvironment(r ref) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, r)
}

func (f *fakeEngine) EnvironmentOptions(r ref) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, st := f.get(r, fkEnv); st != StatusOk {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkEnvOpts, model: r}), StatusOk
}

func (f *fakeEngine) EnvironmentOptionValue(r ref, tag EnvOptionTag) (any, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkEnvOpts)
	if st != StatusOk {
		return nil, st
	}
	env, st := f.get(o.model, fkEnv)
	if st != StatusOk {
		return nil, st
	}
	for _, eo := range env.envOpts {
		if eo.Tag == tag {
			return eo.Value, StatusOk
		}
	}
	return nil, StatusErrorNotFound
}

// model

func (f *fakeEngine) CreateModelFromFile(path string) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("CreateModelFromFile"); ok {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkModel}), StatusOk
}

func (f *fakeEngine) CreateModelFromBuffer(data []byte) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("CreateModelFromBuffer"); ok {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkModel}), StatusOk
}

func (f *fakeEngine) DestroyModel(r ref) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, r)
}

func (f *fakeEngine) NumModelSubgraphs(r ref) (int, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, st := f.get(r, fkModel); st != StatusOk {
		return 0, st
	}
	return len(f.topo), StatusOk
}

func (f *fakeEngine) NumModelSignatures(r ref) (int, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, st := f.get(r, fkModel); st != StatusOk {
		return 0, st
	}
	return len(f.topo), StatusOk
}

func (f *fakeEngine) ModelSignature(r ref, index int) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, st := f.get(r, fkModel); st != StatusOk {
		return nilRef, st
	}
	if index < 0 || index >= len(f.topo) {
		return nilRef, StatusErrorIndexOOB
	}
	return f.alloc(&fakeObj{kind: fkSignature, model: r, sigIndex: index}), StatusOk
}

func (f *fakeEngine) SignatureKey(r ref) (string, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkSignature)
	if st != StatusOk {
		return "", st
	}
	return f.topo[o.sigIndex].key, StatusOk
}

func (f *fakeEngine) SignatureInputNames(r ref) ([]string, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkSignature)
	if st != StatusOk {
		return nil, st
	}
	names := make([]string, 0, len(f.topo[o.sigIndex].inputs))
	for _, t := range f.topo[o.sigIndex].inputs {
		names = append(names, t.name)
	}
	return names, StatusOk
}

func (f *fakeEngine) SignatureOutputNames(r ref) ([]string, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkSignature)
	if st != StatusOk {
		return nil, st
	}
	names := make([]string, 0, len(f.topo[o.sigIndex].outputs))
	for _, t := range f.topo[o.sigIndex].outputs {
		names = append(names, t.name)
	}
	return names, StatusOk
}

func (f *fakeEngine) SignatureSubgraph(r ref) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkSignature)
	if st != StatusOk {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkSubgraph, model: o.model, sigIndex: o.sigIndex}), StatusOk
}

func (f *fakeEngine) NumSubgraphInputs(r ref) (int, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkSubgraph)
	if st != StatusOk {
		return 0, st
	}
	return len(f.topo[o.sigIndex].inputs), StatusOk
}

func (f *fakeEngine) NumSubgraphOutputs(r ref) (int, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkSubgraph)
	if st != StatusOk {
		return 0, st
	}
	return len(f.topo[o.sigIndex].outputs), StatusOk
}

func (f *fakeEngine) subgraphTensor(r ref, index int, input bool) (ref, Status) {
	o, st := f.get(r, fkSubgraph)
	if st != StatusOk {
		return nilRef, st
	}
	if f.spec(o.model, o.sigIndex, index, input) == nil {
		return nilRef, StatusErrorIndexOOB
	}
	return f.alloc(&fakeObj{
		kind: fkTensor, model: o.model, sigIndex: o.sigIndex, slot: index, isInput: input,
	}), StatusOk
}

func (f *fakeEngine) SubgraphInputTensor(r ref, index int) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subgraphTensor(r, index, true)
}

func (f *fakeEngine) SubgraphOutputTensor(r ref, index int) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subgraphTensor(r, index, false)
}

func (f *fakeEngine) TensorName(r ref) (string, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkTensor)
	if st != StatusOk {
		return "", st
	}
	return f.spec(o.model, o.sigIndex, o.slot, o.isInput).name, StatusOk
}

func (f *fakeEngine) TensorType(r ref) (RankedTensorType, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkTensor)
	if st != StatusOk {
		return RankedTensorType{}, st
	}
	return f.spec(o.model, o.sigIndex, o.slot, o.isInput).tt, StatusOk
}

// options

func (f *fakeEngine) CreateOptions() (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("CreateOptions"); ok {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkOptions}), StatusOk
}

func (f *fakeEngine) DestroyOptions(r ref) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, r)
}

func (f *fakeEngine) SetOptionsHardwareAccelerators(r ref, a Accelerator) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("SetOptionsHardwareAccelerators"); ok {
		return st
	}
	o, st := f.get(r, fkOptions)
	if st != StatusOk {
		return st
	}
	o.accel = a
	return StatusOk
}

func (f *fakeEngine) CreateOpaqueOptions(identifier string, payload []byte) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("CreateOpaqueOptions"); ok {
		return nilRef, st
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return f.alloc(&fakeObj{kind: fkOpaque, identifier: identifier, payload: cp}), StatusOk
}

func (f *fakeEngine) DestroyOpaqueOptions(r ref) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, r)
}

func (f *fakeEngine) OpaqueOptionsIdentifier(r ref) (string, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkOpaque)
	if st != StatusOk {
		return "", st
	}
	return o.identifier, StatusOk
}

func (f *fakeEngine) AddOpaqueOptions(r ref, oo ref) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("AddOpaqueOptions"); ok {
		return st
	}
	opts, st := f.get(r, fkOptions)
	if st != StatusOk {
		return st
	}
	op, st := f.get(oo, fkOpaque)
	if st != StatusOk {
		return st
	}
	// chain absorbed into the options bag
	opts.opaques = append(opts.opaques, op.identifier)
	delete(f.objs, oo)
	return StatusOk
}

// compiled model

func (f *fakeEngine) CreateCompiledModel(e, m, o ref) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, st := f.get(e, fkEnv); st != StatusOk {
		return nilRef, st
	}
	if _, st := f.get(m, fkModel); st != StatusOk {
		return nilRef, st
	}
	opts, st := f.get(o, fkOptions)
	if st != StatusOk {
		return nilRef, st
	}
	// the native call consumes the options whether or not it succeeds
	f.compiledOptions = append(f.compiledOptions, opts.accel)
	delete(f.objs, o)
	if st, ok := f.fail("CreateCompiledModel"); ok {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkCompiled, srcModel: m}), StatusOk
}

func (f *fakeEngine) DestroyCompiledModel(r ref) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, r)
}

func (f *fakeEngine) bufferRequirements(cm ref, sigIndex, slot int, input bool) (ref, Status) {
	o, st := f.get(cm, fkCompiled)
	if st != StatusOk {
		return nilRef, st
	}
	if f.spec(o.srcModel, sigIndex, slot, input) == nil {
		return nilRef, StatusErrorIndexOOB
	}
	return f.alloc(&fakeObj{
		kind: fkReqs, model: o.srcModel, sigIndex: sigIndex, slot: slot, isInput: input,
	}), StatusOk
}

func (f *fakeEngine) InputBufferRequirements(cm ref, sigIndex, inputIndex int) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("InputBufferRequirements"); ok {
		return nilRef, st
	}
	return f.bufferRequirements(cm, sigIndex, inputIndex, true)
}

func (f *fakeEngine) OutputBufferRequirements(cm ref, sigIndex, outputIndex int) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("OutputBufferRequirements"); ok {
		return nilRef, st
	}
	return f.bufferRequirements(cm, sigIndex, outputIndex, false)
}

// run copies each input buffer's bytes to the output buffer at the same slot.
func (f *fakeEngine) run(inputs, outputs []ref) Status {
	for i, out := range outputs {
		dst, st := f.get(out, fkBuffer)
		if st != StatusOk {
			return st
		}
		if i < len(inputs) {
			src, st := f.get(inputs[i], fkBuffer)
			if st != StatusOk {
				return st
			}
			copy(dst.data, src.data)
		}
	}
	return StatusOk
}

func (f *fakeEngine) RunCompiledModel(cm ref, sigIndex int, inputs, outputs []ref) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("RunCompiledModel"); ok {
		return st
	}
	if _, st := f.get(cm, fkCompiled); st != StatusOk {
		return st
	}
	return f.run(inputs, outputs)
}

func (f *fakeEngine) RunCompiledModelAsync(cm ref, sigIndex int, inputs, outputs []ref) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("RunCompiledModelAsync"); ok {
		return nilRef, st
	}
	if _, st := f.get(cm, fkCompiled); st != StatusOk {
		return nilRef, st
	}
	// the work happens eagerly; only completion is deferred to WaitEvent
	if st := f.run(inputs, outputs); st != StatusOk {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkEvent, waitsLeft: f.asyncWaitTicks}), StatusOk
}

func (f *fakeEngine) StartMetricsCollection(cm ref, detailLevel int) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("StartMetricsCollection"); ok {
		return st
	}
	_, st := f.get(cm, fkCompiled)
	return st
}

func (f *fakeEngine) StopMetricsCollection(cm ref) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("StopMetricsCollection"); ok {
		return nilRef, st
	}
	if _, st := f.get(cm, fkCompiled); st != StatusOk {
		return nilRef, st
	}
	return f.alloc(&fakeObj{kind: fkMetrics, metrics: []Metric{
		{Name: "invocation_count", Value: 1},
		{Name: "latency_us", Value: 42},
	}}), StatusOk
}

// tensor buffer requirements

func (f *fakeEngine) RequirementsBufferSize(r ref) (int, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkReqs)
	if st != StatusOk {
		return 0, st
	}
	return f.spec(o.model, o.sigIndex, o.slot, o.isInput).reqSize, StatusOk
}

func (f *fakeEngine) RequirementsAlignment(r ref) (int, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkReqs)
	if st != StatusOk {
		return 0, st
	}
	return f.spec(o.model, o.sigIndex, o.slot, o.isInput).reqAlign, StatusOk
}

func (f *fakeEngine) RequirementsSupportedTypes(r ref) ([]TensorBufferType, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkReqs)
	if st != StatusOk {
		return nil, st
	}
	return f.spec(o.model, o.sigIndex, o.slot, o.isInput).reqKinds, StatusOk
}

// tensor buffer

func (f *fakeEngine) CreateTensorBuffer(e ref, t RankedTensorType, bt TensorBufferType, size int) (ref, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("CreateTensorBuffer"); ok {
		return nilRef, st
	}
	if _, st := f.get(e, fkEnv); st != StatusOk {
		return nilRef, st
	}
	if bt != BufferHostMemory {
		return nilRef, StatusErrorUnsupported
	}
	return f.alloc(&fakeObj{
		kind: fkBuffer, data: make([]byte, size), tensorType: t, bufferType: bt,
	}), StatusOk
}

func (f *fakeEngine) DestroyTensorBuffer(r ref) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, r)
}

func (f *fakeEngine) TensorBufferPackedSize(r ref) (int, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkBuffer)
	if st != StatusOk {
		return 0, st
	}
	if packed := o.tensorType.PackedByteSize(); packed > 0 {
		return packed, StatusOk
	}
	return len(o.data), StatusOk
}

func (f *fakeEngine) LockTensorBuffer(r ref, mode lockMode) ([]byte, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.fail("LockTensorBuffer"); ok {
		return nil, st
	}
	o, st := f.get(r, fkBuffer)
	if st != StatusOk {
		return nil, st
	}
	if packed := o.tensorType.PackedByteSize(); packed > 0 && packed <= len(o.data) {
		return o.data[:packed], StatusOk
	}
	return o.data, StatusOk
}

func (f *fakeEngine) UnlockTensorBuffer(r ref) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, st := f.get(r, fkBuffer)
	return st
}

// event

func (f *fakeEngine) WaitEvent(r ref, timeout time.Duration) Status {
	f.mu.Lock()
	o, st := f.get(r, fkEvent)
	if st != StatusOk {
		f.mu.Unlock()
		return st
	}
	if o.signaled {
		f.mu.Unlock()
		return StatusOk
	}
	o.waitsLeft--
	if o.waitsLeft <= 0 {
		o.signaled = true
		f.mu.Unlock()
		return StatusOk
	}
	f.mu.Unlock()
	// block like the native wait would
	time.Sleep(timeout)
	return StatusErrorTimeoutExpired
}

func (f *fakeEngine) EventSignaled(r ref) (bool, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkEvent)
	if st != StatusOk {
		return false, st
	}
	return o.signaled, StatusOk
}

func (f *fakeEngine) DestroyEvent(r ref) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, r)
}

// metrics

func (f *fakeEngine) NumMetrics(r ref) (int, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkMetrics)
	if st != StatusOk {
		return 0, st
	}
	return len(o.metrics), StatusOk
}

func (f *fakeEngine) Metric(r ref, index int) (Metric, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, st := f.get(r, fkMetrics)
	if st != StatusOk {
		return Metric{}, st
	}
	if index < 0 || index >= len(o.metrics) {
		return Metric{}, StatusErrorIndexOOB
	}
	return o.metrics[index], StatusOk
}

func (f *fakeEngine) DestroyMetrics(r ref) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, r)
}
