package litert

import "time"

// ref is an opaque reference to a native-side object. The cgo implementation
// stores the C pointer value; the fake used in tests stores a table index.
// A ref is only meaningful to the nativeAPI that produced it.
type ref uintptr

const nilRef ref = 0

// envOption is the wire form of one environment option handed to the runtime.
type envOption struct {
	Tag   EnvOptionTag
	Value any // string, bool, int64 or float64
}

// nativeAPI is the single seam to the LiteRT C entry points. Every method
// maps to one C call (or a fixed count+get loop) and returns the raw status;
// translation into typed errors happens in the wrappers, never here.
//
// Implementations: cgoAPI (build tag 'litert'), unavailableAPI (default),
// and the fake engine used by tests.
type nativeAPI interface {
	// environment
	CreateEnvironment(opts []envOption) (ref, Status)
	DestroyEnvironment(env ref)
	EnvironmentOptions(env ref) (ref, Status)
	EnvironmentOptionValue(opts ref, tag EnvOptionTag) (any, Status)

	// model
	CreateModelFromFile(path string) (ref, Status)
	CreateModelFromBuffer(data []byte) (ref, Status)
	DestroyModel(m ref)
	NumModelSubgraphs(m ref) (int, Status)
	NumModelSignatures(m ref) (int, Status)
	ModelSignature(m ref, index int) (ref, Status)
	SignatureKey(sig ref) (string, Status)
	SignatureInputNames(sig ref) ([]string, Status)
	SignatureOutputNames(sig ref) ([]string, Status)
	SignatureSubgraph(sig ref) (ref, Status)
	NumSubgraphInputs(sg ref) (int, Status)
	NumSubgraphOutputs(sg ref) (int, Status)
	SubgraphInputTensor(sg ref, index int) (ref, Status)
	SubgraphOutputTensor(sg ref, index int) (ref, Status)
	TensorName(t ref) (string, Status)
	TensorType(t ref) (RankedTensorType, Status)

	// options
	CreateOptions() (ref, Status)
	DestroyOptions(o ref)
	SetOptionsHardwareAccelerators(o ref, a Accelerator) Status
	CreateOpaqueOptions(identifier string, payload []byte) (ref, Status)
	DestroyOpaqueOptions(o ref)
	OpaqueOptionsIdentifier(o ref) (string, Status)
	AddOpaqueOptions(o ref, opaque ref) Status

	// compiled model
	CreateCompiledModel(env, model, opts ref) (ref, Status)
	DestroyCompiledModel(cm ref)
	InputBufferRequirements(cm ref, sigIndex, inputIndex int) (ref, Status)
	OutputBufferRequirements(cm ref, sigIndex, outputIndex int) (ref, Status)
	RunCompiledModel(cm ref, sigIndex int, inputs, outputs []ref) Status
	RunCompiledModelAsync(cm ref, sigIndex int, inputs, outputs []ref) (ref, Status)
	StartMetricsCollection(cm ref, detailLevel int) Status
	StopMetricsCollection(cm ref) (ref, Status)

	// tensor buffer requirements (borrowed from the compiled model)
	RequirementsBufferSize(r ref) (int, Status)
	RequirementsAlignment(r ref) (int, Status)
	RequirementsSupportedTypes(r ref) ([]TensorBufferType, Status)

	// tensor buffer
	CreateTensorBuffer(env ref, t RankedTensorType, bt TensorBufferType, size int) (ref, Status)
	DestroyTensorBuffer(b ref)
	TensorBufferPackedSize(b ref) (int, Status)
	LockTensorBuffer(b ref, mode lockMode) ([]byte, Status)
	UnlockTensorBuffer(b ref) Status

	// event
	WaitEvent(ev ref, timeout time.Duration) Status
	EventSignaled(ev ref) (bool, Status)
	DestroyEvent(ev ref)

	// metrics
	NumMetrics(m ref) (int, Status)
	Metric(m ref, index int) (Metric, Status)
	DestroyMetrics(m ref)
}

// runtimeAPI is the implementation used by the package-level constructors.
// Set to the cgo implementation when built with -tags=litert.
var runtimeAPI nativeAPI = newDefaultAPI()

// unavailableAPI is installed when no native runtime is linked in. Every
// creation call fails with StatusRuntimeUnavailable so callers get a typed
// error instead of a link failure at an arbitrary call site.
type unavailableAPI struct{}

func (unavailableAPI) CreateEnvironment([]envOption) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) DestroyEnvironment(ref) {}
func (unavailableAPI) EnvironmentOptions(ref) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) EnvironmentOptionValue(ref, EnvOptionTag) (any, Status) {
	return nil, StatusRuntimeUnavailable
}
func (unavailableAPI) CreateModelFromFile(string) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) CreateModelFromBuffer([]byte) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) DestroyModel(ref)                      {}
func (unavailableAPI) NumModelSubgraphs(ref) (int, Status)   { return 0, StatusRuntimeUnavailable }
func (unavailableAPI) NumModelSignatures(ref) (int, Status)  { return 0, StatusRuntimeUnavailable }
func (unavailableAPI) ModelSignature(ref, int) (ref, Status) { return nilRef, StatusRuntimeUnavailable }
func (unavailableAPI) SignatureKey(ref) (string, Status)     { return "", StatusRuntimeUnavailable }
func (unavailableAPI) SignatureInputNames(ref) ([]string, Status) {
	return nil, StatusRuntimeUnavailable
}
func (unavailableAPI) SignatureOutputNames(ref) ([]string, Status) {
	return nil, StatusRuntimeUnavailable
}
func (unavailableAPI) SignatureSubgraph(ref) (ref, Status)  { return nilRef, StatusRuntimeUnavailable }
func (unavailableAPI) NumSubgraphInputs(ref) (int, Status)  { return 0, StatusRuntimeUnavailable }
func (unavailableAPI) NumSubgraphOutputs(ref) (int, Status) { return 0, StatusRuntimeUnavailable }
func (unavailableAPI) SubgraphInputTensor(ref, int) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) SubgraphOutputTensor(ref, int) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) TensorName(ref) (string, Status) { return "", StatusRuntimeUnavailable }
func (unavailableAPI) TensorType(ref) (RankedTensorType, Status) {
	return RankedTensorType{}, StatusRuntimeUnavailable
}
func (unavailableAPI) CreateOptions() (ref, Status) { return nilRef, StatusRuntimeUnavailable }
func (unavailableAPI) DestroyOptions(ref)           {}
func (unavailableAPI) SetOptionsHardwareAccelerators(ref, Accelerator) Status {
	return StatusRuntimeUnavailable
}
func (unavailableAPI) CreateOpaqueOptions(string, []byte) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) DestroyOpaqueOptions(ref) {}
func (unavailableAPI) OpaqueOptionsIdentifier(ref) (string, Status) {
	return "", StatusRuntimeUnavailable
}
func (unavailableAPI) AddOpaqueOptions(ref, ref) Status { return StatusRuntimeUnavailable }
func (unavailableAPI) CreateCompiledModel(ref, ref, ref) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) DestroyCompiledModel(ref) {}
func (unavailableAPI) InputBufferRequirements(ref, int, int) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) OutputBufferRequirements(ref, int, int) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) RunCompiledModel(ref, int, []ref, []ref) Status {
	return StatusRuntimeUnavailable
}
func (unavailableAPI) RunCompiledModelAsync(ref, int, []ref, []ref) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) StartMetricsCollection(ref, int) Status { return StatusRuntimeUnavailable }
func (unavailableAPI) StopMetricsCollection(ref) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) RequirementsBufferSize(ref) (int, Status) {
	return 0, StatusRuntimeUnavailable
}
func (unavailableAPI) RequirementsAlignment(ref) (int, Status) {
	return 0, StatusRuntimeUnavailable
}
func (unavailableAPI) RequirementsSupportedTypes(ref) ([]TensorBufferType, Status) {
	return nil, StatusRuntimeUnavailable
}
func (unavailableAPI) CreateTensorBuffer(ref, RankedTensorType, TensorBufferType, int) (ref, Status) {
	return nilRef, StatusRuntimeUnavailable
}
func (unavailableAPI) DestroyTensorBuffer(ref)                  {}
func (unavailableAPI) TensorBufferPackedSize(ref) (int, Status) { return 0, StatusRuntimeUnavailable }
func (unavailableAPI) LockTensorBuffer(ref, lockMode) ([]byte, Status) {
	return nil, StatusRuntimeUnavailable
}
func (unavailableAPI) UnlockTensorBuffer(ref) Status       { return StatusRuntimeUnavailable }
func (unavailableAPI) WaitEvent(ref, time.Duration) Status { return StatusRuntimeUnavailable }
func (unavailableAPI) EventSignaled(ref) (bool, Status)    { return false, StatusRuntimeUnavailable }
func (unavailableAPI) DestroyEvent(ref)                    {}
func (unavailableAPI) NumMetrics(ref) (int, Status)        { return 0, StatusRuntimeUnavailable }
func (unavailableAPI) Metric(ref, int) (Metric, Status)    { return Metric{}, StatusRuntimeUnavailable }
func (unavailableAPI) DestroyMetrics(ref)                  {}

// Available reports whether a native LiteRT runtime is linked into this binary.
func Available() bool {
	_, stub := runtimeAPI.(unavailableAPI)
	return !stub
}
