//go:build litert

package litert

// cgo bindings to the LiteRT C API.
// - rpath $ORIGIN so the loader finds liblitert_c.so next to the built
//   binary (./bin), same layout as the other native runtimes we ship.
// - LITERT_INCLUDE_DIR may be exported through CGO_CFLAGS when headers are
//   not in the default search path.

/*
#cgo CFLAGS: -std=c11
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -llitert_c

#include <stdlib.h>
#include <string.h>

#include "litert/c/litert_common.h"
#include "litert/c/litert_compiled_model.h"
#include "litert/c/litert_environment.h"
#include "litert/c/litert_environment_options.h"
#include "litert/c/litert_event.h"
#include "litert/c/litert_metrics.h"
#include "litert/c/litert_model.h"
#include "litert/c/litert_opaque_options.h"
#include "litert/c/litert_options.h"
#include "litert/c/litert_tensor_buffer.h"
#include "litert/c/litert_tensor_buffer_requirements.h"

// LiteRtAny carries a tagged union; building and reading it from Go through
// cgo is awkward, so small C helpers do it here.

static void set_any_str(LiteRtAny* a, const char* v) {
	a->type = kLiteRtAnyTypeString;
	a->str_value = v;
}
static void set_any_int(LiteRtAny* a, int64_t v) {
	a->type = kLiteRtAnyTypeInt;
	a->int_value = v;
}
static void set_any_bool(LiteRtAny* a, bool v) {
	a->type = kLiteRtAnyTypeBool;
	a->bool_value = v;
}
static void set_any_real(LiteRtAny* a, double v) {
	a->type = kLiteRtAnyTypeReal;
	a->real_value = v;
}
static int any_type(const LiteRtAny* a) { return (int)a->type; }
static const char* any_str(const LiteRtAny* a) { return a->str_value; }
static int64_t any_int(const LiteRtAny* a) { return a->int_value; }
static bool any_bool(const LiteRtAny* a) { return a->bool_value; }
static double any_real(const LiteRtAny* a) { return a->real_value; }

// Copies the payload so its lifetime is owned by the opaque options chain;
// free() is registered as the payload destructor.
static LiteRtStatus create_opaque_options_copy(const char* id, const void* data,
                                               size_t n, LiteRtOpaqueOptions* out) {
	void* copy = NULL;
	if (n > 0) {
		copy = malloc(n);
		if (copy == NULL) return kLiteRtStatusErrorMemoryAllocationFailure;
		memcpy(copy, data, n);
	}
	LiteRtStatus st = LiteRtCreateOpaqueOptions(id, copy, n, free, out);
	if (st != kLiteRtStatusOk && copy != NULL) free(copy);
	return st;
}
*/
import "C"

import (
	"time"
	"unsafe"
)

func newDefaultAPI() nativeAPI { return cgoAPI{} }

type cgoAPI struct{}

// ref <-> C pointer plumbing. The native objects live outside the Go heap,
// so round-tripping through uintptr is safe.

func toRef(p unsafe.Pointer) ref    { return ref(uintptr(p)) }
func asPtr(r ref) unsafe.Pointer    { return unsafe.Pointer(uintptr(r)) }
func env(r ref) C.LiteRtEnvironment { return C.LiteRtEnvironment(asPtr(r)) }
func envOpts(r ref) C.LiteRtEnvironmentOptions {
	return C.LiteRtEnvironmentOptions(asPtr(r))
}
func model(r ref) C.LiteRtModel            { return C.LiteRtModel(asPtr(r)) }
func sig(r ref) C.LiteRtSignature          { return C.LiteRtSignature(asPtr(r)) }
func subgraph(r ref) C.LiteRtSubgraph      { return C.LiteRtSubgraph(asPtr(r)) }
func tensor(r ref) C.LiteRtTensor          { return C.LiteRtTensor(asPtr(r)) }
func options(r ref) C.LiteRtOptions        { return C.LiteRtOptions(asPtr(r)) }
func opaque(r ref) C.LiteRtOpaqueOptions   { return C.LiteRtOpaqueOptions(asPtr(r)) }
func compiled(r ref) C.LiteRtCompiledModel { return C.LiteRtCompiledModel(asPtr(r)) }
func reqs(r ref) C.LiteRtTensorBufferRequirements {
	return C.LiteRtTensorBufferRequirements(asPtr(r))
}
func buffer(r ref) C.LiteRtTensorBuffer { return C.LiteRtTensorBuffer(asPtr(r)) }
func event(r ref) C.LiteRtEvent         { return C.LiteRtEvent(asPtr(r)) }
func metrics(r ref) C.LiteRtMetrics     { return C.LiteRtMetrics(asPtr(r)) }

func envTagToC(t EnvOptionTag) C.LiteRtEnvOptionTag {
	switch t {
	case TagCompilerPluginLibraryDir:
		return C.kLiteRtEnvOptionTagCompilerPluginLibraryDir
	case TagDispatchLibraryDir:
		return C.kLiteRtEnvOptionTagDispatchLibraryDir
	case TagOpenClDeviceID:
		return C.kLiteRtEnvOptionTagOpenClDeviceId
	case TagOpenClPlatformID:
		return C.kLiteRtEnvOptionTagOpenClPlatformId
	case TagOpenClContext:
		return C.kLiteRtEnvOptionTagOpenClContext
	case TagOpenClCommandQueue:
		return C.kLiteRtEnvOptionTagOpenClCommandQueue
	case TagEglContext:
		return C.kLiteRtEnvOptionTagEglContext
	case TagEglDisplay:
		return C.kLiteRtEnvOptionTagEglDisplay
	case TagWebGpuDevice:
		return C.kLiteRtEnvOptionTagWebGpuDevice
	case TagWebGpuQueue:
		return C.kLiteRtEnvOptionTagWebGpuQueue
	case TagMetalDevice:
		return C.kLiteRtEnvOptionTagMetalDevice
	default:
		return C.kLiteRtEnvOptionTagMetalCommandQueue
	}
}

func elementTypeToC(e ElementType) C.LiteRtElementType {
	switch e {
	case ElementBool:
		return C.kLiteRtElementTypeBool
	case ElementInt4:
		return C.kLiteRtElementTypeInt4
	case ElementInt8:
		return C.kLiteRtElementTypeInt8
	case ElementInt16:
		return C.kLiteRtElementTypeInt16
	case ElementInt32:
		return C.kLiteRtElementTypeInt32
	case ElementInt64:
		return C.kLiteRtElementTypeInt64
	case ElementUInt8:
		return C.kLiteRtElementTypeUInt8
	case ElementUInt16:
		return C.kLiteRtElementTypeUInt16
	case ElementUInt32:
		return C.kLiteRtElementTypeUInt32
	case ElementUInt64:
		return C.kLiteRtElementTypeUInt64
	case ElementFloat16:
		return C.kLiteRtElementTypeFloat16
	case ElementBFloat16:
		return C.kLiteRtElementTypeBFloat16
	case ElementFloat32:
		return C.kLiteRtElementTypeFloat32
	case ElementFloat64:
		return C.kLiteRtElementTypeFloat64
	case ElementComplex64:
		return C.kLiteRtElementTypeComplex64
	case ElementComplex128:
		return C.kLiteRtElementTypeComplex128
	case ElementTfResource:
		return C.kLiteRtElementTypeTfResource
	case ElementTfString:
		return C.kLiteRtElementTypeTfString
	case ElementTfVariant:
		return C.kLiteRtElementTypeTfVariant
	default:
		return C.kLiteRtElementTypeNone
	}
}

func elementTypeFromC(e C.LiteRtElementType) ElementType {
	switch e {
	case C.kLiteRtElementTypeBool:
		return ElementBool
	case C.kLiteRtElementTypeInt4:
		return ElementInt4
	case C.kLiteRtElementTypeInt8:
		return ElementInt8
	case C.kLiteRtElementTypeInt16:
		return ElementInt16
	case C.kLiteRtElementTypeInt32:
		return ElementInt32
	case C.kLiteRtElementTypeInt64:
		return ElementInt64
	case C.kLiteRtElementTypeUInt8:
		return ElementUInt8
	case C.kLiteRtElementTypeUInt16:
		return ElementUInt16
	case C.kLiteRtElementTypeUInt32:
		return ElementUInt32
	case C.kLiteRtElementTypeUInt64:
		return ElementUInt64
	case C.kLiteRtElementTypeFloat16:
		return ElementFloat16
	case C.kLiteRtElementTypeBFloat16:
		return ElementBFloat16
	case C.kLiteRtElementTypeFloat32:
		return ElementFloat32
	case C.kLiteRtElementTypeFloat64:
		return ElementFloat64
	case C.kLiteRtElementTypeComplex64:
		return ElementComplex64
	case C.kLiteRtElementTypeComplex128:
		return ElementComplex128
	case C.kLiteRtElementTypeTfResource:
		return ElementTfResource
	case C.kLiteRtElementTypeTfString:
		return ElementTfString
	case C.kLiteRtElementTypeTfVariant:
		return ElementTfVariant
	default:
		return ElementNone
	}
}

func bufferTypeToC(t TensorBufferType) C.LiteRtTensorBufferType {
	switch t {
	case BufferHostMemory:
		return C.kLiteRtTensorBufferTypeHostMemory
	case BufferAhwb:
		return C.kLiteRtTensorBufferTypeAhwb
	case BufferIon:
		return C.kLiteRtTensorBufferTypeIon
	case BufferDmaBuf:
		return C.kLiteRtTensorBufferTypeDmaBuf
	case BufferFastRpc:
		return C.kLiteRtTensorBufferTypeFastRpc
	case BufferGlBuffer:
		return C.kLiteRtTensorBufferTypeGlBuffer
	case BufferGlTexture:
		return C.kLiteRtTensorBufferTypeGlTexture
	case BufferOpenClBuffer:
		return C.kLiteRtTensorBufferTypeOpenClBuffer
	case BufferOpenClBufferFp16:
		return C.kLiteRtTensorBufferTypeOpenClBufferFp16
	case BufferOpenClTexture:
		return C.kLiteRtTensorBufferTypeOpenClTexture
	case BufferOpenClTextureFp16:
		return C.kLiteRtTensorBufferTypeOpenClTextureFp16
	case BufferOpenClBufferPacked:
		return C.kLiteRtTensorBufferTypeOpenClBufferPacked
	default:
		return C.kLiteRtTensorBufferTypeUnknown
	}
}

func bufferTypeFromC(t C.LiteRtTensorBufferType) TensorBufferType {
	switch t {
	case C.kLiteRtTensorBufferTypeHostMemory:
		return BufferHostMemory
	case C.kLiteRtTensorBufferTypeAhwb:
		return BufferAhwb
	case C.kLiteRtTensorBufferTypeIon:
		return BufferIon
	case C.kLiteRtTensorBufferTypeDmaBuf:
		return BufferDmaBuf
	case C.kLiteRtTensorBufferTypeFastRpc:
		return BufferFastRpc
	case C.kLiteRtTensorBufferTypeGlBuffer:
		return BufferGlBuffer
	case C.kLiteRtTensorBufferTypeGlTexture:
		return BufferGlTexture
	case C.kLiteRtTensorBufferTypeOpenClBuffer:
		return BufferOpenClBuffer
	case C.kLiteRtTensorBufferTypeOpenClBufferFp16:
		return BufferOpenClBufferFp16
	case C.kLiteRtTensorBufferTypeOpenClTexture:
		return BufferOpenClTexture
	case C.kLiteRtTensorBufferTypeOpenClTextureFp16:
		return BufferOpenClTextureFp16
	case C.kLiteRtTensorBufferTypeOpenClBufferPacked:
		return BufferOpenClBufferPacked
	default:
		return BufferUnknown
	}
}

func anyFromC(a *C.LiteRtAny) any {
	switch C.any_type(a) {
	case C.kLiteRtAnyTypeString:
		return C.GoString(C.any_str(a))
	case C.kLiteRtAnyTypeInt:
		return int64(C.any_int(a))
	case C.kLiteRtAnyTypeBool:
		return bool(C.any_bool(a))
	case C.kLiteRtAnyTypeReal:
		return float64(C.any_real(a))
	default:
		return nil
	}
}

func (cgoAPI) CreateEnvironment(opts []envOption) (ref, Status) {
	// CStrings referenced from option values must stay alive for the whole
	// call; collect and free them afterwards.
	var cstrs []*C.char
	defer func() {
		for _, s := range cstrs {
			C.free(unsafe.Pointer(s))
		}
	}()
	copts := make([]C.LiteRtEnvOption, len(opts))
	for i, o := range opts {
		copts[i].tag = envTagToC(o.Tag)
		switch v := o.Value.(type) {
		case string:
			cs := C.CString(v)
			cstrs = append(cstrs, cs)
			C.set_any_str(&copts[i].value, cs)
		case int64:
			C.set_any_int(&copts[i].value, C.int64_t(v))
		case bool:
			C.set_any_bool(&copts[i].value, C.bool(v))
		case float64:
			C.set_any_real(&copts[i].value, C.double(v))
		default:
			return nilRef, StatusErrorInvalidArgument
		}
	}
	var optPtr *C.LiteRtEnvOption
	if len(copts) > 0 {
		optPtr = &copts[0]
	}
	var out C.LiteRtEnvironment
	st := C.LiteRtCreateEnvironment(C.int(len(copts)), optPtr, &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) DestroyEnvironment(r ref) { C.LiteRtDestroyEnvironment(env(r)) }

func (cgoAPI) EnvironmentOptions(r ref) (ref, Status) {
	var out C.LiteRtEnvironmentOptions
	st := C.LiteRtGetEnvironmentOptions(env(r), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) EnvironmentOptionValue(r ref, tag EnvOptionTag) (any, Status) {
	var val C.LiteRtAny
	st := C.LiteRtGetEnvironmentOptionsValue(envOpts(r), envTagToC(tag), &val)
	if st != C.kLiteRtStatusOk {
		return nil, Status(st)
	}
	return anyFromC(&val), StatusOk
}

func (cgoAPI) CreateModelFromFile(path string) (ref, Status) {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	var out C.LiteRtModel
	st := C.LiteRtCreateModelFromFile(cs, &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) CreateModelFromBuffer(data []byte) (ref, Status) {
	var out C.LiteRtModel
	st := C.LiteRtCreateModelFromBuffer(unsafe.Pointer(&data[0]), C.size_t(len(data)), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) DestroyModel(r ref) { C.LiteRtDestroyModel(model(r)) }

func (cgoAPI) NumModelSubgraphs(r ref) (int, Status) {
	var n C.LiteRtParamIndex
	st := C.LiteRtGetNumModelSubgraphs(model(r), &n)
	return int(n), Status(st)
}

func (cgoAPI) NumModelSignatures(r ref) (int, Status) {
	var n C.LiteRtParamIndex
	st := C.LiteRtGetNumModelSignatures(model(r), &n)
	return int(n), Status(st)
}

func (cgoAPI) ModelSignature(r ref, index int) (ref, Status) {
	var out C.LiteRtSignature
	st := C.LiteRtGetModelSignature(model(r), C.LiteRtParamIndex(index), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) SignatureKey(r ref) (string, Status) {
	var key *C.char
	st := C.LiteRtGetSignatureKey(sig(r), &key)
	if st != C.kLiteRtStatusOk {
		return "", Status(st)
	}
	return C.GoString(key), StatusOk
}

func (cgoAPI) SignatureInputNames(r ref) ([]string, Status) {
	var n C.LiteRtParamIndex
	if st := C.LiteRtGetNumSignatureInputs(sig(r), &n); st != C.kLiteRtStatusOk {
		return nil, Status(st)
	}
	names := make([]string, 0, int(n))
	for i := C.LiteRtParamIndex(0); i < n; i++ {
		var name *C.char
		if st := C.LiteRtGetSignatureInputName(sig(r), i, &name); st != C.kLiteRtStatusOk {
			return nil, Status(st)
		}
		names = append(names, C.GoString(name))
	}
	return names, StatusOk
}

func (cgoAPI) SignatureOutputNames(r ref) ([]string, Status) {
	var n C.LiteRtParamIndex
	if st := C.LiteRtGetNumSignatureOutputs(sig(r), &n); st != C.kLiteRtStatusOk {
		return nil, Status(st)
	}
	names := make([]string, 0, int(n))
	for i := C.LiteRtParamIndex(0); i < n; i++ {
		var name *C.char
		if st := C.LiteRtGetSignatureOutputName(sig(r), i, &name); st != C.kLiteRtStatusOk {
			return nil, Status(st)
		}
		names = append(names, C.GoString(name))
	}
	return names, StatusOk
}

func (cgoAPI) SignatureSubgraph(r ref) (ref, Status) {
	var out C.LiteRtSubgraph
	st := C.LiteRtGetSignatureSubgraph(sig(r), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) NumSubgraphInputs(r ref) (int, Status) {
	var n C.LiteRtParamIndex
	st := C.LiteRtGetNumSubgraphInputs(subgraph(r), &n)
	return int(n), Status(st)
}

func (cgoAPI) NumSubgraphOutputs(r ref) (int, Status) {
	var n C.LiteRtParamIndex
	st := C.LiteRtGetNumSubgraphOutputs(subgraph(r), &n)
	return int(n), Status(st)
}

func (cgoAPI) SubgraphInputTensor(r ref, index int) (ref, Status) {
	var out C.LiteRtTensor
	st := C.LiteRtGetSubgraphInput(subgraph(r), C.LiteRtParamIndex(index), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) SubgraphOutputTensor(r ref, index int) (ref, Status) {
	var out C.LiteRtTensor
	st := C.LiteRtGetSubgraphOutput(subgraph(r), C.LiteRtParamIndex(index), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) TensorName(r ref) (string, Status) {
	var name *C.char
	st := C.LiteRtGetTensorName(tensor(r), &name)
	if st != C.kLiteRtStatusOk {
		return "", Status(st)
	}
	return C.GoString(name), StatusOk
}

func (cgoAPI) TensorType(r ref) (RankedTensorType, Status) {
	var tt C.LiteRtRankedTensorType
	st := C.LiteRtGetRankedTensorType(tensor(r), &tt)
	if st != C.kLiteRtStatusOk {
		return RankedTensorType{}, Status(st)
	}
	rank := int(tt.layout.rank)
	dims := make([]int32, rank)
	for i := 0; i < rank; i++ {
		dims[i] = int32(tt.layout.dimensions[i])
	}
	return RankedTensorType{
		ElementType: elementTypeFromC(tt.element_type),
		Dimensions:  dims,
	}, StatusOk
}

func (cgoAPI) CreateOptions() (ref, Status) {
	var out C.LiteRtOptions
	st := C.LiteRtCreateOptions(&out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) DestroyOptions(r ref) { C.LiteRtDestroyOptions(options(r)) }

func (cgoAPI) SetOptionsHardwareAccelerators(r ref, a Accelerator) Status {
	var mask C.LiteRtHwAcceleratorSet
	if a&AcceleratorCPU != 0 {
		mask |= C.kLiteRtHwAcceleratorCpu
	}
	if a&AcceleratorGPU != 0 {
		mask |= C.kLiteRtHwAcceleratorGpu
	}
	if a&AcceleratorNPU != 0 {
		mask |= C.kLiteRtHwAcceleratorNpu
	}
	return Status(C.LiteRtSetOptionsHardwareAccelerators(options(r), mask))
}

func (cgoAPI) CreateOpaqueOptions(identifier string, payload []byte) (ref, Status) {
	cid := C.CString(identifier)
	defer C.free(unsafe.Pointer(cid))
	var data unsafe.Pointer
	if len(payload) > 0 {
		data = unsafe.Pointer(&payload[0])
	}
	var out C.LiteRtOpaqueOptions
	st := C.create_opaque_options_copy(cid, data, C.size_t(len(payload)), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) DestroyOpaqueOptions(r ref) { C.LiteRtDestroyOpaqueOptions(opaque(r)) }

func (cgoAPI) OpaqueOptionsIdentifier(r ref) (string, Status) {
	var id *C.char
	st := C.LiteRtGetOpaqueOptionsIdentifier(opaque(r), &id)
	if st != C.kLiteRtStatusOk {
		return "", Status(st)
	}
	return C.GoString(id), StatusOk
}

func (cgoAPI) AddOpaqueOptions(r ref, oo ref) Status {
	return Status(C.LiteRtAddOpaqueOptions(options(r), opaque(oo)))
}

func (cgoAPI) CreateCompiledModel(e, m, o ref) (ref, Status) {
	var out C.LiteRtCompiledModel
	st := C.LiteRtCreateCompiledModel(env(e), model(m), options(o), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) DestroyCompiledModel(r ref) { C.LiteRtDestroyCompiledModel(compiled(r)) }

func (cgoAPI) InputBufferRequirements(r ref, sigIndex, inputIndex int) (ref, Status) {
	var out C.LiteRtTensorBufferRequirements
	st := C.LiteRtGetCompiledModelInputBufferRequirements(
		compiled(r), C.LiteRtParamIndex(sigIndex), C.LiteRtParamIndex(inputIndex), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) OutputBufferRequirements(r ref, sigIndex, outputIndex int) (ref, Status) {
	var out C.LiteRtTensorBufferRequirements
	st := C.LiteRtGetCompiledModelOutputBufferRequirements(
		compiled(r), C.LiteRtParamIndex(sigIndex), C.LiteRtParamIndex(outputIndex), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func bufferPtrs(rs []ref) []C.LiteRtTensorBuffer {
	out := make([]C.LiteRtTensorBuffer, len(rs))
	for i, r := range rs {
		out[i] = buffer(r)
	}
	return out
}

func (cgoAPI) RunCompiledModel(r ref, sigIndex int, inputs, outputs []ref) Status {
	in := bufferPtrs(inputs)
	out := bufferPtrs(outputs)
	var inPtr, outPtr *C.LiteRtTensorBuffer
	if len(in) > 0 {
		inPtr = &in[0]
	}
	if len(out) > 0 {
		outPtr = &out[0]
	}
	return Status(C.LiteRtRunCompiledModel(
		compiled(r), C.LiteRtParamIndex(sigIndex),
		C.size_t(len(in)), inPtr, C.size_t(len(out)), outPtr))
}

func (cgoAPI) RunCompiledModelAsync(r ref, sigIndex int, inputs, outputs []ref) (ref, Status) {
	in := bufferPtrs(inputs)
	out := bufferPtrs(outputs)
	var inPtr, outPtr *C.LiteRtTensorBuffer
	if len(in) > 0 {
		inPtr = &in[0]
	}
	if len(out) > 0 {
		outPtr = &out[0]
	}
	var ev C.LiteRtEvent
	st := C.LiteRtRunCompiledModelAsync(
		compiled(r), C.LiteRtParamIndex(sigIndex),
		C.size_t(len(in)), inPtr, C.size_t(len(out)), outPtr, &ev)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(ev)), StatusOk
}

func (cgoAPI) StartMetricsCollection(r ref, detailLevel int) Status {
	return Status(C.LiteRtCompiledModelStartMetricsCollection(compiled(r), C.int(detailLevel)))
}

func (cgoAPI) StopMetricsCollection(r ref) (ref, Status) {
	var m C.LiteRtMetrics
	if st := C.LiteRtCreateMetrics(&m); st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	if st := C.LiteRtCompiledModelStopMetricsCollection(compiled(r), m); st != C.kLiteRtStatusOk {
		C.LiteRtDestroyMetrics(m)
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(m)), StatusOk
}

func (cgoAPI) RequirementsBufferSize(r ref) (int, Status) {
	var n C.size_t
	st := C.LiteRtGetTensorBufferRequirementsBufferSize(reqs(r), &n)
	return int(n), Status(st)
}

func (cgoAPI) RequirementsAlignment(r ref) (int, Status) {
	var n C.uint32_t
	st := C.LiteRtGetTensorBufferRequirementsAlignment(reqs(r), &n)
	return int(n), Status(st)
}

func (cgoAPI) RequirementsSupportedTypes(r ref) ([]TensorBufferType, Status) {
	var n C.int
	if st := C.LiteRtGetNumTensorBufferRequirementsSupportedBufferTypes(reqs(r), &n); st != C.kLiteRtStatusOk {
		return nil, Status(st)
	}
	out := make([]TensorBufferType, 0, int(n))
	for i := C.int(0); i < n; i++ {
		var t C.LiteRtTensorBufferType
		if st := C.LiteRtGetTensorBufferRequirementsSupportedTensorBufferType(reqs(r), i, &t); st != C.kLiteRtStatusOk {
			return nil, Status(st)
		}
		out = append(out, bufferTypeFromC(t))
	}
	return out, StatusOk
}

func (cgoAPI) CreateTensorBuffer(e ref, t RankedTensorType, bt TensorBufferType, size int) (ref, Status) {
	var tt C.LiteRtRankedTensorType
	tt.element_type = elementTypeToC(t.ElementType)
	tt.layout.rank = C.uint32_t(len(t.Dimensions))
	for i, d := range t.Dimensions {
		tt.layout.dimensions[i] = C.int32_t(d)
	}
	var out C.LiteRtTensorBuffer
	st := C.LiteRtCreateManagedTensorBuffer(env(e), bufferTypeToC(bt), &tt, C.size_t(size), &out)
	if st != C.kLiteRtStatusOk {
		return nilRef, Status(st)
	}
	return toRef(unsafe.Pointer(out)), StatusOk
}

func (cgoAPI) DestroyTensorBuffer(r ref) { C.LiteRtDestroyTensorBuffer(buffer(r)) }

func (cgoAPI) TensorBufferPackedSize(r ref) (int, Status) {
	var n C.size_t
	st := C.LiteRtGetTensorBufferPackedSize(buffer(r), &n)
	return int(n), Status(st)
}

func (a cgoAPI) LockTensorBuffer(r ref, mode lockMode) ([]byte, Status) {
	size, st := a.TensorBufferPackedSize(r)
	if st != StatusOk {
		return nil, st
	}
	cmode := C.LiteRtTensorBufferLockMode(C.kLiteRtTensorBufferLockModeRead)
	if mode == lockWrite {
		cmode = C.kLiteRtTensorBufferLockModeWrite
	}
	var data unsafe.Pointer
	if st := C.LiteRtLockTensorBuffer(buffer(r), &data, cmode); st != C.kLiteRtStatusOk {
		return nil, Status(st)
	}
	return unsafe.Slice((*byte)(data), size), StatusOk
}

func (cgoAPI) UnlockTensorBuffer(r ref) Status {
	return Status(C.LiteRtUnlockTensorBuffer(buffer(r)))
}

func (cgoAPI) WaitEvent(r ref, timeout time.Duration) Status {
	return Status(C.LiteRtWaitEvent(event(r), C.int64_t(timeout.Milliseconds())))
}

func (cgoAPI) EventSignaled(r ref) (bool, Status) {
	var s C.bool
	st := C.LiteRtIsEventSignaled(event(r), &s)
	return bool(s), Status(st)
}

func (cgoAPI) DestroyEvent(r ref) { C.LiteRtDestroyEvent(event(r)) }

func (cgoAPI) NumMetrics(r ref) (int, Status) {
	var n C.int
	st := C.LiteRtGetNumMetrics(metrics(r), &n)
	return int(n), Status(st)
}

func (cgoAPI) Metric(r ref, index int) (Metric, Status) {
	var m C.LiteRtMetric
	st := C.LiteRtGetMetric(metrics(r), C.int(index), &m)
	if st != C.kLiteRtStatusOk {
		return Metric{}, Status(st)
	}
	out := Metric{Name: C.GoString(m.name)}
	switch v := anyFromC(&m.value).(type) {
	case int64:
		out.Value = float64(v)
	case float64:
		out.Value = v
	case bool:
		if v {
			out.Value = 1
		}
	}
	return out, StatusOk
}

func (cgoAPI) DestroyMetrics(r ref) { C.LiteRtDestroyMetrics(metrics(r)) }
