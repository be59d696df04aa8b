package litert

// ElementType is the scalar type of a tensor's elements.
type ElementType int

const (
	ElementNone ElementType = iota
	ElementBool
	ElementInt4
	ElementInt8
	ElementInt16
	ElementInt32
	ElementInt64
	ElementUInt8
	ElementUInt16
	ElementUInt32
	ElementUInt64
	ElementFloat16
	ElementBFloat16
	ElementFloat32
	ElementFloat64
	ElementComplex64
	ElementComplex128
	ElementTfResource
	ElementTfString
	ElementTfVariant
)

func (e ElementType) String() string {
	switch e {
	case ElementNone:
		return "none"
	case ElementBool:
		return "bool"
	case ElementInt4:
		return "int4"
	case ElementInt8:
		return "int8"
	case ElementInt16:
		return "int16"
	case ElementInt32:
		return "int32"
	case ElementInt64:
		return "int64"
	case ElementUInt8:
		return "uint8"
	case ElementUInt16:
		return "uint16"
	case ElementUInt32:
		return "uint32"
	case ElementUInt64:
		return "uint64"
	case ElementFloat16:
		return "float16"
	case ElementBFloat16:
		return "bfloat16"
	case ElementFloat32:
		return "float32"
	case ElementFloat64:
		return "float64"
	case ElementComplex64:
		return "complex64"
	case ElementComplex128:
		return "complex128"
	case ElementTfResource:
		return "tf_resource"
	case ElementTfString:
		return "tf_string"
	case ElementTfVariant:
		return "tf_variant"
	default:
		return "unknown"
	}
}

// ByteSize returns the size of one element in bytes, or 0 for packed and
// variable-size types (int4, strings, resources).
func (e ElementType) ByteSize() int {
	switch e {
	case ElementBool, ElementInt8, ElementUInt8:
		return 1
	case ElementInt16, ElementUInt16, ElementFloat16, ElementBFloat16:
		return 2
	case ElementInt32, ElementUInt32, ElementFloat32:
		return 4
	case ElementInt64, ElementUInt64, ElementFloat64, ElementComplex64:
		return 8
	case ElementComplex128:
		return 16
	default:
		return 0
	}
}

// TensorBufferType identifies the backing memory kind of a tensor buffer.
type TensorBufferType int

const (
	BufferUnknown TensorBufferType = iota
	BufferHostMemory
	BufferAhwb
	BufferIon
	BufferDmaBuf
	BufferFastRpc
	BufferGlBuffer
	BufferGlTexture
	BufferOpenClBuffer
	BufferOpenClBufferFp16
	BufferOpenClTexture
	BufferOpenClTextureFp16
	BufferOpenClBufferPacked
)

func (t TensorBufferType) String() string {
	switch t {
	case BufferHostMemory:
		return "host_memory"
	case BufferAhwb:
		return "ahwb"
	case BufferIon:
		return "ion"
	case BufferDmaBuf:
		return "dma_buf"
	case BufferFastRpc:
		return "fast_rpc"
	case BufferGlBuffer:
		return "gl_buffer"
	case BufferGlTexture:
		return "gl_texture"
	case BufferOpenClBuffer:
		return "opencl_buffer"
	case BufferOpenClBufferFp16:
		return "opencl_buffer_fp16"
	case BufferOpenClTexture:
		return "opencl_texture"
	case BufferOpenClTextureFp16:
		return "opencl_texture_fp16"
	case BufferOpenClBufferPacked:
		return "opencl_buffer_packed"
	default:
		return "unknown"
	}
}

// Accelerator selects hardware execution targets for compilation.
// Values form a bitmask so several targets can be requested at once.
type Accelerator int

const (
	AcceleratorNone Accelerator = 0
	AcceleratorCPU  Accelerator = 1 << 0
	AcceleratorGPU  Accelerator = 1 << 1
	AcceleratorNPU  Accelerator = 1 << 2
)

func (a Accelerator) String() string {
	switch a {
	case AcceleratorNone:
		return "none"
	case AcceleratorCPU:
		return "cpu"
	case AcceleratorGPU:
		return "gpu"
	case AcceleratorNPU:
		return "npu"
	}
	// composite mask
	s := ""
	for _, p := range []struct {
		a Accelerator
		n string
	}{{AcceleratorCPU, "cpu"}, {AcceleratorGPU, "gpu"}, {AcceleratorNPU, "npu"}} {
		if a&p.a != 0 {
			if s != "" {
				s += "|"
			}
			s += p.n
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// ParseAccelerator maps a config string to an Accelerator.
func ParseAccelerator(s string) (Accelerator, bool) {
	switch s {
	case "", "none":
		return AcceleratorNone, true
	case "cpu":
		return AcceleratorCPU, true
	case "gpu":
		return AcceleratorGPU, true
	case "npu":
		return AcceleratorNPU, true
	default:
		return AcceleratorNone, false
	}
}

// RankedTensorType describes a tensor's element type and static shape.
type RankedTensorType struct {
	ElementType ElementType
	Dimensions  []int32
}

// NumElements returns the product of the dimensions, or 0 when any
// dimension is dynamic (negative).
func (t RankedTensorType) NumElements() int {
	n := 1
	for _, d := range t.Dimensions {
		if d < 0 {
			return 0
		}
		n *= int(d)
	}
	return n
}

// PackedByteSize returns the packed size of the tensor in bytes, or 0 when
// the size cannot be derived statically.
func (t RankedTensorType) PackedByteSize() int {
	es := t.ElementType.ByteSize()
	if es == 0 {
		return 0
	}
	return t.NumElements() * es
}

// lockMode selects read or write access when locking a tensor buffer.
type lockMode int

const (
	lockRead lockMode = iota
	lockWrite
)

// Metric is one named performance counter from a metrics snapshot.
type Metric struct {
	Name  string
	Value float64
}
