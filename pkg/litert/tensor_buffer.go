package litert

import (
	"fmt"
	"unsafe"
)

// TensorBufferRequirements describes the memory constraints for one tensor
// slot of a compiled model: minimum size, alignment, and the buffer kinds
// the selected backend can consume. The view borrows the compiled model's
// handle; query it and let it go.
type TensorBufferRequirements struct {
	cm *CompiledModel
	h  ref
}

// BufferSize returns the minimum buffer size in bytes.
func (r *TensorBufferRequirements) BufferSize() (int, error) {
	const op = "requirements buffer size"
	if err := r.cm.lc.use(op); err != nil {
		return 0, err
	}
	n, st := r.cm.api.RequirementsBufferSize(r.h)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	return n, nil
}

// Alignment returns the required buffer alignment in bytes.
func (r *TensorBufferRequirements) Alignment() (int, error) {
	const op = "requirements alignment"
	if err := r.cm.lc.use(op); err != nil {
		return 0, err
	}
	n, st := r.cm.api.RequirementsAlignment(r.h)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	return n, nil
}

// SupportedTypes returns the buffer kinds the backend accepts for this slot,
// in backend preference order.
func (r *TensorBufferRequirements) SupportedTypes() ([]TensorBufferType, error) {
	const op = "requirements supported types"
	if err := r.cm.lc.use(op); err != nil {
		return nil, err
	}
	ts, st := r.cm.api.RequirementsSupportedTypes(r.h)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return ts, nil
}

// Validate checks a candidate buffer description against the requirements:
// the kind must be in the supported set, the size must cover the required
// size, and the candidate alignment must be a multiple of the required one.
// Returns an IncompatibleBuffer error naming the first violated constraint.
func (r *TensorBufferRequirements) Validate(kind TensorBufferType, size, alignment int) error {
	const op = "validate buffer"
	kinds, err := r.SupportedTypes()
	if err != nil {
		return err
	}
	supported := false
	for _, k := range kinds {
		if k == kind {
			supported = true
			break
		}
	}
	if !supported {
		return errIncompatible(op, fmt.Sprintf("buffer kind %s not in supported set", kind))
	}
	need, err := r.BufferSize()
	if err != nil {
		return err
	}
	if size < need {
		return errIncompatible(op, fmt.Sprintf("buffer size %d < required %d", size, need))
	}
	align, err := r.Alignment()
	if err != nil {
		return err
	}
	if align > 0 && (alignment <= 0 || alignment%align != 0) {
		return errIncompatible(op, fmt.Sprintf("buffer alignment %d incompatible with required %d", alignment, align))
	}
	return nil
}

// chooseBufferType picks a kind from the supported set, preferring host
// memory so the host can read results without a device round trip.
func (r *TensorBufferRequirements) chooseBufferType() (TensorBufferType, error) {
	kinds, err := r.SupportedTypes()
	if err != nil {
		return BufferUnknown, err
	}
	if len(kinds) == 0 {
		return BufferUnknown, errIncompatible("negotiate buffer", "slot supports no buffer kinds")
	}
	for _, k := range kinds {
		if k == BufferHostMemory {
			return k, nil
		}
	}
	return kinds[0], nil
}

// TensorBuffer is a block of memory (host or device) holding tensor data.
// Contents are mutable; shape and element type are fixed at creation.
type TensorBuffer struct {
	lc         lifecycle
	api        nativeAPI
	h          ref
	tensorType RankedTensorType
	bufferType TensorBufferType

	// pending is the unconsumed event of an in-flight async execution that
	// references this buffer. Reads and writes are rejected until the event
	// is waited on. Guarded by lc.mu.
	pending *Event
}

// NewTensorBuffer allocates a managed buffer of the given kind and size in
// the environment. Size must cover the packed tensor size.
func NewTensorBuffer(env *Environment, t RankedTensorType, kind TensorBufferType, size int) (*TensorBuffer, error) {
	const op = "create tensor buffer"
	if err := env.lc.use(op); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, errInvalid(op, "non-positive buffer size")
	}
	if packed := t.PackedByteSize(); packed > 0 && size < packed {
		return nil, errIncompatible(op, fmt.Sprintf("size %d < packed tensor size %d", size, packed))
	}
	h, st := env.api.CreateTensorBuffer(env.h, t, kind, size)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &TensorBuffer{api: env.api, h: h, tensorType: t, bufferType: kind}, nil
}

// TensorType returns the buffer's ranked tensor type.
func (b *TensorBuffer) TensorType() RankedTensorType { return b.tensorType }

// BufferType returns the backing memory kind.
func (b *TensorBuffer) BufferType() TensorBufferType { return b.bufferType }

// PackedSize returns the packed data size in bytes.
func (b *TensorBuffer) PackedSize() (int, error) {
	const op = "tensor buffer packed size"
	if err := b.lc.use(op); err != nil {
		return 0, err
	}
	n, st := b.api.TensorBufferPackedSize(b.h)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	return n, nil
}

// Destroy releases the buffer. Safe to call more than once. Destroying a
// buffer while an async execution still references it leaves the execution's
// fate to the native runtime; wait on the event first.
func (b *TensorBuffer) Destroy() error {
	if b.lc.release() {
		b.api.DestroyTensorBuffer(b.h)
	}
	return nil
}

// setPending marks the buffer as referenced by an in-flight execution.
func (b *TensorBuffer) setPending(ev *Event) {
	b.lc.mu.Lock()
	b.pending = ev
	b.lc.mu.Unlock()
}

// clearPending is called by Event.Wait once the execution completed.
func (b *TensorBuffer) clearPending(ev *Event) {
	b.lc.mu.Lock()
	if b.pending == ev {
		b.pending = nil
	}
	b.lc.mu.Unlock()
}

// checkAccess rejects use of released buffers and of buffers referenced by
// an unconsumed async execution.
func (b *TensorBuffer) checkAccess(op string) error {
	b.lc.mu.Lock()
	defer b.lc.mu.Unlock()
	if b.lc.released || b.lc.moved {
		return errUseAfterRelease(op)
	}
	if b.pending != nil {
		return errInvalid(op, "async execution in flight; wait on its event first")
	}
	return nil
}

// Scalar is the set of Go element types that can be copied in and out of
// tensor buffers directly.
type Scalar interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// elementTypeCompatible reports whether a Go scalar type may alias the
// buffer's element type.
func elementTypeCompatible[T Scalar](e ElementType) bool {
	var zero T
	switch any(zero).(type) {
	case bool:
		return e == ElementBool
	case int8:
		return e == ElementInt8
	case uint8:
		return e == ElementUInt8
	case int16:
		return e == ElementInt16
	case uint16:
		return e == ElementUInt16 || e == ElementFloat16 || e == ElementBFloat16
	case int32:
		return e == ElementInt32
	case uint32:
		return e == ElementUInt32
	case int64:
		return e == ElementInt64
	case uint64:
		return e == ElementUInt64
	case float32:
		return e == ElementFloat32
	case float64:
		return e == ElementFloat64
	default:
		return false
	}
}

// Write copies data into the buffer. The element type of T must match the
// buffer's tensor type and the data must fit the packed size. Returns the
// number of bytes written.
func Write[T Scalar](b *TensorBuffer, data []T) (int, error) {
	const op = "tensor buffer write"
	if err := b.checkAccess(op); err != nil {
		return 0, err
	}
	if !elementTypeCompatible[T](b.tensorType.ElementType) {
		return 0, errInvalid(op, "element type mismatch: buffer holds "+b.tensorType.ElementType.String())
	}
	srcSize := len(data) * int(unsafe.Sizeof(*new(T)))
	dst, st := b.api.LockTensorBuffer(b.h, lockWrite)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	defer b.api.UnlockTensorBuffer(b.h)
	if srcSize > len(dst) {
		return 0, errIncompatible(op, fmt.Sprintf("data size %d > buffer size %d", srcSize, len(dst)))
	}
	if srcSize > 0 {
		src := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), srcSize)
		copy(dst, src)
	}
	return srcSize, nil
}

// Read copies the buffer contents into out, which must hold the full packed
// size. Returns the number of elements read. Reading a buffer that is still
// referenced by an unconsumed async execution fails.
func Read[T Scalar](b *TensorBuffer, out []T) (int, error) {
	const op = "tensor buffer read"
	if err := b.checkAccess(op); err != nil {
		return 0, err
	}
	if !elementTypeCompatible[T](b.tensorType.ElementType) {
		return 0, errInvalid(op, "element type mismatch: buffer holds "+b.tensorType.ElementType.String())
	}
	src, st := b.api.LockTensorBuffer(b.h, lockRead)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	defer b.api.UnlockTensorBuffer(b.h)
	elem := int(unsafe.Sizeof(*new(T)))
	dstSize := len(out) * elem
	if dstSize < len(src) {
		return 0, errIncompatible(op, fmt.Sprintf("destination size %d < packed size %d", dstSize, len(src)))
	}
	n := len(src) / elem
	if n > 0 {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), n*elem)
		copy(dst, src[:n*elem])
	}
	return n, nil
}
