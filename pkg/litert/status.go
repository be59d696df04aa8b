package litert

import (
	"errors"
	"fmt"
)

// Status mirrors the LiteRtStatus codes returned by the C runtime.
// Values match litert_common.h so the cgo layer can pass them through.
type Status int32

const (
	StatusOk                           Status = 0
	StatusErrorInvalidArgument         Status = 1
	StatusErrorMemoryAllocationFailure Status = 2
	StatusErrorRuntimeFailure          Status = 3
	StatusErrorMissingInputTensor      Status = 4
	StatusErrorUnsupported             Status = 5
	StatusErrorNotFound                Status = 6
	StatusErrorTimeoutExpired          Status = 7
	StatusErrorWrongVersion            Status = 8
	StatusErrorUnknown                 Status = 9
	StatusErrorFileIO                  Status = 500
	StatusErrorInvalidFlatbuffer       Status = 501
	StatusErrorDynamicLoading          Status = 502
	StatusErrorSerialization           Status = 503
	StatusErrorCompilation             Status = 504
	StatusErrorIndexOOB                Status = 1000
	StatusErrorInvalidIrType           Status = 1001
	StatusErrorInvalidGraphInvariant   Status = 1002
	StatusErrorGraphModification       Status = 1003

	// StatusRuntimeUnavailable is synthesized by this package when the binary
	// was built without the 'litert' tag and no native runtime is linked in.
	// It never comes from the C side.
	StatusRuntimeUnavailable Status = -1
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusErrorInvalidArgument:
		return "invalid argument"
	case StatusErrorMemoryAllocationFailure:
		return "memory allocation failure"
	case StatusErrorRuntimeFailure:
		return "runtime failure"
	case StatusErrorMissingInputTensor:
		return "missing input tensor"
	case StatusErrorUnsupported:
		return "unsupported"
	case StatusErrorNotFound:
		return "not found"
	case StatusErrorTimeoutExpired:
		return "timeout expired"
	case StatusErrorWrongVersion:
		return "wrong version"
	case StatusErrorUnknown:
		return "unknown"
	case StatusErrorFileIO:
		return "file io error"
	case StatusErrorInvalidFlatbuffer:
		return "invalid flatbuffer"
	case StatusErrorDynamicLoading:
		return "dynamic loading error"
	case StatusErrorSerialization:
		return "serialization error"
	case StatusErrorCompilation:
		return "compilation error"
	case StatusErrorIndexOOB:
		return "index out of bounds"
	case StatusErrorInvalidIrType:
		return "invalid ir type"
	case StatusErrorInvalidGraphInvariant:
		return "invalid graph invariant"
	case StatusErrorGraphModification:
		return "graph modification error"
	case StatusRuntimeUnavailable:
		return "litert runtime unavailable"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Kind classifies binding errors into the closed set callers branch on.
// No raw status codes cross into caller logic; they ride along for logging.
type Kind int

const (
	KindInvalidArgument Kind = iota
	KindNotFound
	KindUnsupported
	KindIncompatibleBuffer
	KindInternal
	KindUseAfterRelease
	KindRuntimeUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindUnsupported:
		return "unsupported"
	case KindIncompatibleBuffer:
		return "incompatible buffer"
	case KindInternal:
		return "internal error"
	case KindUseAfterRelease:
		return "use after release"
	case KindRuntimeUnavailable:
		return "runtime unavailable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single error type surfaced by this package.
// Op names the binding operation that failed, Status carries the native code
// (StatusOk when the failure was detected on the Go side).
type Error struct {
	Kind   Kind
	Op     string
	Status Status
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		if e.Status != StatusOk {
			return fmt.Sprintf("litert: %s: %s: %s (status: %s)", e.Op, e.Kind, e.Msg, e.Status)
		}
		return fmt.Sprintf("litert: %s: %s: %s", e.Op, e.Kind, e.Msg)
	}
	if e.Status != StatusOk {
		return fmt.Sprintf("litert: %s: %s (status: %s)", e.Op, e.Kind, e.Status)
	}
	return fmt.Sprintf("litert: %s: %s", e.Op, e.Kind)
}

// kindFor maps a native status family to an error kind.
func kindFor(s Status) Kind {
	switch s {
	case StatusErrorInvalidArgument, StatusErrorMissingInputTensor,
		StatusErrorIndexOOB, StatusErrorInvalidFlatbuffer:
		return KindInvalidArgument
	case StatusErrorNotFound:
		return KindNotFound
	case StatusErrorUnsupported, StatusErrorWrongVersion:
		return KindUnsupported
	case StatusRuntimeUnavailable:
		return KindRuntimeUnavailable
	default:
		return KindInternal
	}
}

// statusErr translates a non-OK native status into an *Error.
func statusErr(op string, s Status) error {
	return &Error{Kind: kindFor(s), Op: op, Status: s}
}

func errUseAfterRelease(op string) error {
	return &Error{Kind: KindUseAfterRelease, Op: op}
}

func errInvalid(op, msg string) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: msg}
}

func errUnsupported(op, msg string) error {
	return &Error{Kind: KindUnsupported, Op: op, Msg: msg}
}

func errIncompatible(op, msg string) error {
	return &Error{Kind: KindIncompatibleBuffer, Op: op, Msg: msg}
}

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// IsInvalidArgument reports whether err is a malformed-input error.
func IsInvalidArgument(err error) bool { return isKind(err, KindInvalidArgument) }

// IsNotFound reports whether err indicates a missing resource, option, or tensor slot.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsUnsupported reports whether err indicates an option/buffer-kind/backend
// combination the runtime does not implement.
func IsUnsupported(err error) bool { return isKind(err, KindUnsupported) }

// IsIncompatibleBuffer reports whether err is a size/alignment/kind mismatch
// against negotiated buffer requirements.
func IsIncompatibleBuffer(err error) bool { return isKind(err, KindIncompatibleBuffer) }

// IsInternal reports whether err is a native engine failure unrelated to caller input.
func IsInternal(err error) bool { return isKind(err, KindInternal) }

// IsUseAfterRelease reports whether err came from using a wrapper whose handle
// was already released or moved.
func IsUseAfterRelease(err error) bool { return isKind(err, KindUseAfterRelease) }

// IsRuntimeUnavailable reports whether err means the native runtime is not
// linked into this binary (built without the 'litert' tag) or failed to load.
func IsRuntimeUnavailable(err error) bool { return isKind(err, KindRuntimeUnavailable) }
