// Package litert wraps the LiteRT C inference runtime behind safe Go types.
//
// File layout (one concern per file):
//   - status.go: native status codes, the Error type, kind helpers
//   - types.go: element types, buffer kinds, accelerators, tensor types
//   - handle.go: lifecycle tracking (release, move, use-after-release)
//   - native.go: the nativeAPI seam plus the no-runtime stub
//   - native_cgo.go: cgo implementation (build tag 'litert')
//   - environment.go, model.go, options.go, compiled_model.go,
//     tensor_buffer.go, event.go, metrics.go: one wrapper family each
//
// Every wrapper owns exactly one native handle. Destroy is idempotent and
// releases exactly once; calls that consume a wrapper (CompileModel takes
// Options, AddOpaqueOptions takes OpaqueOptions) leave the source inert, and
// any later use fails with a UseAfterRelease error. Failures surface as
// *Error values classified by Kind; see the Is* helpers.
//
// Built without the 'litert' tag the package compiles against a stub and
// every creation call reports RuntimeUnavailable, which lets the serving
// daemon and its tests run on machines without the native library.
package litert
