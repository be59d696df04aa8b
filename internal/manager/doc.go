// Package manager provides lifecycle, admission, and inference coordination
// for compiled models. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters, Close.
//   - config.go: ManagerConfig and package defaults; New applies defaults.
//   - types.go: internal state types (State, Instance).
//   - errors.go: error types and helpers (IsTooBusy, IsModelNotFound).
//   - engine.go: the Engine/Runner seam over the inference runtime.
//   - engine_litert.go: LiteRT-backed Engine via pkg/litert.
//   - ensure.go: compile-on-demand with singleflight deduplication.
//   - evict.go: LRU eviction to stay within the compiled-model cache cap.
//   - admission.go: per-instance queueing and in-flight admission.
//   - infer.go: synchronous inference entry point.
//   - jobs.go: asynchronous inference jobs.
//   - status_report.go: Status reporting for /status.
//   - unload.go: graceful drain and removal of an instance.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, Ready, ListModels, Status, Infer, Submit,
// Job, Unload, Close). Internal types are subject to change.
package manager
