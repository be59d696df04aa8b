package types

// InferRequest represents an inference request payload.
type InferRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: mobilenet_v2
	Model string `json:"model,omitempty" example:"mobilenet_v2"`
	// Optional signature key. If empty, the model's first signature is used.
	// example: serving_default
	Signature string `json:"signature,omitempty" example:"serving_default"`
	// Input tensors, by name or in signature declaration order.
	Inputs []Tensor `json:"inputs"`
}

// InferResponse is the synchronous inference result.
type InferResponse struct {
	// Model that served the request.
	// example: mobilenet_v2
	Model string `json:"model" example:"mobilenet_v2"`
	// Signature that was executed.
	// example: serving_default
	Signature string `json:"signature" example:"serving_default"`
	// Output tensors in signature declaration order.
	Outputs []Tensor `json:"outputs"`
	// Wall-clock execution time in milliseconds.
	// example: 4
	LatencyMS int64 `json:"latency_ms" example:"4"`
}

// Job states reported by the async API.
const (
	JobStateRunning = "running"
	JobStateDone    = "done"
	JobStateFailed  = "failed"
)

// JobResponse describes an asynchronous inference job.
type JobResponse struct {
	// Job identifier to poll with.
	// example: 9f3c6a1e-0b4f-4a62-93f5-1c54d4a1a9d2
	ID string `json:"id" example:"9f3c6a1e-0b4f-4a62-93f5-1c54d4a1a9d2"`
	// One of running, done, failed.
	// example: done
	State string `json:"state" example:"done"`
	// Result, present when state is done.
	Result *InferResponse `json:"result,omitempty"`
	// Failure message, present when state is failed.
	Error string `json:"error,omitempty"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// InstanceStatus summarizes one compiled model for /status.
type InstanceStatus struct {
	// ID of the model this instance serves.
	// example: mobilenet_v2
	ModelID string `json:"model_id" example:"mobilenet_v2"`
	// Current lifecycle state of the instance (compiling, ready).
	// example: ready
	State string `json:"state" example:"ready"`
	// Last time this instance served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// Signature keys exposed by the compiled model.
	Signatures []string `json:"signatures,omitempty"`
	// Current queue length for incoming requests.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Number of in-flight requests currently being processed.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Maximum queued requests allowed before backpressure triggers.
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Compiled model instances currently cached.
	Instances []InstanceStatus `json:"instances"`
	// Maximum number of compiled models kept resident.
	// example: 4
	CacheCapacity int `json:"cache_capacity" example:"4"`
	// Whether a native inference runtime is linked into this binary.
	// example: true
	RuntimeAvailable bool `json:"runtime_available" example:"true"`
	// Hardware targets requested for compilation.
	// example: cpu
	Accelerator string `json:"accelerator" example:"cpu"`
	// Total number of evictions performed to stay within capacity.
	// example: 5
	EvictionsTotal uint64 `json:"evictions_total" example:"5"`
	// Total number of model compilations.
	// example: 12
	CompilesTotal uint64 `json:"compiles_total" example:"12"`
	// Async jobs currently tracked (running or awaiting pickup).
	// example: 2
	JobsTracked int `json:"jobs_tracked" example:"2"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Optional top-level error message.
	Error string `json:"error,omitempty"`
}
