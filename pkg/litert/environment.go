package litert

import "sort"

// EnvOptionTag identifies one recognized environment option.
type EnvOptionTag int

const (
	TagCompilerPluginLibraryDir EnvOptionTag = iota
	TagDispatchLibraryDir
	TagOpenClDeviceID
	TagOpenClPlatformID
	TagOpenClContext
	TagOpenClCommandQueue
	TagEglContext
	TagEglDisplay
	TagWebGpuDevice
	TagWebGpuQueue
	TagMetalDevice
	TagMetalCommandQueue

	numEnvOptionTags // sentinel, keep last
)

func (t EnvOptionTag) String() string {
	switch t {
	case TagCompilerPluginLibraryDir:
		return "compiler_plugin_library_dir"
	case TagDispatchLibraryDir:
		return "dispatch_library_dir"
	case TagOpenClDeviceID:
		return "opencl_device_id"
	case TagOpenClPlatformID:
		return "opencl_platform_id"
	case TagOpenClContext:
		return "opencl_context"
	case TagOpenClCommandQueue:
		return "opencl_command_queue"
	case TagEglContext:
		return "egl_context"
	case TagEglDisplay:
		return "egl_display"
	case TagWebGpuDevice:
		return "webgpu_device"
	case TagWebGpuQueue:
		return "webgpu_queue"
	case TagMetalDevice:
		return "metal_device"
	case TagMetalCommandQueue:
		return "metal_command_queue"
	default:
		return "unknown"
	}
}

// EnvironmentBuilder accumulates typed environment options before creation.
// Setting the same tag twice overwrites the earlier value. The builder is
// write-only; it has no native handle until Build.
type EnvironmentBuilder struct {
	values map[EnvOptionTag]any
}

// NewEnvironmentBuilder returns an empty builder.
func NewEnvironmentBuilder() *EnvironmentBuilder {
	return &EnvironmentBuilder{values: make(map[EnvOptionTag]any)}
}

// SetOption records one option value. Accepted value types are string, bool,
// integers and floats (the LiteRtAny families). Unknown tags and unsupported
// value types fail with an Unsupported error.
func (b *EnvironmentBuilder) SetOption(tag EnvOptionTag, value any) error {
	const op = "environment option"
	if tag < 0 || tag >= numEnvOptionTags {
		return errUnsupported(op, "unrecognized option tag")
	}
	norm, ok := normalizeAny(value)
	if !ok {
		return errUnsupported(op, "unsupported option value type")
	}
	b.values[tag] = norm
	return nil
}

// normalizeAny narrows a caller value to the closed set carried across the
// boundary: string, bool, int64, float64.
func normalizeAny(v any) (any, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return nil, false
	}
}

// Build creates the environment. The builder stays usable afterwards; the
// returned Environment owns the native handle.
func (b *EnvironmentBuilder) Build() (*Environment, error) {
	opts := make([]envOption, 0, len(b.values))
	for tag, v := range b.values {
		opts = append(opts, envOption{Tag: tag, Value: v})
	}
	// stable order so native sees a deterministic option list
	sort.Slice(opts, func(i, j int) bool { return opts[i].Tag < opts[j].Tag })
	return newEnvironment(runtimeAPI, opts)
}

// Environment is the process-wide runtime context. Every other handle is
// causally dependent on its environment staying alive; destroy it last.
type Environment struct {
	lc  lifecycle
	api nativeAPI
	h   ref
}

// NewEnvironment creates an environment with default options.
func NewEnvironment() (*Environment, error) {
	return newEnvironment(runtimeAPI, nil)
}

func newEnvironment(api nativeAPI, opts []envOption) (*Environment, error) {
	h, st := api.CreateEnvironment(opts)
	if st != StatusOk {
		return nil, statusErr("create environment", st)
	}
	return &Environment{api: api, h: h}, nil
}

// Options returns a read-only view of the options the environment was created
// with. The view borrows the environment's handle and must not be used after
// the environment is destroyed.
func (e *Environment) Options() (*EnvironmentOptions, error) {
	const op = "environment options"
	if err := e.lc.use(op); err != nil {
		return nil, err
	}
	h, st := e.api.EnvironmentOptions(e.h)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &EnvironmentOptions{env: e, h: h}, nil
}

// Destroy releases the native environment. Safe to call more than once.
func (e *Environment) Destroy() error {
	if e.lc.release() {
		e.api.DestroyEnvironment(e.h)
	}
	return nil
}

// EnvironmentOptions is a borrowed, read-only view over an environment's
// option values. It owns nothing and needs no destroy.
type EnvironmentOptions struct {
	env *Environment
	h   ref
}

// Value returns the value stored for tag, or a NotFound error when the
// environment was created without it.
func (o *EnvironmentOptions) Value(tag EnvOptionTag) (any, error) {
	const op = "environment option value"
	if err := o.env.lc.use(op); err != nil {
		return nil, err
	}
	v, st := o.env.api.EnvironmentOptionValue(o.h, tag)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return v, nil
}
