package litert

// OptionKeyHardwareAccelerators selects the execution targets for
// compilation. Value: Accelerator or one of "none", "cpu", "gpu", "npu".
const OptionKeyHardwareAccelerators = "hardware_accelerators"

// Options is the mutable bag of compilation options. It is built
// incrementally, then consumed (moved) by CompileModel; afterwards the
// wrapper is inert.
type Options struct {
	lc  lifecycle
	api nativeAPI
	h   ref
}

// NewOptions creates an empty options bag with runtime defaults.
func NewOptions() (*Options, error) {
	return newOptions(runtimeAPI)
}

func newOptions(api nativeAPI) (*Options, error) {
	h, st := api.CreateOptions()
	if st != StatusOk {
		return nil, statusErr("create options", st)
	}
	return &Options{api: api, h: h}, nil
}

// SetHardwareAccelerators selects the hardware targets the model may be
// compiled for. Setting it again overwrites the previous selection.
func (o *Options) SetHardwareAccelerators(a Accelerator) error {
	const op = "set hardware accelerators"
	if err := o.lc.use(op); err != nil {
		return err
	}
	if st := o.api.SetOptionsHardwareAccelerators(o.h, a); st != StatusOk {
		return statusErr(op, st)
	}
	return nil
}

// Set assigns a recognized option key. Unrecognized keys fail with an
// Unsupported error; recognized keys may be set repeatedly, last write wins.
func (o *Options) Set(key string, value any) error {
	const op = "set option"
	switch key {
	case OptionKeyHardwareAccelerators:
		switch v := value.(type) {
		case Accelerator:
			return o.SetHardwareAccelerators(v)
		case string:
			a, ok := ParseAccelerator(v)
			if !ok {
				return errInvalid(op, "bad accelerator name: "+v)
			}
			return o.SetHardwareAccelerators(a)
		default:
			return errInvalid(op, "hardware_accelerators wants Accelerator or string")
		}
	default:
		return errUnsupported(op, "unrecognized option key: "+key)
	}
}

// AddOpaqueOptions appends a vendor-specific options chain. Ownership of
// opaque transfers into this bag; the source wrapper becomes inert.
func (o *Options) AddOpaqueOptions(opaque *OpaqueOptions) error {
	const op = "add opaque options"
	if err := o.lc.use(op); err != nil {
		return err
	}
	if err := opaque.lc.use(op); err != nil {
		return err
	}
	if st := o.api.AddOpaqueOptions(o.h, opaque.h); st != StatusOk {
		return statusErr(op, st)
	}
	// Native owns the chain now. Mark the source inert so it cannot be
	// destroyed or reused.
	return opaque.lc.move(op)
}

// Destroy releases the options bag if it was never consumed. Safe to call
// more than once, and a no-op after the bag was moved into CompileModel.
func (o *Options) Destroy() error {
	if o.lc.release() {
		o.api.DestroyOptions(o.h)
	}
	return nil
}

// OpaqueOptions is an opaque, vendor-keyed configuration payload. It is
// consumed (moved) by Options.AddOpaqueOptions.
type OpaqueOptions struct {
	lc  lifecycle
	api nativeAPI
	h   ref
}

// NewOpaqueOptions creates an opaque options link with the given vendor
// identifier and payload. The payload is copied natively.
func NewOpaqueOptions(identifier string, payload []byte) (*OpaqueOptions, error) {
	return newOpaqueOptions(runtimeAPI, identifier, payload)
}

func newOpaqueOptions(api nativeAPI, identifier string, payload []byte) (*OpaqueOptions, error) {
	if identifier == "" {
		return nil, errInvalid("create opaque options", "empty identifier")
	}
	h, st := api.CreateOpaqueOptions(identifier, payload)
	if st != StatusOk {
		return nil, statusErr("create opaque options", st)
	}
	return &OpaqueOptions{api: api, h: h}, nil
}

// Identifier returns the vendor identifier of this chain link.
func (o *OpaqueOptions) Identifier() (string, error) {
	const op = "opaque options identifier"
	if err := o.lc.use(op); err != nil {
		return "", err
	}
	id, st := o.api.OpaqueOptionsIdentifier(o.h)
	if st != StatusOk {
		return "", statusErr(op, st)
	}
	return id, nil
}

// Destroy releases the chain if it was never consumed. Safe to call more
// than once; a no-op after a move.
func (o *OpaqueOptions) Destroy() error {
	if o.lc.release() {
		o.api.DestroyOpaqueOptions(o.h)
	}
	return nil
}
