package litert

import "fmt"

// MetricsDetail selects how much the runtime records between
// StartMetricsCollection and StopMetricsCollection.
type MetricsDetail int

const (
	MetricsBasic MetricsDetail = iota
	MetricsDetailed
)

// CompiledModel is a model bound to an execution backend. It borrows its
// environment and model (both must outlive it, caller-tracked) and owns the
// backend resources created during compilation.
type CompiledModel struct {
	lc    lifecycle
	api   nativeAPI
	h     ref
	env   *Environment
	model *Model
}

// CompileModel compiles model for the targets selected in opts.
//
// Ownership: opts is consumed (moved) by this call and becomes inert whether
// compilation succeeds or fails, matching the native contract. env and model
// are borrowed and stay owned by the caller.
func CompileModel(env *Environment, model *Model, opts *Options) (*CompiledModel, error) {
	const op = "compile model"
	if err := env.lc.use(op); err != nil {
		return nil, err
	}
	if err := model.lc.use(op); err != nil {
		return nil, err
	}
	if err := opts.lc.move(op); err != nil {
		return nil, err
	}
	h, st := env.api.CreateCompiledModel(env.h, model.h, opts.h)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &CompiledModel{api: env.api, h: h, env: env, model: model}, nil
}

// Model returns the source model this compiled model was built from.
func (c *CompiledModel) Model() *Model { return c.model }

// InputRequirements returns the buffer requirements for one input slot of a
// signature.
func (c *CompiledModel) InputRequirements(sigIndex, inputIndex int) (*TensorBufferRequirements, error) {
	const op = "input buffer requirements"
	if err := c.lc.use(op); err != nil {
		return nil, err
	}
	h, st := c.api.InputBufferRequirements(c.h, sigIndex, inputIndex)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &TensorBufferRequirements{cm: c, h: h}, nil
}

// OutputRequirements returns the buffer requirements for one output slot of
// a signature.
func (c *CompiledModel) OutputRequirements(sigIndex, outputIndex int) (*TensorBufferRequirements, error) {
	const op = "output buffer requirements"
	if err := c.lc.use(op); err != nil {
		return nil, err
	}
	h, st := c.api.OutputBufferRequirements(c.h, sigIndex, outputIndex)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &TensorBufferRequirements{cm: c, h: h}, nil
}

// CreateInputBuffers negotiates and allocates one buffer per input slot of
// the signature, in declaration order.
func (c *CompiledModel) CreateInputBuffers(sigIndex int) ([]*TensorBuffer, error) {
	return c.createBuffers(sigIndex, true)
}

// CreateOutputBuffers negotiates and allocates one buffer per output slot of
// the signature, in declaration order.
func (c *CompiledModel) CreateOutputBuffers(sigIndex int) ([]*TensorBuffer, error) {
	return c.createBuffers(sigIndex, false)
}

func (c *CompiledModel) createBuffers(sigIndex int, inputs bool) ([]*TensorBuffer, error) {
	sig, err := c.model.Signature(sigIndex)
	if err != nil {
		return nil, err
	}
	sg, err := sig.Subgraph()
	if err != nil {
		return nil, err
	}
	var names []string
	if inputs {
		names, err = sig.InputNames()
	} else {
		names, err = sig.OutputNames()
	}
	if err != nil {
		return nil, err
	}
	bufs := make([]*TensorBuffer, 0, len(names))
	destroyAll := func() {
		for _, b := range bufs {
			b.Destroy()
		}
	}
	for i, name := range names {
		var req *TensorBufferRequirements
		var tensor *Tensor
		if inputs {
			req, err = c.InputRequirements(sigIndex, i)
			if err == nil {
				tensor, err = sg.InputTensorByName(name)
			}
		} else {
			req, err = c.OutputRequirements(sigIndex, i)
			if err == nil {
				tensor, err = sg.OutputTensorByName(name)
			}
		}
		if err != nil {
			destroyAll()
			return nil, err
		}
		buf, err := c.negotiateBuffer(req, tensor)
		if err != nil {
			destroyAll()
			return nil, err
		}
		bufs = append(bufs, buf)
	}
	return bufs, nil
}

// negotiateBuffer allocates a buffer satisfying req for the given tensor:
// pick a supported kind (host memory preferred), size from the requirements,
// then double-check the allocation against the constraints.
func (c *CompiledModel) negotiateBuffer(req *TensorBufferRequirements, tensor *Tensor) (*TensorBuffer, error) {
	kind, err := req.chooseBufferType()
	if err != nil {
		return nil, err
	}
	size, err := req.BufferSize()
	if err != nil {
		return nil, err
	}
	tt, err := tensor.Type()
	if err != nil {
		return nil, err
	}
	buf, err := NewTensorBuffer(c.env, tt, kind, size)
	if err != nil {
		return nil, err
	}
	align, err := req.Alignment()
	if err != nil {
		buf.Destroy()
		return nil, err
	}
	// Managed allocations come back aligned to the requirement.
	if err := req.Validate(kind, size, align); err != nil {
		buf.Destroy()
		return nil, err
	}
	return buf, nil
}

// checkRun validates buffer sets against the signature before execution:
// counts must match, every buffer must be live and idle, and input element
// types must match the graph.
func (c *CompiledModel) checkRun(op string, sigIndex int, inputs, outputs []*TensorBuffer) error {
	sig, err := c.model.Signature(sigIndex)
	if err != nil {
		return err
	}
	inNames, err := sig.InputNames()
	if err != nil {
		return err
	}
	outNames, err := sig.OutputNames()
	if err != nil {
		return err
	}
	if len(inputs) != len(inNames) {
		return errInvalid(op, fmt.Sprintf("got %d input buffers, signature wants %d", len(inputs), len(inNames)))
	}
	if len(outputs) != len(outNames) {
		return errInvalid(op, fmt.Sprintf("got %d output buffers, signature wants %d", len(outputs), len(outNames)))
	}
	sg, err := sig.Subgraph()
	if err != nil {
		return err
	}
	for i, b := range inputs {
		if err := b.checkAccess(op); err != nil {
			return err
		}
		t, err := sg.InputTensor(i)
		if err != nil {
			return err
		}
		tt, err := t.Type()
		if err != nil {
			return err
		}
		if b.tensorType.ElementType != tt.ElementType {
			return errInvalid(op, fmt.Sprintf("input %d element type %s, graph wants %s",
				i, b.tensorType.ElementType, tt.ElementType))
		}
	}
	for _, b := range outputs {
		if err := b.checkAccess(op); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the signature synchronously, blocking until completion.
// Inputs must match the signature's count, order, and element types.
func (c *CompiledModel) Run(sigIndex int, inputs, outputs []*TensorBuffer) error {
	const op = "run compiled model"
	if err := c.lc.use(op); err != nil {
		return err
	}
	if err := c.checkRun(op, sigIndex, inputs, outputs); err != nil {
		return err
	}
	if st := c.api.RunCompiledModel(c.h, sigIndex, bufferRefs(inputs), bufferRefs(outputs)); st != StatusOk {
		return statusErr(op, st)
	}
	return nil
}

// RunAsync triggers the signature and returns immediately with an unsignaled
// event. All referenced buffers are fenced: reads and writes on them fail
// until Event.Wait succeeds. The caller owns the event and must destroy it.
func (c *CompiledModel) RunAsync(sigIndex int, inputs, outputs []*TensorBuffer) (*Event, error) {
	const op = "run compiled model async"
	if err := c.lc.use(op); err != nil {
		return nil, err
	}
	if err := c.checkRun(op, sigIndex, inputs, outputs); err != nil {
		return nil, err
	}
	h, st := c.api.RunCompiledModelAsync(c.h, sigIndex, bufferRefs(inputs), bufferRefs(outputs))
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	ev := &Event{api: c.api, h: h}
	ev.fenced = make([]*TensorBuffer, 0, len(inputs)+len(outputs))
	ev.fenced = append(ev.fenced, inputs...)
	ev.fenced = append(ev.fenced, outputs...)
	for _, b := range ev.fenced {
		b.setPending(ev)
	}
	return ev, nil
}

// StartMetricsCollection begins recording performance counters for
// subsequent executions.
func (c *CompiledModel) StartMetricsCollection(detail MetricsDetail) error {
	const op = "start metrics collection"
	if err := c.lc.use(op); err != nil {
		return err
	}
	if st := c.api.StartMetricsCollection(c.h, int(detail)); st != StatusOk {
		return statusErr(op, st)
	}
	return nil
}

// StopMetricsCollection stops recording and returns the snapshot. The caller
// owns the snapshot and must destroy it.
func (c *CompiledModel) StopMetricsCollection() (*Metrics, error) {
	const op = "stop metrics collection"
	if err := c.lc.use(op); err != nil {
		return nil, err
	}
	h, st := c.api.StopMetricsCollection(c.h)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &Metrics{api: c.api, h: h}, nil
}

// Destroy releases the compiled model and its backend resources. Safe to
// call more than once. The source model and environment stay alive.
func (c *CompiledModel) Destroy() error {
	if c.lc.release() {
		c.api.DestroyCompiledModel(c.h)
	}
	return nil
}

func bufferRefs(bufs []*TensorBuffer) []ref {
	out := make([]ref, len(bufs))
	for i, b := range bufs {
		out[i] = b.h
	}
	return out
}
