package manager

import (
	"context"
	"fmt"

	"github.com/MaxGubin/LiteRT/pkg/litert"
	"github.com/MaxGubin/LiteRT/pkg/types"
)

// EngineConfig carries the runtime-wide settings for the LiteRT engine.
type EngineConfig struct {
	Accelerator        litert.Accelerator
	DispatchLibraryDir string
}

// litertEngine compiles and runs models through pkg/litert. One environment
// per engine; every runner borrows it, so Close must come after all runners
// are closed.
type litertEngine struct {
	env   *litert.Environment
	accel litert.Accelerator
}

// NewEngine builds the LiteRT environment. Fails with a RuntimeUnavailable
// error when the binary was built without the native runtime.
func NewEngine(cfg EngineConfig) (Engine, error) {
	b := litert.NewEnvironmentBuilder()
	if cfg.DispatchLibraryDir != "" {
		if err := b.SetOption(litert.TagDispatchLibraryDir, cfg.DispatchLibraryDir); err != nil {
			return nil, err
		}
	}
	env, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &litertEngine{env: env, accel: cfg.Accelerator}, nil
}

func (e *litertEngine) Load(path string) (Runner, error) {
	model, err := litert.LoadModel(path)
	if err != nil {
		return nil, err
	}
	opts, err := litert.NewOptions()
	if err != nil {
		model.Destroy()
		return nil, err
	}
	if e.accel != litert.AcceleratorNone {
		if err := opts.SetHardwareAccelerators(e.accel); err != nil {
			opts.Destroy()
			model.Destroy()
			return nil, err
		}
	}
	// opts is consumed by the compile, success or not
	cm, err := litert.CompileModel(e.env, model, opts)
	if err != nil {
		model.Destroy()
		return nil, err
	}
	sigs, err := model.Signatures()
	if err != nil {
		cm.Destroy()
		model.Destroy()
		return nil, err
	}
	keys := make([]string, 0, len(sigs))
	for _, s := range sigs {
		k, err := s.Key()
		if err != nil {
			cm.Destroy()
			model.Destroy()
			return nil, err
		}
		keys = append(keys, k)
	}
	return &litertRunner{model: model, cm: cm, keys: keys}, nil
}

func (e *litertEngine) Close() error { return e.env.Destroy() }

type litertRunner struct {
	model *litert.Model
	cm    *litert.CompiledModel
	keys  []string
}

func (r *litertRunner) Signatures() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *litertRunner) Close() error {
	if err := r.cm.Destroy(); err != nil {
		return err
	}
	return r.model.Destroy()
}

func (r *litertRunner) Run(ctx context.Context, signature string, inputs []types.Tensor) ([]types.Tensor, error) {
	sigIndex, err := r.signatureIndex(signature)
	if err != nil {
		return nil, err
	}
	sig, err := r.model.Signature(sigIndex)
	if err != nil {
		return nil, err
	}
	inNames, err := sig.InputNames()
	if err != nil {
		return nil, err
	}
	ordered, err := orderInputs(inputs, inNames)
	if err != nil {
		return nil, err
	}

	inBufs, err := r.cm.CreateInputBuffers(sigIndex)
	if err != nil {
		return nil, err
	}
	defer destroyBuffers(inBufs)
	outBufs, err := r.cm.CreateOutputBuffers(sigIndex)
	if err != nil {
		return nil, err
	}
	defer destroyBuffers(outBufs)

	for i, t := range ordered {
		tt := inBufs[i].TensorType()
		if tt.ElementType != litert.ElementFloat32 {
			return nil, &litert.Error{Kind: litert.KindUnsupported, Op: "infer",
				Msg: fmt.Sprintf("input %q is %s; the JSON API carries float32 only", inNames[i], tt.ElementType)}
		}
		if want := tt.NumElements(); want > 0 && len(t.Data) != want {
			return nil, &litert.Error{Kind: litert.KindInvalidArgument, Op: "infer",
				Msg: fmt.Sprintf("input %q has %d values, signature wants %d", inNames[i], len(t.Data), want)}
		}
		if _, err := litert.Write(inBufs[i], t.Data); err != nil {
			return nil, err
		}
	}

	if err := r.execute(ctx, sigIndex, inBufs, outBufs); err != nil {
		return nil, err
	}

	outNames, err := sig.OutputNames()
	if err != nil {
		return nil, err
	}
	outputs := make([]types.Tensor, 0, len(outBufs))
	for i, b := range outBufs {
		tt := b.TensorType()
		if tt.ElementType != litert.ElementFloat32 {
			return nil, &litert.Error{Kind: litert.KindUnsupported, Op: "infer",
				Msg: fmt.Sprintf("output %q is %s; the JSON API carries float32 only", outNames[i], tt.ElementType)}
		}
		data := make([]float32, tt.NumElements())
		if _, err := litert.Read(b, data); err != nil {
			return nil, err
		}
		dims := make([]int32, len(tt.Dimensions))
		copy(dims, tt.Dimensions)
		outputs = append(outputs, types.Tensor{Name: outNames[i], Dims: dims, Data: data})
	}
	return outputs, nil
}

// execute prefers the async path so completion events flow through the
// binding; backends without async support fall back to the blocking call.
func (r *litertRunner) execute(ctx context.Context, sigIndex int, in, out []*litert.TensorBuffer) error {
	ev, err := r.cm.RunAsync(sigIndex, in, out)
	if err != nil {
		if litert.IsUnsupported(err) {
			return r.cm.Run(sigIndex, in, out)
		}
		return err
	}
	defer ev.Destroy()
	return ev.Wait(ctx)
}

func (r *litertRunner) signatureIndex(signature string) (int, error) {
	if signature == "" {
		if len(r.keys) == 0 {
			return 0, &litert.Error{Kind: litert.KindNotFound, Op: "infer", Msg: "model has no signatures"}
		}
		return 0, nil
	}
	for i, k := range r.keys {
		if k == signature {
			return i, nil
		}
	}
	return 0, &litert.Error{Kind: litert.KindNotFound, Op: "infer", Msg: "signature: " + signature}
}

// orderInputs arranges request tensors into signature slot order. Named
// tensors bind to their slot; unnamed tensors bind positionally. Each slot
// must be filled exactly once.
func orderInputs(inputs []types.Tensor, names []string) ([]types.Tensor, error) {
	if len(inputs) != len(names) {
		return nil, &litert.Error{Kind: litert.KindInvalidArgument, Op: "infer",
			Msg: fmt.Sprintf("got %d input tensors, signature wants %d", len(inputs), len(names))}
	}
	slot := make(map[string]int, len(names))
	for i, n := range names {
		slot[n] = i
	}
	ordered := make([]types.Tensor, len(names))
	filled := make([]bool, len(names))
	for i, t := range inputs {
		idx := i
		if t.Name != "" {
			j, ok := slot[t.Name]
			if !ok {
				return nil, &litert.Error{Kind: litert.KindNotFound, Op: "infer", Msg: "input tensor: " + t.Name}
			}
			idx = j
		}
		if filled[idx] {
			return nil, &litert.Error{Kind: litert.KindInvalidArgument, Op: "infer",
				Msg: "input slot " + names[idx] + " bound twice"}
		}
		ordered[idx] = t
		filled[idx] = true
	}
	return ordered, nil
}

func destroyBuffers(bufs []*litert.TensorBuffer) {
	for _, b := range bufs {
		b.Destroy()
	}
}
