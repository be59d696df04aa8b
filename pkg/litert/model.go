package litert

// Model is a parsed, immutable model graph. Its lifetime is independent of
// any compiled model built from it; the caller destroys both.
type Model struct {
	lc  lifecycle
	api nativeAPI
	h   ref
}

// LoadModel parses a model from a file path.
func LoadModel(path string) (*Model, error) {
	return loadModel(runtimeAPI, path)
}

func loadModel(api nativeAPI, path string) (*Model, error) {
	if path == "" {
		return nil, errInvalid("load model", "empty path")
	}
	h, st := api.CreateModelFromFile(path)
	if st != StatusOk {
		return nil, statusErr("load model", st)
	}
	return &Model{api: api, h: h}, nil
}

// LoadModelFromBuffer parses a model from an in-memory flatbuffer. The buffer
// is copied on the native side; the caller keeps ownership of data.
func LoadModelFromBuffer(data []byte) (*Model, error) {
	return loadModelFromBuffer(runtimeAPI, data)
}

func loadModelFromBuffer(api nativeAPI, data []byte) (*Model, error) {
	if len(data) == 0 {
		return nil, errInvalid("load model from buffer", "empty buffer")
	}
	h, st := api.CreateModelFromBuffer(data)
	if st != StatusOk {
		return nil, statusErr("load model from buffer", st)
	}
	return &Model{api: api, h: h}, nil
}

// NumSubgraphs returns the number of subgraphs in the model.
func (m *Model) NumSubgraphs() (int, error) {
	const op = "num subgraphs"
	if err := m.lc.use(op); err != nil {
		return 0, err
	}
	n, st := m.api.NumModelSubgraphs(m.h)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	return n, nil
}

// NumSignatures returns the number of signatures in the model.
func (m *Model) NumSignatures() (int, error) {
	const op = "num signatures"
	if err := m.lc.use(op); err != nil {
		return 0, err
	}
	n, st := m.api.NumModelSignatures(m.h)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	return n, nil
}

// Signature returns the signature at index. The view borrows the model's
// handle; it is invalid once the model is destroyed.
func (m *Model) Signature(index int) (*Signature, error) {
	const op = "get signature"
	if err := m.lc.use(op); err != nil {
		return nil, err
	}
	h, st := m.api.ModelSignature(m.h, index)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &Signature{model: m, h: h, index: index}, nil
}

// SignatureByKey returns the signature with the given key, or NotFound.
func (m *Model) SignatureByKey(key string) (*Signature, error) {
	n, err := m.NumSignatures()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		sig, err := m.Signature(i)
		if err != nil {
			return nil, err
		}
		k, err := sig.Key()
		if err != nil {
			return nil, err
		}
		if k == key {
			return sig, nil
		}
	}
	return nil, &Error{Kind: KindNotFound, Op: "signature by key", Msg: key}
}

// Signatures returns all signatures of the model.
func (m *Model) Signatures() ([]*Signature, error) {
	n, err := m.NumSignatures()
	if err != nil {
		return nil, err
	}
	out := make([]*Signature, 0, n)
	for i := 0; i < n; i++ {
		sig, err := m.Signature(i)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, nil
}

// Destroy releases the native model. Safe to call more than once.
func (m *Model) Destroy() error {
	if m.lc.release() {
		m.api.DestroyModel(m.h)
	}
	return nil
}

// Signature is a borrowed view over one model signature.
type Signature struct {
	model *Model
	h     ref
	index int
}

// Index returns the signature's position in the model.
func (s *Signature) Index() int { return s.index }

// Key returns the signature key (e.g. "serving_default").
func (s *Signature) Key() (string, error) {
	const op = "signature key"
	if err := s.model.lc.use(op); err != nil {
		return "", err
	}
	k, st := s.model.api.SignatureKey(s.h)
	if st != StatusOk {
		return "", statusErr(op, st)
	}
	return k, nil
}

// InputNames returns the signature's input names in declaration order.
func (s *Signature) InputNames() ([]string, error) {
	const op = "signature input names"
	if err := s.model.lc.use(op); err != nil {
		return nil, err
	}
	names, st := s.model.api.SignatureInputNames(s.h)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return names, nil
}

// OutputNames returns the signature's output names in declaration order.
func (s *Signature) OutputNames() ([]string, error) {
	const op = "signature output names"
	if err := s.model.lc.use(op); err != nil {
		return nil, err
	}
	names, st := s.model.api.SignatureOutputNames(s.h)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return names, nil
}

// Subgraph returns the subgraph backing this signature.
func (s *Signature) Subgraph() (*Subgraph, error) {
	const op = "signature subgraph"
	if err := s.model.lc.use(op); err != nil {
		return nil, err
	}
	h, st := s.model.api.SignatureSubgraph(s.h)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &Subgraph{model: s.model, h: h}, nil
}

// Subgraph is a borrowed view over one model subgraph.
type Subgraph struct {
	model *Model
	h     ref
}

// NumInputs returns the subgraph's input tensor count.
func (g *Subgraph) NumInputs() (int, error) {
	const op = "num subgraph inputs"
	if err := g.model.lc.use(op); err != nil {
		return 0, err
	}
	n, st := g.model.api.NumSubgraphInputs(g.h)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	return n, nil
}

// NumOutputs returns the subgraph's output tensor count.
func (g *Subgraph) NumOutputs() (int, error) {
	const op = "num subgraph outputs"
	if err := g.model.lc.use(op); err != nil {
		return 0, err
	}
	n, st := g.model.api.NumSubgraphOutputs(g.h)
	if st != StatusOk {
		return 0, statusErr(op, st)
	}
	return n, nil
}

// InputTensor returns the input tensor at index.
func (g *Subgraph) InputTensor(index int) (*Tensor, error) {
	const op = "subgraph input tensor"
	if err := g.model.lc.use(op); err != nil {
		return nil, err
	}
	h, st := g.model.api.SubgraphInputTensor(g.h, index)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &Tensor{model: g.model, h: h}, nil
}

// OutputTensor returns the output tensor at index.
func (g *Subgraph) OutputTensor(index int) (*Tensor, error) {
	const op = "subgraph output tensor"
	if err := g.model.lc.use(op); err != nil {
		return nil, err
	}
	h, st := g.model.api.SubgraphOutputTensor(g.h, index)
	if st != StatusOk {
		return nil, statusErr(op, st)
	}
	return &Tensor{model: g.model, h: h}, nil
}

// InputTensorByName finds an input tensor by name, or NotFound.
func (g *Subgraph) InputTensorByName(name string) (*Tensor, error) {
	n, err := g.NumInputs()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		t, err := g.InputTensor(i)
		if err != nil {
			return nil, err
		}
		tn, err := t.Name()
		if err != nil {
			return nil, err
		}
		if tn == name {
			return t, nil
		}
	}
	return nil, &Error{Kind: KindNotFound, Op: "input tensor by name", Msg: name}
}

// OutputTensorByName finds an output tensor by name, or NotFound.
func (g *Subgraph) OutputTensorByName(name string) (*Tensor, error) {
	n, err := g.NumOutputs()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		t, err := g.OutputTensor(i)
		if err != nil {
			return nil, err
		}
		tn, err := t.Name()
		if err != nil {
			return nil, err
		}
		if tn == name {
			return t, nil
		}
	}
	return nil, &Error{Kind: KindNotFound, Op: "output tensor by name", Msg: name}
}

// Tensor is a borrowed view over one graph tensor (its metadata, not data).
type Tensor struct {
	model *Model
	h     ref
}

// Name returns the tensor's graph name.
func (t *Tensor) Name() (string, error) {
	const op = "tensor name"
	if err := t.model.lc.use(op); err != nil {
		return "", err
	}
	n, st := t.model.api.TensorName(t.h)
	if st != StatusOk {
		return "", statusErr(op, st)
	}
	return n, nil
}

// Type returns the tensor's ranked type (element type and dimensions).
func (t *Tensor) Type() (RankedTensorType, error) {
	const op = "tensor type"
	if err := t.model.lc.use(op); err != nil {
		return RankedTensorType{}, err
	}
	tt, st := t.model.api.TensorType(t.h)
	if st != StatusOk {
		return RankedTensorType{}, statusErr(op, st)
	}
	return tt, nil
}
