package manager

import (
	"context"
	"time"

	"github.com/MaxGubin/LiteRT/pkg/types"
)

// Infer runs one synchronous inference: resolve the model id, compile on
// demand, admit past the per-instance queue, and execute.
func (m *Manager) Infer(ctx context.Context, req types.InferRequest) (types.InferResponse, error) {
	modelID, err := m.resolveModelID(req.Model)
	if err != nil {
		return types.InferResponse{}, err
	}

	inst, err := m.ensureInstance(ctx, modelID)
	if err != nil {
		return types.InferResponse{}, err
	}

	release, err := m.beginInference(ctx, inst)
	if err != nil {
		return types.InferResponse{}, err
	}
	defer release()

	start := time.Now()
	outputs, err := inst.runner.Run(ctx, req.Signature, req.Inputs)
	if err != nil {
		return types.InferResponse{}, err
	}

	m.mu.Lock()
	inst.LastUsed = time.Now()
	m.mu.Unlock()

	return types.InferResponse{
		Model:     modelID,
		Signature: req.Signature,
		Outputs:   outputs,
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}
