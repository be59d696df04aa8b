package manager

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MaxGubin/LiteRT/pkg/types"
)

// job tracks one asynchronous inference.
type job struct {
	mu     sync.Mutex
	id     string
	state  string
	result *types.InferResponse
	errMsg string
}

func (j *job) snapshot() types.JobResponse {
	j.mu.Lock()
	defer j.mu.Unlock()
	return types.JobResponse{
		ID:     j.id,
		State:  j.state,
		Result: j.result,
		Error:  j.errMsg,
	}
}

// Submit starts an asynchronous inference and returns its job id
// immediately. The model id is resolved up front so bad requests fail
// synchronously; compilation and execution happen in the background.
func (m *Manager) Submit(req types.InferRequest) (string, error) {
	modelID, err := m.resolveModelID(req.Model)
	if err != nil {
		return "", err
	}
	if _, ok := m.getModelByID(modelID); !ok {
		return "", ErrModelNotFound(modelID)
	}

	j := &job{id: uuid.NewString(), state: types.JobStateRunning}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrModelNotFound(modelID)
	}
	m.jobs[j.id] = j
	m.mu.Unlock()

	req.Model = modelID
	go func() {
		resp, err := m.Infer(context.Background(), req)
		j.mu.Lock()
		defer j.mu.Unlock()
		if err != nil {
			j.state = types.JobStateFailed
			j.errMsg = err.Error()
			return
		}
		j.state = types.JobStateDone
		j.result = &resp
	}()
	return j.id, nil
}

// Job returns the current state of an async job.
func (m *Manager) Job(id string) (types.JobResponse, error) {
	m.mu.RLock()
	j, ok := m.jobs[id]
	m.mu.RUnlock()
	if !ok {
		return types.JobResponse{}, jobNotFoundError{id: id}
	}
	return j.snapshot(), nil
}
