package manager

import (
	"context"

	"github.com/MaxGubin/LiteRT/pkg/types"
)

// Engine abstracts the inference runtime used by the Manager.
// The concrete implementation compiles models through pkg/litert; tests use
// an in-package fake.
type Engine interface {
	// Load parses and compiles the model at path, returning a Runner ready
	// to serve executions.
	Load(path string) (Runner, error)
	// Close releases runtime-wide resources after all runners are closed.
	Close() error
}

// Runner serves executions for one compiled model.
type Runner interface {
	// Signatures returns the signature keys the model exposes.
	Signatures() []string
	// Run executes one signature. An empty signature selects the model's
	// first one. Inputs are matched to signature slots by name when named,
	// by position otherwise.
	Run(ctx context.Context, signature string, inputs []types.Tensor) ([]types.Tensor, error)
	// Close releases the compiled model and its source model.
	Close() error
}

// unavailableEngine satisfies Engine when no native runtime is linked in.
// Load always fails with the construction error, which carries the
// RuntimeUnavailable kind for 503 mapping.
type unavailableEngine struct{ err error }

// UnavailableEngine returns an Engine whose Load always fails with err.
func UnavailableEngine(err error) Engine { return unavailableEngine{err: err} }

func (e unavailableEngine) Load(string) (Runner, error) { return nil, e.err }
func (e unavailableEngine) Close() error                { return nil }
