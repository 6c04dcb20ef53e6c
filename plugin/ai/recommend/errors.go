package recommend

import "github.com/pkg/errors"

// Error taxonomy for the recommendation chain. All of these are caught
// at the chain boundary and surfaced in the Response error field; none
// propagate to the HTTP layer.
var (
	// ErrRetrieval indicates the similarity search (including query
	// embedding) failed after its retry.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration indicates the LLM call failed after its retry.
	ErrGeneration = errors.New("generation failed")

	// ErrParse indicates the model output did not contain a parseable
	// recommendation list. Never retried: parsing is pure and local.
	ErrParse = errors.New("failed to parse model output")
)
