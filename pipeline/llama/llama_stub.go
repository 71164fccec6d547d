//go:build !llama

package llama

import "github.com/wippyai/bertml/errors"

// Built reports whether this binary has in-process llama support.
const Built = false

func loadModel(Options) (predictor, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "llama support not built (missing 'llama' build tag)")
}
