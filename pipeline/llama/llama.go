//go:build llama

package llama

import (
	llama "github.com/go-skynet/go-llama.cpp"

	"github.com/wippyai/bertml/errors"
)

// Built reports whether this binary has in-process llama support.
const Built = true

type model struct {
	l    *llama.LLama
	opts Options
}

func loadModel(opts Options) (predictor, error) {
	var mo []llama.ModelOption
	if opts.ContextSize > 0 {
		mo = append(mo, llama.SetContext(opts.ContextSize))
	}
	l, err := llama.New(opts.ModelPath, mo...)
	if err != nil {
		return nil, errors.Load("failed to load llama model "+opts.ModelPath, err)
	}
	return &model{l: l, opts: opts}, nil
}

func (m *model) Predict(prompt string, stop []string) (string, error) {
	if m.l == nil {
		return "", errors.Closed(errors.PhaseUpstream, "llama")
	}
	return m.l.Predict(prompt, predictOptions(m.opts, stop)...)
}

func (m *model) Close() error {
	if m.l != nil {
		m.l.Free()
		m.l = nil
	}
	return nil
}

func predictOptions(o Options, stop []string) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(max(1, orDefault(o.MaxTokens, 128))),
		llama.SetThreads(max(1, o.Threads)),
		llama.SetTopP(orDefaultF(o.TopP, llama.DefaultOptions.TopP)),
		llama.SetTopK(orDefault(o.TopK, llama.DefaultOptions.TopK)),
		llama.SetTemperature(orDefaultF(o.Temperature, llama.DefaultOptions.Temperature)),
	}
	if o.Seed != 0 {
		po = append(po, llama.SetSeed(o.Seed))
	}
	if len(stop) > 0 {
		po = append(po, llama.SetStopWords(stop...))
	}
	return po
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDefaultF(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}
