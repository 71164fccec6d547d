// Package llama provides a pipeline backend for text generation and
// conversation on llama.cpp models.
//
// The in-process binding needs cgo and is compiled only with the 'llama'
// build tag. Without it every constructor fails with an unsupported error,
// keeping default builds cgo-free.
package llama

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/bertml/errors"
	"github.com/wippyai/bertml/pipeline"
)

// Options configures model loading and sampling.
type Options struct {
	ModelPath   string
	Stop        []string
	ContextSize int
	Threads     int
	MaxTokens   int
	TopK        int
	Seed        int
	Temperature float32
	TopP        float32
}

// predictor is a loaded model.
type predictor interface {
	Predict(prompt string, stop []string) (string, error)
	Close() error
}

// Backend loads one llama.cpp model per created text generation or
// conversation model. Other capabilities are unsupported.
type Backend struct {
	pipeline.Unsupported
	opts   Options
	load   func(Options) (predictor, error)
	logger *zap.Logger
}

// New creates a backend that loads opts.ModelPath on demand.
func New(opts Options, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{opts: opts, load: loadModel, logger: logger}
}

func (b *Backend) open() (predictor, error) {
	if strings.TrimSpace(b.opts.ModelPath) == "" {
		return nil, errors.Config("llama model path is empty", nil)
	}
	b.logger.Info("loading llama model", zap.String("path", b.opts.ModelPath),
		zap.Int("context_size", b.opts.ContextSize), zap.Int("threads", b.opts.Threads))
	return b.load(b.opts)
}

func (b *Backend) NewTextGenerator() (pipeline.TextGenerator, error) {
	p, err := b.open()
	if err != nil {
		return nil, err
	}
	return &generator{predictor: p, stop: b.opts.Stop}, nil
}

func (b *Backend) NewResponder() (pipeline.Responder, error) {
	p, err := b.open()
	if err != nil {
		return nil, err
	}
	return &responder{predictor: p, stop: append([]string{userTag}, b.opts.Stop...)}, nil
}

type generator struct {
	predictor
	stop []string
}

func (g *generator) Generate(inputs []string, prefix string) ([]string, error) {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		text, err := g.Predict(prefix+in, g.stop)
		if err != nil {
			return nil, err
		}
		out[i] = text
	}
	return out, nil
}

const (
	userTag      = "User:"
	assistantTag = "Assistant:"
)

type responder struct {
	predictor
	stop []string
}

func (r *responder) Respond(turns []pipeline.Turn) ([]string, error) {
	out := make([]string, len(turns))
	for i, t := range turns {
		text, err := r.Predict(chatPrompt(t), r.stop)
		if err != nil {
			return nil, err
		}
		out[i] = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), userTag))
	}
	return out, nil
}

// chatPrompt renders the conversation history followed by the new input in
// a plain User/Assistant transcript.
func chatPrompt(t pipeline.Turn) string {
	var b strings.Builder
	for _, e := range t.History {
		b.WriteString(userTag + " " + e.Input + "\n")
		b.WriteString(assistantTag + " " + e.Response + "\n")
	}
	b.WriteString(userTag + " " + t.Input + "\n")
	b.WriteString(assistantTag)
	return b.String()
}
