package pipeline

import "github.com/wippyai/bertml/bridge"

// CreateTextGenerationModel creates a text generation model.
func (a *Adapters) CreateTextGenerationModel() int64 {
	return a.createModel("create_text_generation_model", "text generation", func() (bridge.Model, error) {
		g, err := capability[TextGenerator](a.Backend.NewTextGenerator())
		if err != nil {
			return nil, err
		}
		return &TextGenerationModel{g}, nil
	})
}

// TextGenerationGenerate decodes a GenerateRequest and returns one
// generated string per input.
func (a *Adapters) TextGenerationGenerate(rid int64, in []byte) int64 {
	return invoke(a, "text_generation_generate", "text generation", rid, KindTextGeneration, in,
		func(m *TextGenerationModel, req GenerateRequest) ([]string, error) {
			var prefix string
			if req.Prefix != nil {
				prefix = *req.Prefix
			}
			out, err := m.Generate(req.Inputs, prefix)
			if err != nil {
				return nil, upstream("text generation", err)
			}
			return out, checkCount("text generation", len(req.Inputs), len(out))
		})
}
