package pipeline

import "github.com/wippyai/bertml/bridge"

// CreateSummarizationModel creates a summarization model.
func (a *Adapters) CreateSummarizationModel() int64 {
	return a.createModel("create_summarization_model", "summarization", func() (bridge.Model, error) {
		s, err := capability[Summarizer](a.Backend.NewSummarizer())
		if err != nil {
			return nil, err
		}
		return &SummarizationModel{s}, nil
	})
}

// SummarizationSummarize returns one summary per input string.
func (a *Adapters) SummarizationSummarize(rid int64, in []byte) int64 {
	return invoke(a, "summarization_summarize", "summarization", rid, KindSummarization, in,
		func(m *SummarizationModel, inputs []string) ([]string, error) {
			out, err := m.Summarize(inputs)
			if err != nil {
				return nil, upstream("summarization", err)
			}
			return out, checkCount("summarization", len(inputs), len(out))
		})
}
