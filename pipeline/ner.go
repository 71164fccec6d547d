package pipeline

import "github.com/wippyai/bertml/bridge"

// CreateNERModel creates a named entity recognition model.
func (a *Adapters) CreateNERModel() int64 {
	return a.createModel("create_ner_model", "NER", func() (bridge.Model, error) {
		r, err := capability[EntityRecognizer](a.Backend.NewEntityRecognizer())
		if err != nil {
			return nil, err
		}
		return &NERModel{r}, nil
	})
}

// NERPredict returns the entities found in each input string.
func (a *Adapters) NERPredict(rid int64, in []byte) int64 {
	return invoke(a, "ner_predict", "NER", rid, KindNER, in,
		func(m *NERModel, inputs []string) ([][]Entity, error) {
			out, err := m.Recognize(inputs)
			if err != nil {
				return nil, upstream("entity recognition", err)
			}
			return out, checkCount("entity recognition", len(inputs), len(out))
		})
}
