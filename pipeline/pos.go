package pipeline

import "github.com/wippyai/bertml/bridge"

// CreatePOSModel creates a part of speech tagging model.
func (a *Adapters) CreatePOSModel() int64 {
	return a.createModel("create_pos_model", "part of speech", func() (bridge.Model, error) {
		t, err := capability[POSTagger](a.Backend.NewPOSTagger())
		if err != nil {
			return nil, err
		}
		return &POSModel{t}, nil
	})
}

// POSPredict returns the tagged words of each input string.
func (a *Adapters) POSPredict(rid int64, in []byte) int64 {
	return invoke(a, "pos_predict", "part of speech", rid, KindPOS, in,
		func(m *POSModel, inputs []string) ([][]POSTag, error) {
			out, err := m.TagWords(inputs)
			if err != nil {
				return nil, upstream("part of speech tagging", err)
			}
			return out, checkCount("part of speech tagging", len(inputs), len(out))
		})
}
