package pipeline

import "github.com/wippyai/bertml/bridge"

// CreateSentimentModel creates a sentiment model.
func (a *Adapters) CreateSentimentModel() int64 {
	return a.createModel("create_sentiment_model", "sentiment", func() (bridge.Model, error) {
		c, err := capability[SentimentClassifier](a.Backend.NewSentimentClassifier())
		if err != nil {
			return nil, err
		}
		return &SentimentModel{c}, nil
	})
}

// SentimentPredict returns one Sentiment per input string.
func (a *Adapters) SentimentPredict(rid int64, in []byte) int64 {
	return invoke(a, "sentiment_predict", "sentiment", rid, KindSentiment, in,
		func(m *SentimentModel, inputs []string) ([]Sentiment, error) {
			out, err := m.Classify(inputs)
			if err != nil {
				return nil, upstream("sentiment prediction", err)
			}
			return out, checkCount("sentiment prediction", len(inputs), len(out))
		})
}
