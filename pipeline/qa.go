package pipeline

import (
	"github.com/wippyai/bertml/bridge"
	"github.com/wippyai/bertml/errors"
)

// Defaults applied when qa_query receives 0.
const (
	DefaultTopK      = 1
	DefaultBatchSize = 32
)

// CreateQAModel creates a question answering model.
func (a *Adapters) CreateQAModel() int64 {
	return a.createModel("create_qa_model", "question answering", func() (bridge.Model, error) {
		qa, err := capability[QuestionAnswerer](a.Backend.NewQuestionAnswerer())
		if err != nil {
			return nil, err
		}
		return &QAModel{qa}, nil
	})
}

// QAQuery answers a list of QAInput. topK bounds the answers per input.
func (a *Adapters) QAQuery(rid int64, in []byte, topK, batchSize int64) int64 {
	return invoke(a, "qa_query", "question answering", rid, KindQA, in,
		func(m *QAModel, inputs []QAInput) ([][]Answer, error) {
			k, batch, err := qaLimits(topK, batchSize)
			if err != nil {
				return nil, err
			}
			out, err := m.Answer(inputs, k, batch)
			if err != nil {
				return nil, upstream("question answering", err)
			}
			return out, checkCount("question answering", len(inputs), len(out))
		})
}

func qaLimits(topK, batchSize int64) (int, int, error) {
	if topK < 0 || batchSize < 0 {
		return 0, 0, errors.InvalidInput(errors.PhaseDecode, "topK and batch size must not be negative")
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	return int(topK), int(batchSize), nil
}
