package pipeline

import (
	"github.com/wippyai/bertml/bridge"
	"github.com/wippyai/bertml/errors"
)

// CreateZeroShotModel creates a zero-shot classification model.
func (a *Adapters) CreateZeroShotModel() int64 {
	return a.createModel("create_zero_shot_model", "zero-shot classification", func() (bridge.Model, error) {
		c, err := capability[ZeroShotClassifier](a.Backend.NewZeroShotClassifier())
		if err != nil {
			return nil, err
		}
		return &ZeroShotModel{c}, nil
	})
}

// ZeroShotPredict returns the highest scoring label for each input.
func (a *Adapters) ZeroShotPredict(rid int64, in []byte) int64 {
	return invoke(a, "zero_shot_predict", "zero-shot", rid, KindZeroShot, in,
		func(m *ZeroShotModel, req ZeroShotRequest) ([]Label, error) {
			maxLength, err := req.validate()
			if err != nil {
				return nil, err
			}
			out, err := m.Predict(req.Inputs, req.Labels, maxLength)
			if err != nil {
				return nil, upstream("zero-shot prediction", err)
			}
			return out, checkCount("zero-shot prediction", len(req.Inputs), len(out))
		})
}

// ZeroShotPredictMultilabel returns the score of every label for each
// input.
func (a *Adapters) ZeroShotPredictMultilabel(rid int64, in []byte) int64 {
	return invoke(a, "zero_shot_predict_multilabel", "zero-shot", rid, KindZeroShot, in,
		func(m *ZeroShotModel, req ZeroShotRequest) ([][]Label, error) {
			maxLength, err := req.validate()
			if err != nil {
				return nil, err
			}
			out, err := m.PredictMultilabel(req.Inputs, req.Labels, maxLength)
			if err != nil {
				return nil, upstream("zero-shot prediction", err)
			}
			return out, checkCount("zero-shot prediction", len(req.Inputs), len(out))
		})
}

func (r ZeroShotRequest) validate() (int, error) {
	if len(r.Labels) == 0 {
		return 0, errors.New(errors.PhaseDecode, errors.KindDeserialization).
			Detail("zero-shot input needs at least one label").
			Build()
	}
	if r.MaxLength == nil {
		return DefaultZeroShotMaxLength, nil
	}
	if *r.MaxLength <= 0 {
		return 0, errors.New(errors.PhaseDecode, errors.KindDeserialization).
			Detail("maxLength must be positive, got %d", *r.MaxLength).
			Build()
	}
	return *r.MaxLength, nil
}
