package pipeline

import (
	"fmt"
	"slices"

	"github.com/wippyai/bertml/bridge"
	"github.com/wippyai/bertml/errors"
)

// CreateTranslationModel decodes a TranslationInit from init and creates a
// translation model restricted to those languages.
func (a *Adapters) CreateTranslationModel(init []byte) int64 {
	return a.createModel("create_translation_model", "translation", func() (bridge.Model, error) {
		var cfg TranslationInit
		if err := a.decode("translation model config", init, &cfg); err != nil {
			return nil, err
		}
		if err := validateLanguages("sourceLanguages", cfg.SourceLanguages); err != nil {
			return nil, err
		}
		if err := validateLanguages("targetLanguages", cfg.TargetLanguages); err != nil {
			return nil, err
		}
		t, err := capability[Translator](a.Backend.NewTranslator(cfg.SourceLanguages, cfg.TargetLanguages))
		if err != nil {
			return nil, err
		}
		return &TranslationModel{
			Translator: t,
			Source:     cfg.SourceLanguages,
			Target:     cfg.TargetLanguages,
		}, nil
	})
}

// TranslationTranslate decodes a TranslateRequest and returns the
// translated strings.
func (a *Adapters) TranslationTranslate(rid int64, in []byte) int64 {
	return invoke(a, "translation_translate", "translation", rid, KindTranslation, in,
		func(m *TranslationModel, req TranslateRequest) ([]string, error) {
			if err := m.check(req.SourceLanguage, req.TargetLanguage); err != nil {
				return nil, err
			}
			out, err := m.Translate(req.Inputs, req.SourceLanguage, req.TargetLanguage)
			if err != nil {
				return nil, upstream("translation", err)
			}
			return out, checkCount("translation", len(req.Inputs), len(out))
		})
}

func (m *TranslationModel) check(source, target Language) error {
	if !source.Valid() || !target.Valid() {
		return errors.New(errors.PhaseDecode, errors.KindDeserialization).
			Detail("unknown language index (source %d, target %d)", source, target).
			Build()
	}
	if len(m.Source) > 0 && !slices.Contains(m.Source, source) {
		return errors.InvalidInput(errors.PhaseAccess,
			fmt.Sprintf("model was not created with source language %s", source))
	}
	if len(m.Target) > 0 && !slices.Contains(m.Target, target) {
		return errors.InvalidInput(errors.PhaseAccess,
			fmt.Sprintf("model was not created with target language %s", target))
	}
	return nil
}

func validateLanguages(field string, langs []Language) error {
	for _, l := range langs {
		if !l.Valid() {
			return errors.New(errors.PhaseDecode, errors.KindDeserialization).
				Detail("%s: unknown language index %d", field, uint8(l)).
				Build()
		}
	}
	return nil
}
