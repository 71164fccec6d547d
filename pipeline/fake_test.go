package pipeline

import (
	"fmt"
	"strings"

	"github.com/wippyai/bertml/errors"
)

// fakeBackend implements every capability with deterministic string
// manipulation.
type fakeBackend struct {
	Unsupported
	closed    *int
	failNext  bool
	lastTopK  int
	lastBatch int
	lastMax   int
}

type closer struct{ n *int }

func (c closer) Close() error {
	if c.n != nil {
		*c.n++
	}
	return nil
}

type fakeTranslator struct{ closer }

func (fakeTranslator) Translate(inputs []string, source, target Language) ([]string, error) {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = fmt.Sprintf("%s->%s:%s", source, target, in)
	}
	return out, nil
}

type fakeQA struct{ b *fakeBackend }

func (q fakeQA) Answer(inputs []QAInput, topK, batchSize int) ([][]Answer, error) {
	q.b.lastTopK, q.b.lastBatch = topK, batchSize
	out := make([][]Answer, len(inputs))
	for i, in := range inputs {
		word := strings.Fields(in.Context)[0]
		for k := 0; k < topK; k++ {
			out[i] = append(out[i], Answer{Answer: word, Score: 0.9, Start: 0, End: len(word)})
		}
	}
	return out, nil
}

type fakeNER struct{}

func (fakeNER) Recognize(inputs []string) ([][]Entity, error) {
	out := make([][]Entity, len(inputs))
	for i, in := range inputs {
		for _, w := range strings.Fields(in) {
			if w[0] >= 'A' && w[0] <= 'Z' {
				out[i] = append(out[i], Entity{Word: w, Label: "I-PER", Score: 0.99})
			}
		}
	}
	return out, nil
}

type fakeSentiment struct{ b *fakeBackend }

func (s fakeSentiment) Classify(inputs []string) ([]Sentiment, error) {
	if s.b.failNext {
		s.b.failNext = false
		return nil, fmt.Errorf("boom")
	}
	out := make([]Sentiment, len(inputs))
	for i, in := range inputs {
		out[i] = Sentiment{Polarity: Positive, Score: 0.75}
		if strings.Contains(in, "hate") {
			out[i].Polarity = Negative
		}
	}
	return out, nil
}

type fakeResponder struct{}

func (fakeResponder) Respond(turns []Turn) ([]string, error) {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = fmt.Sprintf("reply %d to %q", len(t.History), t.Input)
	}
	return out, nil
}

type fakeSummarizer struct{}

func (fakeSummarizer) Summarize(inputs []string) ([]string, error) {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = strings.Fields(in)[0]
	}
	return out, nil
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(inputs []string, prefix string) ([]string, error) {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in + " and then" + strings.Repeat("!", len(prefix))
	}
	return out, nil
}

type fakeZeroShot struct{ b *fakeBackend }

func (z fakeZeroShot) Predict(inputs, labels []string, maxLength int) ([]Label, error) {
	z.b.lastMax = maxLength
	out := make([]Label, len(inputs))
	for i := range inputs {
		out[i] = Label{Text: labels[0], Score: 0.8, ID: 0, Sentence: i}
	}
	return out, nil
}

func (z fakeZeroShot) PredictMultilabel(inputs, labels []string, maxLength int) ([][]Label, error) {
	z.b.lastMax = maxLength
	out := make([][]Label, len(inputs))
	for i := range inputs {
		for j, l := range labels {
			out[i] = append(out[i], Label{Text: l, Score: 0.5, ID: j, Sentence: i})
		}
	}
	return out, nil
}

type fakePOS struct{}

func (fakePOS) TagWords(inputs []string) ([][]POSTag, error) {
	out := make([][]POSTag, len(inputs))
	for i, in := range inputs {
		for _, w := range strings.Fields(in) {
			out[i] = append(out[i], POSTag{Word: w, Label: "NN", Score: 0.6})
		}
	}
	return out, nil
}

func (b *fakeBackend) NewTranslator(source, target []Language) (Translator, error) {
	return fakeTranslator{closer{b.closed}}, nil
}
func (b *fakeBackend) NewQuestionAnswerer() (QuestionAnswerer, error) { return fakeQA{b}, nil }
func (b *fakeBackend) NewEntityRecognizer() (EntityRecognizer, error) { return fakeNER{}, nil }
func (b *fakeBackend) NewSentimentClassifier() (SentimentClassifier, error) {
	return fakeSentiment{b}, nil
}
func (b *fakeBackend) NewResponder() (Responder, error) { return fakeResponder{}, nil }
func (b *fakeBackend) NewSummarizer() (Summarizer, error) { return fakeSummarizer{}, nil }
func (b *fakeBackend) NewTextGenerator() (TextGenerator, error) { return fakeGenerator{}, nil }
func (b *fakeBackend) NewZeroShotClassifier() (ZeroShotClassifier, error) {
	return fakeZeroShot{b}, nil
}
func (b *fakeBackend) NewPOSTagger() (POSTagger, error) { return fakePOS{}, nil }

// partialBackend supports sentiment only.
type partialBackend struct {
	Unsupported
}

func (partialBackend) NewSentimentClassifier() (SentimentClassifier, error) {
	return fakeSentiment{&fakeBackend{}}, nil
}

// nilBackend reports success without a model.
type nilBackend struct {
	Unsupported
}

func (nilBackend) NewEntityRecognizer() (EntityRecognizer, error) { return nil, nil }

// wrappingBackend wraps a structured error before returning it.
type wrappingBackend struct {
	Unsupported
}

func (wrappingBackend) NewSummarizer() (Summarizer, error) {
	return nil, fmt.Errorf("weights missing: %w", errors.Unsupported(errors.PhaseLoad, "summarization"))
}
