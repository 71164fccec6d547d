package pipeline

import (
	"github.com/wippyai/bertml/errors"
)

// Translator translates inputs between two of its configured languages.
type Translator interface {
	Translate(inputs []string, source, target Language) ([]string, error)
}

// QuestionAnswerer extracts up to topK answers per input, processing
// inputs in batches of batchSize.
type QuestionAnswerer interface {
	Answer(inputs []QAInput, topK, batchSize int) ([][]Answer, error)
}

// EntityRecognizer finds named entities in each input.
type EntityRecognizer interface {
	Recognize(inputs []string) ([][]Entity, error)
}

// SentimentClassifier predicts one sentiment per input.
type SentimentClassifier interface {
	Classify(inputs []string) ([]Sentiment, error)
}

// Turn is a conversation awaiting a response: its history and the new
// user input.
type Turn struct {
	History []Exchange
	Input   string
	ID      ConversationID
}

// Responder produces one response per turn, in order.
type Responder interface {
	Respond(turns []Turn) ([]string, error)
}

// Summarizer produces one summary per input.
type Summarizer interface {
	Summarize(inputs []string) ([]string, error)
}

// TextGenerator continues each input. A non-empty prefix conditions the
// generation and is not part of the output.
type TextGenerator interface {
	Generate(inputs []string, prefix string) ([]string, error)
}

// ZeroShotClassifier scores inputs against caller-supplied labels.
type ZeroShotClassifier interface {
	// Predict returns the best label for each input.
	Predict(inputs, labels []string, maxLength int) ([]Label, error)
	// PredictMultilabel returns the score of every label for each input.
	PredictMultilabel(inputs, labels []string, maxLength int) ([][]Label, error)
}

// POSTagger tags every word of each input with its part of speech.
type POSTagger interface {
	TagWords(inputs []string) ([][]POSTag, error)
}

// Backend constructs model instances. Constructors may block while
// weights load. Values that also implement io.Closer or resource.Dropper
// are released when their handle is deleted.
type Backend interface {
	NewTranslator(source, target []Language) (Translator, error)
	NewQuestionAnswerer() (QuestionAnswerer, error)
	NewEntityRecognizer() (EntityRecognizer, error)
	NewSentimentClassifier() (SentimentClassifier, error)
	NewResponder() (Responder, error)
	NewSummarizer() (Summarizer, error)
	NewTextGenerator() (TextGenerator, error)
	NewZeroShotClassifier() (ZeroShotClassifier, error)
	NewPOSTagger() (POSTagger, error)
}

// Unsupported is a Backend that supports nothing. Embed it in a backend
// that implements only some capabilities.
type Unsupported struct{}

var _ Backend = Unsupported{}

func unsupported(what string) error {
	return errors.Unsupported(errors.PhaseLoad, what+" is not supported by this backend")
}

func (Unsupported) NewTranslator([]Language, []Language) (Translator, error) {
	return nil, unsupported("translation")
}

func (Unsupported) NewQuestionAnswerer() (QuestionAnswerer, error) {
	return nil, unsupported("question answering")
}

func (Unsupported) NewEntityRecognizer() (EntityRecognizer, error) {
	return nil, unsupported("named entity recognition")
}

func (Unsupported) NewSentimentClassifier() (SentimentClassifier, error) {
	return nil, unsupported("sentiment classification")
}

func (Unsupported) NewResponder() (Responder, error) {
	return nil, unsupported("conversation")
}

func (Unsupported) NewSummarizer() (Summarizer, error) {
	return nil, unsupported("summarization")
}

func (Unsupported) NewTextGenerator() (TextGenerator, error) {
	return nil, unsupported("text generation")
}

func (Unsupported) NewZeroShotClassifier() (ZeroShotClassifier, error) {
	return nil, unsupported("zero-shot classification")
}

func (Unsupported) NewPOSTagger() (POSTagger, error) {
	return nil, unsupported("part of speech tagging")
}
