package pipeline

// Request and response records. Field names are part of the wire format.

// TranslationInit configures a translation model.
type TranslationInit struct {
	SourceLanguages []Language `json:"sourceLanguages"`
	TargetLanguages []Language `json:"targetLanguages"`
}

// TranslateRequest is the input of translation_translate.
type TranslateRequest struct {
	Inputs         []string `json:"inputs"`
	SourceLanguage Language `json:"sourceLanguage"`
	TargetLanguage Language `json:"targetLanguage"`
}

// QAInput is one question with the context to answer it from.
type QAInput struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// Answer is one candidate answer span.
type Answer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Entity is a recognized named entity.
type Entity struct {
	Word  string  `json:"word"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// POSTag is the part of speech assigned to a word.
type POSTag struct {
	Word  string  `json:"word"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Polarity of a sentiment prediction.
type Polarity uint8

const (
	Negative Polarity = 0
	Positive Polarity = 1
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// Sentiment is the polarity and confidence for one input.
type Sentiment struct {
	Polarity Polarity `json:"polarity"`
	Score    float64  `json:"score"`
}

// GenerateRequest is the input of text_generation_generate. Prefix is
// prepended to every input and excluded from the generated output.
type GenerateRequest struct {
	Prefix *string  `json:"prefix,omitempty"`
	Inputs []string `json:"inputs"`
}

// DefaultZeroShotMaxLength is used when a zero-shot request leaves
// maxLength unset.
const DefaultZeroShotMaxLength = 128

// ZeroShotRequest is the input of both zero-shot entry points.
type ZeroShotRequest struct {
	MaxLength *int     `json:"maxLength,omitempty"`
	Inputs    []string `json:"inputs"`
	Labels    []string `json:"labels"`
}

// Label is a zero-shot classification score for one candidate label.
type Label struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	ID       int     `json:"id"`
	Sentence int     `json:"sentence"`
}
