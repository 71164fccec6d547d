package pipeline

import (
	"github.com/wippyai/bertml/resource"
)

// Variant tags of the models table.
const (
	KindTranslation    resource.Tag = "translation_model"
	KindQA             resource.Tag = "question_answering_model"
	KindNER            resource.Tag = "ner_model"
	KindSentiment      resource.Tag = "sentiment_model"
	KindConversation   resource.Tag = "conversation_model"
	KindSummarization  resource.Tag = "summarization_model"
	KindTextGeneration resource.Tag = "text_generation_model"
	KindZeroShot       resource.Tag = "zero_shot_classification_model"
	KindPOS            resource.Tag = "pos_model"
)

// Variant tags of the model resources and accessors tables.
const (
	KindConversationManager resource.Tag = "conversation_manager"
	KindConversationID      resource.Tag = "conversation_id"
)

// TranslationModel wraps a Translator together with the language sets it
// was created for.
type TranslationModel struct {
	Translator
	Source []Language
	Target []Language
}

func (*TranslationModel) Tag() resource.Tag { return KindTranslation }
func (m *TranslationModel) Close() error    { return resource.Release(m.Translator) }

// QAModel wraps a QuestionAnswerer.
type QAModel struct{ QuestionAnswerer }

func (*QAModel) Tag() resource.Tag { return KindQA }
func (m *QAModel) Close() error    { return resource.Release(m.QuestionAnswerer) }

// NERModel wraps an EntityRecognizer.
type NERModel struct{ EntityRecognizer }

func (*NERModel) Tag() resource.Tag { return KindNER }
func (m *NERModel) Close() error    { return resource.Release(m.EntityRecognizer) }

// SentimentModel wraps a SentimentClassifier.
type SentimentModel struct{ SentimentClassifier }

func (*SentimentModel) Tag() resource.Tag { return KindSentiment }
func (m *SentimentModel) Close() error    { return resource.Release(m.SentimentClassifier) }

// ConversationModel wraps a Responder. Conversations themselves live in a
// ConversationManager in the model resources table.
type ConversationModel struct{ Responder }

func (*ConversationModel) Tag() resource.Tag { return KindConversation }
func (m *ConversationModel) Close() error    { return resource.Release(m.Responder) }

// SummarizationModel wraps a Summarizer.
type SummarizationModel struct{ Summarizer }

func (*SummarizationModel) Tag() resource.Tag { return KindSummarization }
func (m *SummarizationModel) Close() error    { return resource.Release(m.Summarizer) }

// TextGenerationModel wraps a TextGenerator.
type TextGenerationModel struct{ TextGenerator }

func (*TextGenerationModel) Tag() resource.Tag { return KindTextGeneration }
func (m *TextGenerationModel) Close() error    { return resource.Release(m.TextGenerator) }

// ZeroShotModel wraps a ZeroShotClassifier.
type ZeroShotModel struct{ ZeroShotClassifier }

func (*ZeroShotModel) Tag() resource.Tag { return KindZeroShot }
func (m *ZeroShotModel) Close() error    { return resource.Release(m.ZeroShotClassifier) }

// POSModel wraps a POSTagger.
type POSModel struct{ POSTagger }

func (*POSModel) Tag() resource.Tag { return KindPOS }
func (m *POSModel) Close() error    { return resource.Release(m.POSTagger) }

// ConversationRef is the accessor naming one conversation of a manager.
// Conversation IDs are only unique within their manager, so the ref also
// records the manager handle it was issued under.
type ConversationRef struct {
	Manager resource.Handle
	ID      ConversationID
}

func (*ConversationRef) Tag() resource.Tag { return KindConversationID }
