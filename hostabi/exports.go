package hostabi

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bertml"
	"github.com/wippyai/bertml/pipeline"
)

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func exports(a *pipeline.Adapters) []*FuncDef {
	b := a.Bridge
	return []*FuncDef{
		withInput("create_translation_model", a.CreateTranslationModel),
		predict("translation_translate", a.TranslationTranslate),

		create("create_qa_model", a.CreateQAModel),
		{
			Name:    "qa_query",
			Params:  []api.ValueType{i64, i32, i32, i64, i64},
			Results: []api.ValueType{i64},
			Call: func(_ context.Context, mem bertml.Memory, stack []uint64) {
				in := readInput(mem, stack[1], stack[2])
				stack[0] = uint64(a.QAQuery(int64(stack[0]), in, int64(stack[3]), int64(stack[4])))
			},
		},

		create("create_ner_model", a.CreateNERModel),
		predict("ner_predict", a.NERPredict),

		create("create_sentiment_model", a.CreateSentimentModel),
		predict("sentiment_predict", a.SentimentPredict),

		create("create_conversation_model", a.CreateConversationModel),
		create("create_conversation_manager", a.CreateConversationManager),
		{
			Name:    "create_conversation",
			Params:  []api.ValueType{i64},
			Results: []api.ValueType{i64},
			Call: func(_ context.Context, _ bertml.Memory, stack []uint64) {
				stack[0] = uint64(a.CreateConversation(int64(stack[0])))
			},
		},
		{
			Name:    "conversation_send",
			Params:  []api.ValueType{i64, i64, i64, i32, i32},
			Results: []api.ValueType{i64},
			Call: func(_ context.Context, mem bertml.Memory, stack []uint64) {
				text := readInput(mem, stack[3], stack[4])
				stack[0] = uint64(a.ConversationSend(int64(stack[0]), int64(stack[1]), int64(stack[2]), text))
			},
		},

		create("create_summarization_model", a.CreateSummarizationModel),
		predict("summarization_summarize", a.SummarizationSummarize),

		create("create_text_generation_model", a.CreateTextGenerationModel),
		predict("text_generation_generate", a.TextGenerationGenerate),

		create("create_zero_shot_model", a.CreateZeroShotModel),
		predict("zero_shot_predict", a.ZeroShotPredict),
		predict("zero_shot_predict_multilabel", a.ZeroShotPredictMultilabel),

		create("create_pos_model", a.CreatePOSModel),
		predict("pos_predict", a.POSPredict),

		fill("fill_result", b.FillResult),
		{
			Name:    "error_len",
			Results: []api.ValueType{i64},
			Call: func(_ context.Context, _ bertml.Memory, stack []uint64) {
				stack[0] = uint64(b.ErrorLen())
			},
		},
		fill("fill_error", b.FillError),

		remove("delete_model", b.DeleteModel),
		remove("delete_model_resource", b.DeleteResource),
		remove("delete_model_resource_accessor", b.DeleteAccessor),
	}
}

// create exports fn() -> i64.
func create(name string, fn func() int64) *FuncDef {
	return &FuncDef{
		Name:    name,
		Results: []api.ValueType{i64},
		Call: func(_ context.Context, _ bertml.Memory, stack []uint64) {
			stack[0] = uint64(fn())
		},
	}
}

// withInput exports fn(ptr i32, len i32) -> i64.
func withInput(name string, fn func([]byte) int64) *FuncDef {
	return &FuncDef{
		Name:    name,
		Params:  []api.ValueType{i32, i32},
		Results: []api.ValueType{i64},
		Call: func(_ context.Context, mem bertml.Memory, stack []uint64) {
			stack[0] = uint64(fn(readInput(mem, stack[0], stack[1])))
		},
	}
}

// predict exports fn(rid i64, ptr i32, len i32) -> i64.
func predict(name string, fn func(int64, []byte) int64) *FuncDef {
	return &FuncDef{
		Name:    name,
		Params:  []api.ValueType{i64, i32, i32},
		Results: []api.ValueType{i64},
		Call: func(_ context.Context, mem bertml.Memory, stack []uint64) {
			in := readInput(mem, stack[1], stack[2])
			stack[0] = uint64(fn(int64(stack[0]), in))
		},
	}
}

// fill exports fn(ptr i32, len i32) -> i64 over a result or error slot.
func fill(name string, from func([]byte) (int, error)) *FuncDef {
	return &FuncDef{
		Name:    name,
		Params:  []api.ValueType{i32, i32},
		Results: []api.ValueType{i64},
		Call: func(_ context.Context, mem bertml.Memory, stack []uint64) {
			stack[0] = uint64(fillGuest(mem, stack[0], stack[1], from))
		},
	}
}

// remove exports fn(rid i64) -> i32.
func remove(name string, fn func(int64) int32) *FuncDef {
	return &FuncDef{
		Name:    name,
		Params:  []api.ValueType{i64},
		Results: []api.ValueType{i32},
		Call: func(_ context.Context, _ bertml.Memory, stack []uint64) {
			stack[0] = api.EncodeI32(fn(int64(stack[0])))
		},
	}
}
