package hostabi

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bertml"
	"github.com/wippyai/bertml/bridge"
	"github.com/wippyai/bertml/errors"
	"github.com/wippyai/bertml/pipeline"
)

type sentimentOnly struct {
	pipeline.Unsupported
}

func (sentimentOnly) NewSentimentClassifier() (pipeline.SentimentClassifier, error) {
	return keywordClassifier{}, nil
}

type keywordClassifier struct{}

func (keywordClassifier) Classify(inputs []string) ([]pipeline.Sentiment, error) {
	out := make([]pipeline.Sentiment, len(inputs))
	for i, in := range inputs {
		out[i] = pipeline.Sentiment{Polarity: pipeline.Negative, Score: 0.9}
		if strings.Contains(in, "good") {
			out[i].Polarity = pipeline.Positive
		}
	}
	return out, nil
}

type echoResponder struct{}

func (echoResponder) Respond(turns []pipeline.Turn) ([]string, error) {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = "echo: " + t.Input
	}
	return out, nil
}

func (sentimentOnly) NewResponder() (pipeline.Responder, error) {
	return echoResponder{}, nil
}

func newHost(t *testing.T) (*Host, *bridge.Bridge) {
	t.Helper()
	b := bridge.New()
	t.Cleanup(func() { _ = b.Close() })
	return New(pipeline.New(b, sentimentOnly{}, nil)), b
}

func call(t *testing.T, h *Host, name string, mem bertml.Memory, args ...uint64) uint64 {
	t.Helper()
	res, err := h.Invoke(context.Background(), name, mem, args...)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if len(res) != 1 {
		t.Fatalf("%s returned %d results", name, len(res))
	}
	return res[0]
}

func TestHost_ExportSignatures(t *testing.T) {
	h, _ := newHost(t)

	tests := []struct {
		name    string
		params  []api.ValueType
		results []api.ValueType
	}{
		{"create_translation_model", []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"translation_translate", []api.ValueType{i64, i32, i32}, []api.ValueType{i64}},
		{"create_qa_model", nil, []api.ValueType{i64}},
		{"qa_query", []api.ValueType{i64, i32, i32, i64, i64}, []api.ValueType{i64}},
		{"create_ner_model", nil, []api.ValueType{i64}},
		{"ner_predict", []api.ValueType{i64, i32, i32}, []api.ValueType{i64}},
		{"create_sentiment_model", nil, []api.ValueType{i64}},
		{"sentiment_predict", []api.ValueType{i64, i32, i32}, []api.ValueType{i64}},
		{"create_conversation_model", nil, []api.ValueType{i64}},
		{"create_conversation_manager", nil, []api.ValueType{i64}},
		{"create_conversation", []api.ValueType{i64}, []api.ValueType{i64}},
		{"conversation_send", []api.ValueType{i64, i64, i64, i32, i32}, []api.ValueType{i64}},
		{"create_summarization_model", nil, []api.ValueType{i64}},
		{"summarization_summarize", []api.ValueType{i64, i32, i32}, []api.ValueType{i64}},
		{"create_text_generation_model", nil, []api.ValueType{i64}},
		{"text_generation_generate", []api.ValueType{i64, i32, i32}, []api.ValueType{i64}},
		{"create_zero_shot_model", nil, []api.ValueType{i64}},
		{"zero_shot_predict", []api.ValueType{i64, i32, i32}, []api.ValueType{i64}},
		{"zero_shot_predict_multilabel", []api.ValueType{i64, i32, i32}, []api.ValueType{i64}},
		{"create_pos_model", nil, []api.ValueType{i64}},
		{"pos_predict", []api.ValueType{i64, i32, i32}, []api.ValueType{i64}},
		{"fill_result", []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"error_len", nil, []api.ValueType{i64}},
		{"fill_error", []api.ValueType{i32, i32}, []api.ValueType{i64}},
		{"delete_model", []api.ValueType{i64}, []api.ValueType{i32}},
		{"delete_model_resource", []api.ValueType{i64}, []api.ValueType{i32}},
		{"delete_model_resource_accessor", []api.ValueType{i64}, []api.ValueType{i32}},
	}

	if len(h.Funcs()) != len(tests) {
		t.Fatalf("host exports %d calls, want %d", len(h.Funcs()), len(tests))
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := h.Lookup(tt.name)
			if !ok {
				t.Fatalf("%s not exported", tt.name)
			}
			if !equalTypes(f.Params, tt.params) {
				t.Errorf("params = %v, want %v", f.Params, tt.params)
			}
			if !equalTypes(f.Results, tt.results) {
				t.Errorf("results = %v, want %v", f.Results, tt.results)
			}
		})
	}
}

func equalTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHost_SentimentRoundTrip(t *testing.T) {
	h, _ := newHost(t)
	mem := make(bertml.Bytes, 4096)

	model := int64(call(t, h, "create_sentiment_model", mem))
	if model != 0 {
		t.Fatalf("model handle = %d, want 0", model)
	}

	in := []byte(`["a good film","a dull film"]`)
	copy(mem, in)
	n := int64(call(t, h, "sentiment_predict", mem, uint64(model), 0, uint64(len(in))))
	if n <= 0 {
		t.Fatalf("sentiment_predict = %d", n)
	}

	const out = 1024
	moved := int64(call(t, h, "fill_result", mem, out, uint64(n)))
	if moved != n {
		t.Fatalf("fill_result moved %d, want %d", moved, n)
	}

	var got []pipeline.Sentiment
	if err := json.Unmarshal(mem[out:out+n], &got); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(got) != 2 || got[0].Polarity != pipeline.Positive || got[1].Polarity != pipeline.Negative {
		t.Fatalf("unexpected sentiments %+v", got)
	}

	// The slot is consumed by the first fill.
	if again := int64(call(t, h, "fill_result", mem, out, uint64(n))); again != 0 {
		t.Fatalf("second fill_result = %d, want 0", again)
	}
}

func TestHost_ErrorChannel(t *testing.T) {
	h, _ := newHost(t)
	mem := make(bertml.Bytes, 1024)

	copy(mem, `["x"]`)
	if ret := int64(call(t, h, "sentiment_predict", mem, 42, 0, 5)); ret != -1 {
		t.Fatalf("sentiment_predict on unknown handle = %d, want -1", ret)
	}

	n := int64(call(t, h, "error_len", mem))
	if n <= 0 {
		t.Fatalf("error_len = %d", n)
	}
	if ret := int64(call(t, h, "fill_error", mem, 512, uint64(n-1))); ret != -1 {
		t.Fatalf("fill_error with short buffer = %d, want -1", ret)
	}
	if ret := int64(call(t, h, "fill_error", mem, 512, uint64(n))); ret != n {
		t.Fatalf("fill_error = %d, want %d", ret, n)
	}
	msg := string(mem[512 : 512+n])
	if !strings.Contains(msg, "not_found") {
		t.Fatalf("error message %q should name not_found", msg)
	}
	if l := int64(call(t, h, "error_len", mem)); l != 0 {
		t.Fatalf("error_len after fill = %d, want 0", l)
	}
}

func TestHost_NegativeHandle(t *testing.T) {
	h, _ := newHost(t)
	mem := make(bertml.Bytes, 64)
	copy(mem, `["x"]`)

	minusOne := uint64(0xFFFFFFFFFFFFFFFF)
	if ret := int64(call(t, h, "sentiment_predict", mem, minusOne, 0, 5)); ret != -1 {
		t.Fatalf("sentiment_predict(-1) = %d, want -1", ret)
	}
	if ret := int32(uint32(call(t, h, "delete_model", mem, minusOne))); ret != -1 {
		t.Fatalf("delete_model(-1) = %d, want -1", ret)
	}
}

func TestHost_Delete(t *testing.T) {
	h, b := newHost(t)

	model := call(t, h, "create_sentiment_model", nil)
	if ret := int32(uint32(call(t, h, "delete_model", nil, model))); ret != 0 {
		t.Fatalf("delete_model = %d, want 0", ret)
	}
	if b.Models.Len() != 0 {
		t.Fatal("model should be removed")
	}
	if ret := int32(uint32(call(t, h, "delete_model", nil, model))); ret != -1 {
		t.Fatalf("second delete_model = %d, want -1", ret)
	}
	if ret := int32(uint32(call(t, h, "delete_model_resource", nil, 0))); ret != -1 {
		t.Fatalf("delete_model_resource on empty table = %d, want -1", ret)
	}
}

func TestHost_Conversation(t *testing.T) {
	h, _ := newHost(t)
	mem := make(bertml.Bytes, 256)

	model := call(t, h, "create_conversation_model", mem)
	mgr := call(t, h, "create_conversation_manager", mem)
	convo := call(t, h, "create_conversation", mem, mgr)
	if int64(model) != 0 || int64(mgr) != 0 || int64(convo) != 0 {
		t.Fatalf("handles = %d, %d, %d; each table starts at 0", model, mgr, convo)
	}

	copy(mem, "hello")
	n := int64(call(t, h, "conversation_send", mem, model, mgr, convo, 0, 5))
	if n <= 0 {
		t.Fatalf("conversation_send = %d", n)
	}
	call(t, h, "fill_result", mem, 64, uint64(n))
	if got := string(mem[64 : 64+n]); got != "echo: hello" {
		t.Fatalf("response = %q", got)
	}
}

func TestHost_UnsupportedCapability(t *testing.T) {
	h, _ := newHost(t)
	if ret := int64(call(t, h, "create_qa_model", nil)); ret != -1 {
		t.Fatalf("create_qa_model = %d, want -1", ret)
	}
	n := call(t, h, "error_len", nil)
	mem := make(bertml.Bytes, n)
	call(t, h, "fill_error", mem, 0, n)
	if !bytes.Contains(mem, []byte("unsupported")) {
		t.Fatalf("error = %q", mem)
	}
}

func TestHost_OutOfBoundsTraps(t *testing.T) {
	h, b := newHost(t)
	mem := make(bertml.Bytes, 16)
	ctx := context.Background()

	model := call(t, h, "create_sentiment_model", mem)

	_, err := h.Invoke(ctx, "sentiment_predict", mem, model, 8, 64)
	if !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Fatalf("read past memory = %v, want out_of_bounds", err)
	}

	// A trapped fill leaves the pending result in place.
	copy(mem, `["good"]`)
	n := call(t, h, "sentiment_predict", mem, model, 0, 8)
	if _, err := h.Invoke(ctx, "fill_result", mem, 12, n); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Fatalf("fill past memory = %v, want out_of_bounds", err)
	}
	if len(b.TakeResult()) != int(n) {
		t.Fatal("result should survive a trapped fill")
	}

	if _, err := h.Invoke(ctx, "sentiment_predict", nil, model, 0, 1); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Fatalf("call without memory = %v, want out_of_bounds", err)
	}
}

func TestHost_InvokeErrors(t *testing.T) {
	h, _ := newHost(t)
	ctx := context.Background()

	if _, err := h.Invoke(ctx, "no_such_call", nil); !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("unknown call = %v, want not_found", err)
	}
	if _, err := h.Invoke(ctx, "delete_model", nil); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Fatalf("missing argument = %v, want invalid_input", err)
	}
}

func TestHost_Instantiate(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	b := bridge.New()
	defer b.Close()
	h := New(pipeline.New(b, sentimentOnly{}, nil), WithModuleName("nlp"))

	mod, err := h.Instantiate(ctx, rt)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	if mod.Name() != "nlp" {
		t.Fatalf("module name = %q, want nlp", mod.Name())
	}

	defs := mod.ExportedFunctionDefinitions()
	if len(defs) != len(h.Funcs()) {
		t.Fatalf("exported %d functions, want %d", len(defs), len(h.Funcs()))
	}
	qa, ok := defs["qa_query"]
	if !ok {
		t.Fatal("qa_query not exported")
	}
	if !equalTypes(qa.ParamTypes(), []api.ValueType{i64, i32, i32, i64, i64}) {
		t.Fatalf("qa_query params = %v", qa.ParamTypes())
	}

	again, err := h.Instantiate(ctx, rt)
	if err != nil || again != mod {
		t.Fatalf("second Instantiate should return the existing module, got %v, %v", again, err)
	}
}
