package pipeline

import "sync"

// RemoteError carries a message drained from the error slot after a call
// returned -1.
type RemoteError struct {
	Op      string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Op + ": " + e.Message
}

// Client drives the adapters the way an embedder on the far side of the
// boundary would: scalar return, then error_len/fill_error or fill_result.
// Calls are serialized so results and errors cannot interleave.
type Client struct {
	a  *Adapters
	mu sync.Mutex
}

// NewClient creates a client over a.
func NewClient(a *Adapters) *Client {
	return &Client{a: a}
}

// Adapters returns the underlying adapters.
func (c *Client) Adapters() *Adapters {
	return c.a
}

// assertCode turns a negative return into a RemoteError holding the drained
// error message.
func (c *Client) assertCode(op string, code int64) (int64, error) {
	if code >= 0 {
		return code, nil
	}
	buf := make([]byte, c.a.Bridge.ErrorLen())
	n, err := c.a.Bridge.FillError(buf)
	if err != nil {
		return code, err
	}
	return code, &RemoteError{Op: op, Message: string(buf[:n])}
}

// result drains n bytes from the result slot.
func (c *Client) result(n int64) ([]byte, error) {
	buf := make([]byte, n)
	got, err := c.a.Bridge.FillResult(buf)
	if err != nil {
		return nil, err
	}
	return buf[:got], nil
}

func (c *Client) handle(op string, call func() int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assertCode(op, call())
}

func (c *Client) status(op string, call func() int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.assertCode(op, int64(call()))
	return err
}

// query encodes req, runs call and decodes the result into out.
func query[Resp any](c *Client, op string, req any, call func(in []byte) int64) (Resp, error) {
	var out Resp
	in, err := c.a.Codec.Encode(req)
	if err != nil {
		return out, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.assertCode(op, call(in))
	if err != nil {
		return out, err
	}
	payload, err := c.result(n)
	if err != nil {
		return out, err
	}
	err = c.a.Codec.Decode(payload, &out)
	return out, err
}

func (c *Client) CreateTranslationModel(init TranslationInit) (int64, error) {
	in, err := c.a.Codec.Encode(init)
	if err != nil {
		return -1, err
	}
	return c.handle("create_translation_model", func() int64 { return c.a.CreateTranslationModel(in) })
}

func (c *Client) Translate(rid int64, req TranslateRequest) ([]string, error) {
	return query[[]string](c, "translation_translate", req, func(in []byte) int64 {
		return c.a.TranslationTranslate(rid, in)
	})
}

func (c *Client) CreateQAModel() (int64, error) {
	return c.handle("create_qa_model", c.a.CreateQAModel)
}

// Answer queries a QA model. Zero topK or batchSize selects the default.
func (c *Client) Answer(rid int64, inputs []QAInput, topK, batchSize int) ([][]Answer, error) {
	return query[[][]Answer](c, "qa_query", inputs, func(in []byte) int64 {
		return c.a.QAQuery(rid, in, int64(topK), int64(batchSize))
	})
}

func (c *Client) CreateNERModel() (int64, error) {
	return c.handle("create_ner_model", c.a.CreateNERModel)
}

func (c *Client) Recognize(rid int64, inputs []string) ([][]Entity, error) {
	return query[[][]Entity](c, "ner_predict", inputs, func(in []byte) int64 {
		return c.a.NERPredict(rid, in)
	})
}

func (c *Client) CreateSentimentModel() (int64, error) {
	return c.handle("create_sentiment_model", c.a.CreateSentimentModel)
}

func (c *Client) Sentiment(rid int64, inputs []string) ([]Sentiment, error) {
	return query[[]Sentiment](c, "sentiment_predict", inputs, func(in []byte) int64 {
		return c.a.SentimentPredict(rid, in)
	})
}

func (c *Client) CreateSummarizationModel() (int64, error) {
	return c.handle("create_summarization_model", c.a.CreateSummarizationModel)
}

func (c *Client) Summarize(rid int64, inputs []string) ([]string, error) {
	return query[[]string](c, "summarization_summarize", inputs, func(in []byte) int64 {
		return c.a.SummarizationSummarize(rid, in)
	})
}

func (c *Client) CreateTextGenerationModel() (int64, error) {
	return c.handle("create_text_generation_model", c.a.CreateTextGenerationModel)
}

func (c *Client) Generate(rid int64, req GenerateRequest) ([]string, error) {
	return query[[]string](c, "text_generation_generate", req, func(in []byte) int64 {
		return c.a.TextGenerationGenerate(rid, in)
	})
}

func (c *Client) CreateZeroShotModel() (int64, error) {
	return c.handle("create_zero_shot_model", c.a.CreateZeroShotModel)
}

func (c *Client) ZeroShot(rid int64, req ZeroShotRequest) ([]Label, error) {
	return query[[]Label](c, "zero_shot_predict", req, func(in []byte) int64 {
		return c.a.ZeroShotPredict(rid, in)
	})
}

func (c *Client) ZeroShotMultilabel(rid int64, req ZeroShotRequest) ([][]Label, error) {
	return query[[][]Label](c, "zero_shot_predict_multilabel", req, func(in []byte) int64 {
		return c.a.ZeroShotPredictMultilabel(rid, in)
	})
}

func (c *Client) CreatePOSModel() (int64, error) {
	return c.handle("create_pos_model", c.a.CreatePOSModel)
}

func (c *Client) TagWords(rid int64, inputs []string) ([][]POSTag, error) {
	return query[[][]POSTag](c, "pos_predict", inputs, func(in []byte) int64 {
		return c.a.POSPredict(rid, in)
	})
}

func (c *Client) DeleteModel(rid int64) error {
	return c.status("delete_model", func() int32 { return c.a.Bridge.DeleteModel(rid) })
}

func (c *Client) DeleteResource(rid int64) error {
	return c.status("delete_model_resource", func() int32 { return c.a.Bridge.DeleteResource(rid) })
}

func (c *Client) DeleteAccessor(rid int64) error {
	return c.status("delete_model_resource_accessor", func() int32 { return c.a.Bridge.DeleteAccessor(rid) })
}

// Chat is one conversation opened through a Client.
type Chat struct {
	client  *Client
	history []Exchange
	model   int64
	manager int64
	convo   int64
	keep    bool
}

// ChatOption configures a Chat.
type ChatOption func(*Chat)

// WithHistory records every exchange on the Chat.
func WithHistory() ChatOption {
	return func(ch *Chat) { ch.keep = true }
}

// OpenChat creates a conversation in the manager at manager, answered by
// the conversation model at model.
func (c *Client) OpenChat(model, manager int64, opts ...ChatOption) (*Chat, error) {
	convo, err := c.handle("create_conversation", func() int64 { return c.a.CreateConversation(manager) })
	if err != nil {
		return nil, err
	}
	ch := &Chat{client: c, model: model, manager: manager, convo: convo}
	for _, opt := range opts {
		opt(ch)
	}
	return ch, nil
}

// CreateConversationModel creates a conversation model.
func (c *Client) CreateConversationModel() (int64, error) {
	return c.handle("create_conversation_model", c.a.CreateConversationModel)
}

// CreateConversationManager creates a conversation manager.
func (c *Client) CreateConversationManager() (int64, error) {
	return c.handle("create_conversation_manager", c.a.CreateConversationManager)
}

// Send sends message and returns the response.
func (ch *Chat) Send(message string) (string, error) {
	c := ch.client
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.assertCode("conversation_send",
		c.a.ConversationSend(ch.model, ch.manager, ch.convo, []byte(message)))
	if err != nil {
		return "", err
	}
	payload, err := c.result(n)
	if err != nil {
		return "", err
	}
	response := string(payload)
	if ch.keep {
		ch.history = append(ch.history, Exchange{Input: message, Response: response})
	}
	return response, nil
}

// History returns the recorded exchanges. It is empty unless the chat was
// opened WithHistory.
func (ch *Chat) History() []Exchange {
	return ch.history
}

// Handle returns the accessor handle of the conversation.
func (ch *Chat) Handle() int64 {
	return ch.convo
}

// Close deletes the conversation accessor.
func (ch *Chat) Close() error {
	return ch.client.DeleteAccessor(ch.convo)
}
