package pipeline

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/bertml/bridge"
	"github.com/wippyai/bertml/codec"
)

func newTestClient(t *testing.T, backend Backend) *Client {
	t.Helper()
	b := bridge.New()
	t.Cleanup(func() { _ = b.Close() })
	return NewClient(New(b, backend, codec.JSON))
}

func TestClient_Calls(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	qa, err := c.CreateQAModel()
	require.NoError(t, err)
	answers, err := c.Answer(qa, []QAInput{{Question: "Who?", Context: "Grace did."}}, 2, 0)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Len(t, answers[0], 2)
	assert.Equal(t, "Grace", answers[0][0].Answer)

	ner, err := c.CreateNERModel()
	require.NoError(t, err)
	entities, err := c.Recognize(ner, []string{"hello Ada"})
	require.NoError(t, err)
	assert.Equal(t, [][]Entity{{{Word: "Ada", Label: "I-PER", Score: 0.99}}}, entities)

	zs, err := c.CreateZeroShotModel()
	require.NoError(t, err)
	maxLength := 32
	labels, err := c.ZeroShotMultilabel(zs, ZeroShotRequest{Inputs: []string{"a"}, Labels: []string{"x", "y"}, MaxLength: &maxLength})
	require.NoError(t, err)
	assert.Len(t, labels[0], 2)
	best, err := c.ZeroShot(zs, ZeroShotRequest{Inputs: []string{"a"}, Labels: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "x", best[0].Text)

	sum, err := c.CreateSummarizationModel()
	require.NoError(t, err)
	summaries, err := c.Summarize(sum, []string{"Short story"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Short"}, summaries)

	gen, err := c.CreateTextGenerationModel()
	require.NoError(t, err)
	prefix := "!"
	text, err := c.Generate(gen, GenerateRequest{Inputs: []string{"go"}, Prefix: &prefix})
	require.NoError(t, err)
	assert.Equal(t, []string{"go and then!"}, text)

	pos, err := c.CreatePOSModel()
	require.NoError(t, err)
	tags, err := c.TagWords(pos, []string{"run"})
	require.NoError(t, err)
	assert.Equal(t, "run", tags[0][0].Word)

	require.NoError(t, c.DeleteModel(pos))
}

func TestClient_RemoteError(t *testing.T) {
	c := newTestClient(t, &fakeBackend{failNext: true})

	rid, err := c.CreateSentimentModel()
	require.NoError(t, err)

	_, err = c.Sentiment(rid, []string{"x"})
	var remote *RemoteError
	require.True(t, stderrors.As(err, &remote))
	assert.Equal(t, "sentiment_predict", remote.Op)
	assert.Contains(t, remote.Message, "boom")
	assert.Zero(t, c.Adapters().Bridge.ErrorLen(), "error slot is drained")

	out, err := c.Sentiment(rid, []string{"fine"})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	err = c.DeleteModel(rid + 10)
	require.True(t, stderrors.As(err, &remote))
	assert.Equal(t, "delete_model", remote.Op)
	assert.Contains(t, remote.Message, "not_found")
}

func TestClient_Chat(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	model, err := c.CreateConversationModel()
	require.NoError(t, err)
	mgr, err := c.CreateConversationManager()
	require.NoError(t, err)

	left, err := c.OpenChat(model, mgr, WithHistory())
	require.NoError(t, err)
	right, err := c.OpenChat(model, mgr)
	require.NoError(t, err)
	assert.NotEqual(t, left.Handle(), right.Handle())

	msg := "hello"
	for i := 0; i < 3; i++ {
		reply, err := right.Send(msg)
		require.NoError(t, err)
		msg, err = left.Send(reply)
		require.NoError(t, err)
	}

	assert.Len(t, left.History(), 3)
	assert.Empty(t, right.History())

	require.NoError(t, left.Close())
	_, err = left.Send("gone")
	assert.Error(t, err)

	require.NoError(t, c.DeleteResource(mgr))
	_, err = right.Send("manager gone")
	assert.Error(t, err)
}

func TestClient_TranslateJSON(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})
	rid, err := c.CreateTranslationModel(TranslationInit{
		SourceLanguages: []Language{English},
		TargetLanguages: []Language{German, HaitianCreole},
	})
	require.NoError(t, err)

	out, err := c.Translate(rid, TranslateRequest{Inputs: []string{"hi"}, SourceLanguage: English, TargetLanguage: HaitianCreole})
	require.NoError(t, err)
	assert.Equal(t, []string{"English->Haitian Creole:hi"}, out)
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, 100, NumLanguages)
	assert.Equal(t, Language(0), Afrikaans)
	assert.Equal(t, Language(99), HaitianCreole)
	assert.Equal(t, "Chinese Mandarin", ChineseMandarin.String())
	assert.False(t, Language(100).Valid())
	assert.Equal(t, "Language(100)", Language(100).String())

	out, err := codec.JSON.Encode([]Language{English, French})
	require.NoError(t, err)
	assert.Equal(t, `[4,13]`, string(out))

	l, err := ParseLanguage("scottish gaelic")
	require.NoError(t, err)
	assert.Equal(t, ScottishGaelic, l)
	l, err = ParseLanguage("3")
	require.NoError(t, err)
	assert.Equal(t, German, l)
	_, err = ParseLanguage("Klingon")
	assert.Error(t, err)
	_, err = ParseLanguage("150")
	assert.Error(t, err)
}
