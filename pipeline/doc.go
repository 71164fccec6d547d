// Package pipeline adapts NLP model capabilities to the boundary calling
// convention.
//
// Each capability has a create entry point that builds a model through the
// Backend and stores it in the models table, and one or more invoke entry
// points that decode a request, reach the model under the table lock after
// checking its tag, and store the encoded response in the result slot:
//
//	a := pipeline.New(bridge.New(), backend, codec.JSON)
//	rid := a.CreateSentimentModel()
//	n := a.SentimentPredict(rid, []byte(`["I love it"]`))
//	out := make([]byte, n)
//	a.Bridge.FillResult(out) // [{"polarity":1,"score":0.998}]
//
// Conversations span all three tables: the model in models, a
// ConversationManager in model resources and one ConversationRef per
// conversation in accessors.
//
// Client runs the same calls from the caller's side and turns the scalar
// protocol back into Go values and errors.
package pipeline
