// Package bertml exposes native NLP pipelines to callers that can only
// exchange integers and byte buffers, typically a WebAssembly guest.
//
// Native objects never cross the boundary. The host keeps them in handle
// tables and hands out integer handles; every call returns a scalar status
// and leaves any payload in a result or error slot for the caller to fetch.
//
// # Architecture Overview
//
//	bertml/          Root package with the guest Memory interface
//	├── errors/      Structured error types (phase and kind)
//	├── resource/    Generic handle tables with tag-checked access
//	├── channel/     Single-slot result and error buffers
//	├── bridge/      Call wrapper owning the tables and the channel
//	├── codec/       Request and response payload codecs
//	├── pipeline/    Model variants, backends and boundary adapters
//	├── hostabi/     wazero host module exporting the boundary calls
//	├── config/      Configuration file loading
//	└── cmd/bertml/  CLI for running guests and chatting locally
//
// # Boundary Convention
//
// A call returns a non-negative scalar on success: a handle for create
// calls, or the byte length of a result payload for inference calls. The
// payload is moved out with fill_result. On failure the call returns -1 and
// the message is available through error_len and fill_error:
//
//	n := sentiment_predict(model, ptr, len)
//	if n < 0 {
//	    buf := make([]byte, error_len())
//	    fill_error(&buf[0], len(buf))
//	    ...
//	}
//	out := make([]byte, n)
//	fill_result(&out[0], n)
//
// Each result or error is readable exactly once.
//
// # Quick Start
//
// Drive the adapters from Go without a guest:
//
//	b := bridge.New(bridge.WithLogger(logger))
//	defer b.Close()
//
//	client := pipeline.NewClient(pipeline.New(b, backend, codec.JSON))
//	model, err := client.CreateSentimentModel()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sentiments, err := client.Sentiment(model, []string{"great movie"})
//
// Or run a wasip1 guest that imports the host module:
//
//	host := hostabi.New(pipeline.New(b, backend, codec.JSON))
//	runner := hostabi.NewRunner(host)
//	err := runner.Run(ctx, wasmBytes, os.Args)
package bertml
