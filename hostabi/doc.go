// Package hostabi exports the bridge's boundary calls as a wazero host
// module.
//
// Every call takes and returns WebAssembly scalars only. Handles and
// results are i64, guest pointers and lengths are i32, and the delete
// calls return i32:
//
//	create_sentiment_model() -> i64
//	sentiment_predict(rid i64, ptr i32, len i32) -> i64
//	fill_result(ptr i32, len i32) -> i64
//	error_len() -> i64
//	fill_error(ptr i32, len i32) -> i64
//	delete_model(rid i64) -> i32
//
// Input buffers are bounds-checked and copied out of guest memory before
// they are decoded. A pointer range outside guest memory traps the call.
//
// A Host serves one guest at a time: the result and error slots are shared
// by every call, so a second guest interleaving calls would read the
// first guest's payloads.
//
// Hosts that drive the boundary without wazero use Invoke with any
// bertml.Memory:
//
//	host := hostabi.New(adapters)
//	res, err := host.Invoke(ctx, "create_sentiment_model", nil)
package hostabi
