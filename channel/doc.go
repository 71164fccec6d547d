// Package channel implements the result and error slots that carry
// variable-length payloads back through a call convention limited to one
// signed integer.
//
// A successful operation stores its payload and returns the byte length as
// its scalar result. The caller allocates a buffer of that size and drains
// the result slot with Fill:
//
//	n := ch.SetResult(payload)  // returned to the caller as the scalar
//	buf := make([]byte, n)
//	ch.Result.Fill(buf)         // moves the bytes, slot is now empty
//
// A failing operation returns -1 with no byte count, so the error slot also
// answers Len before it is drained.
//
// Reads are destructive. A second Fill before a new Store moves nothing.
package channel
