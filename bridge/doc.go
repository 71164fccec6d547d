// Package bridge provides the context object behind every boundary call:
// three resource tables, one result/error channel and the call wrapper that
// maps Go errors onto the scalar return convention.
//
// Every boundary call follows the same shape:
//
//	n := b.Exec("sentiment_predict", func() (int64, error) {
//	    out, err := ...                   // decode, access, predict, encode
//	    if err != nil {
//	        return 0, err
//	    }
//	    return b.SetResult(out), nil      // byte length of the payload
//	})
//
// A non-negative n is a handle or a payload length. -1 means failure; the
// message is waiting in the error slot:
//
//	msg := make([]byte, b.ErrorLen())
//	b.FillError(msg)
//
// Exec does not serialize calls. Two goroutines sharing a Bridge can
// observe each other's result or error unless the embedder serializes them.
package bridge
