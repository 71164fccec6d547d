package channel

// Channel pairs the result slot and the error slot used to move
// variable-length data across a scalar-only call boundary.
//
// Both slots are shared by every caller of the owning context. Interleaved
// calls from several goroutines can observe each other's payloads, so the
// embedder must serialize boundary calls that go through one Channel.
type Channel struct {
	Result *Slot
	Error  *Slot
}

// New creates a channel with two empty slots.
func New() *Channel {
	return &Channel{
		Result: NewSlot("result"),
		Error:  NewSlot("error"),
	}
}

// SetResult stores a successful payload and returns its byte length.
func (c *Channel) SetResult(b []byte) int {
	return c.Result.Store(b)
}

// SetError stores the rendered message of err.
func (c *Channel) SetError(err error) int {
	if err == nil {
		return c.Error.Store(nil)
	}
	return c.Error.Store([]byte(err.Error()))
}

// Reset empties both slots.
func (c *Channel) Reset() {
	c.Result.Reset()
	c.Error.Reset()
}
