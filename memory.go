package bertml

// Memory is a guest's linear memory as seen by host functions.
// wazero's api.Memory satisfies it.
type Memory interface {
	// Read returns length bytes at offset, or false if the range is out of
	// bounds. The returned slice may alias guest memory.
	Read(offset, length uint32) ([]byte, bool)
	// Write copies data to offset, or returns false if it does not fit.
	Write(offset uint32, data []byte) bool
}

// Bytes is a Memory backed by a plain byte slice.
type Bytes []byte

func (m Bytes) Read(offset, length uint32) ([]byte, bool) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m)) {
		return nil, false
	}
	return m[offset:end:end], true
}

func (m Bytes) Write(offset uint32, data []byte) bool {
	dst, ok := m.Read(offset, uint32(len(data)))
	if !ok {
		return false
	}
	copy(dst, data)
	return true
}
