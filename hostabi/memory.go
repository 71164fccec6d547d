package hostabi

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/wippyai/bertml"
	"github.com/wippyai/bertml/errors"
)

// trap aborts the current host call. wazero reports the panic to the
// embedder as the guest call's error.
func trap(ptr, length uint32) {
	panic(errors.New(errors.PhaseBoundary, errors.KindOutOfBounds).
		Detail("guest range [%d, %d) is outside linear memory", ptr, uint64(ptr)+uint64(length)).
		Value(ptr).
		Build())
}

// readInput copies length bytes at ptr out of guest memory.
func readInput(mem bertml.Memory, ptr, length uint64) []byte {
	p, n := uint32(ptr), uint32(length)
	if mem == nil {
		trap(p, n)
	}
	b, ok := mem.Read(p, n)
	if !ok {
		trap(p, n)
	}
	return bytes.Clone(b)
}

// fillGuest moves a pending slot into the guest buffer at ptr. It returns
// the bytes moved, or -1 when the buffer is too small and the slot is left
// in place.
func fillGuest(mem bertml.Memory, ptr, length uint64, fill func([]byte) (int, error)) int64 {
	p, n := uint32(ptr), uint32(length)
	if mem == nil {
		trap(p, n)
	}
	if _, ok := mem.Read(p, n); !ok {
		trap(p, n)
	}
	buf := make([]byte, n)
	moved, err := fill(buf)
	if err != nil {
		Logger().Debug("guest buffer too small", zap.Uint32("len", n), zap.Error(err))
		return -1
	}
	if !mem.Write(p, buf[:moved]) {
		trap(p, uint32(moved))
	}
	return int64(moved)
}
