package channel

import (
	"sync"

	"github.com/wippyai/bertml/errors"
)

// Slot is a single-slot byte buffer. Each Store replaces the previous
// payload; Fill and Take move the payload out and leave the slot empty.
type Slot struct {
	name string
	buf  []byte
	mu   sync.Mutex
}

// NewSlot creates an empty slot. The name appears in error messages.
func NewSlot(name string) *Slot {
	return &Slot{name: name}
}

// Name returns the slot name.
func (s *Slot) Name() string {
	return s.name
}

// Store replaces the slot content with b and returns len(b).
// The slot takes ownership of b.
func (s *Slot) Store(b []byte) int {
	s.mu.Lock()
	s.buf = b
	s.mu.Unlock()
	return len(b)
}

// Len returns the length of the pending payload, 0 when empty.
func (s *Slot) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Fill copies the pending payload into dst and empties the slot.
// It returns the number of bytes moved, 0 for an empty slot.
// If dst is shorter than the payload nothing is moved and the slot keeps
// its content.
func (s *Slot) Fill(dst []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(dst) < len(s.buf) {
		return 0, errors.New(errors.PhaseChannel, errors.KindOutOfBounds).
			Table(s.name).
			Detail("buffer of %d bytes cannot hold %d pending bytes", len(dst), len(s.buf)).
			Build()
	}
	n := copy(dst, s.buf)
	s.buf = nil
	return n, nil
}

// Take returns the pending payload and empties the slot.
func (s *Slot) Take() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.buf
	s.buf = nil
	return b
}

// Reset discards the pending payload.
func (s *Slot) Reset() {
	s.mu.Lock()
	s.buf = nil
	s.mu.Unlock()
}
