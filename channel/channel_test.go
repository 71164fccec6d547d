package channel

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/bertml/errors"
)

func TestSlot_SingleRead(t *testing.T) {
	s := NewSlot("result")

	n := s.Store([]byte(`["hallo welt"]`))
	require.Equal(t, 14, n)
	require.Equal(t, 14, s.Len())

	buf := make([]byte, n)
	got, err := s.Fill(buf)
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Equal(t, `["hallo welt"]`, string(buf))

	again := make([]byte, n)
	got, err = s.Fill(again)
	require.NoError(t, err)
	assert.Zero(t, got)
	assert.Equal(t, make([]byte, n), again, "second drain must not write anything")
	assert.Zero(t, s.Len())
}

func TestSlot_FillTooSmall(t *testing.T) {
	s := NewSlot("result")
	s.Store([]byte("payload"))

	n, err := s.Fill(make([]byte, 3))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindOutOfBounds))
	assert.Zero(t, n)
	assert.Equal(t, 7, s.Len(), "failed drain must keep the payload")

	buf := make([]byte, 16)
	n, err = s.Fill(buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf[:n]))
}

func TestSlot_StoreOverwrites(t *testing.T) {
	s := NewSlot("result")
	s.Store([]byte("first"))
	s.Store([]byte("second"))

	assert.Equal(t, "second", string(s.Take()))
	assert.Nil(t, s.Take())
}

func TestSlot_EmptyBeforeWrite(t *testing.T) {
	s := NewSlot("error")
	assert.Zero(t, s.Len())
	n, err := s.Fill(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChannel_ErrorRoundTrip(t *testing.T) {
	ch := New()

	ch.SetError(stderrors.New("boom"))
	require.Equal(t, 4, ch.Error.Len())

	buf := make([]byte, ch.Error.Len())
	n, err := ch.Error.Fill(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "boom", string(buf))
	assert.Zero(t, ch.Error.Len())
}

func TestChannel_SlotsAreIndependent(t *testing.T) {
	ch := New()
	ch.SetResult([]byte("ok"))
	ch.SetError(stderrors.New("failed"))

	assert.Equal(t, "ok", string(ch.Result.Take()))
	assert.Equal(t, 6, ch.Error.Len())

	ch.Reset()
	assert.Zero(t, ch.Error.Len())
	assert.Zero(t, ch.Result.Len())
}

func TestSlot_ConcurrentStore(t *testing.T) {
	s := NewSlot("result")
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Store([]byte("abcd"))
			_ = s.Len()
		}()
	}
	wg.Wait()
	assert.Equal(t, "abcd", string(s.Take()))
}
