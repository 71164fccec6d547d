package resource

import (
	stderrors "errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bertml/errors"
)

// Table maps handles to tagged resource values for one resource category.
//
// A single table-wide mutex guards every entry, so operations on different
// handles of the same table serialize. The wrapped native objects are not
// safe for unsynchronized concurrent mutation, and WithAccess holds the lock
// for the whole duration of the callback (including model inference).
type Table[V Tagged] struct {
	entries   map[Handle]V
	logger    *zap.Logger
	name      string
	observers map[int]Observer
	next      Handle
	nextObs   int
	mu        sync.Mutex
	obsMu     sync.RWMutex
	poisoned  bool
	closed    bool
}

// TableOption configures a Table.
type TableOption func(*tableOptions)

type tableOptions struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for lifecycle and poisoning messages.
func WithLogger(l *zap.Logger) TableOption {
	return func(o *tableOptions) {
		o.logger = l
	}
}

// NewTable creates an empty table for the named category.
func NewTable[V Tagged](name string, opts ...TableOption) *Table[V] {
	o := tableOptions{logger: Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[V]{
		name:    name,
		entries: make(map[Handle]V),
		logger:  o.logger.With(zap.String("table", name)),
	}
}

// Name returns the category name.
func (t *Table[V]) Name() string {
	return t.name
}

// Allocate stores v under the next counter value and returns that handle.
func (t *Table[V]) Allocate(v V) (Handle, error) {
	if any(v) == nil {
		return 0, errors.InvalidInput(errors.PhaseAllocate, "cannot allocate a nil resource")
	}
	tag := v.Tag()

	t.mu.Lock()
	if t.poisoned {
		t.mu.Unlock()
		return 0, errors.LockPoisoned(errors.PhaseAllocate, t.name)
	}
	if t.closed {
		t.mu.Unlock()
		return 0, errors.Closed(errors.PhaseAllocate, t.name)
	}
	h := t.next
	t.entries[h] = v
	t.next++
	t.mu.Unlock()

	t.logger.Debug("resource allocated", zap.Uint64("handle", uint64(h)), zap.String("tag", string(tag)))
	t.notify(Event{Table: t.name, Tag: tag, Handle: h, Type: EventAllocated})
	return h, nil
}

// Deallocate removes the entry at h and hands it to the caller, who becomes
// responsible for releasing it.
func (t *Table[V]) Deallocate(h Handle) (V, error) {
	var zero V

	t.mu.Lock()
	if t.poisoned {
		t.mu.Unlock()
		return zero, errors.LockPoisoned(errors.PhaseRelease, t.name)
	}
	v, ok := t.entries[h]
	if !ok {
		t.mu.Unlock()
		return zero, errors.NotFound(errors.PhaseRelease, t.name, h)
	}
	delete(t.entries, h)
	t.mu.Unlock()

	tag := v.Tag()
	t.logger.Debug("resource deallocated", zap.Uint64("handle", uint64(h)), zap.String("tag", string(tag)))
	t.notify(Event{Table: t.name, Tag: tag, Handle: h, Type: EventDeallocated})
	return v, nil
}

// WithAccess runs fn on the entry at h while holding the table lock and
// returns fn's error. References to the entry must not escape fn.
//
// If fn panics the table is poisoned: the lock is released, the panic
// continues, and every later operation fails with KindLockPoisoned.
func (t *Table[V]) WithAccess(h Handle, fn func(V) error) error {
	t.mu.Lock()
	if t.poisoned {
		t.mu.Unlock()
		return errors.LockPoisoned(errors.PhaseAccess, t.name)
	}
	v, ok := t.entries[h]
	if !ok {
		t.mu.Unlock()
		return errors.NotFound(errors.PhaseAccess, t.name, h)
	}

	defer func() {
		if r := recover(); r != nil {
			t.poisoned = true
			t.mu.Unlock()
			t.logger.Error("table poisoned by panic during access",
				zap.Uint64("handle", uint64(h)), zap.Any("panic", r))
			panic(r)
		}
		t.mu.Unlock()
	}()

	return fn(v)
}

// Access runs fn on the entry at h after checking that its tag is want and
// that it is a T. A mismatch fails with KindTypeMismatch and leaves the
// entry in place.
func Access[T any, V Tagged, R any](t *Table[V], h Handle, want Tag, fn func(T) (R, error)) (R, error) {
	var out R
	err := t.WithAccess(h, func(v V) error {
		got := v.Tag()
		if got != want {
			return errors.TypeMismatch(t.name, h, string(want), string(got))
		}
		typed, ok := any(v).(T)
		if !ok {
			return errors.TypeMismatch(t.name, h, string(want), string(got))
		}
		r, err := fn(typed)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	return out, err
}

// TagOf returns the tag of the entry at h.
func (t *Table[V]) TagOf(h Handle) (Tag, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[h]
	if !ok {
		return "", false
	}
	return v.Tag(), true
}

// Len returns the number of live entries.
func (t *Table[V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Next returns the handle the next Allocate will issue.
func (t *Table[V]) Next() Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.next
}

// Poisoned reports whether the table has been poisoned.
func (t *Table[V]) Poisoned() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.poisoned
}

// Each calls fn for every live entry in unspecified order while holding the
// table lock. fn must not call back into the table.
func (t *Table[V]) Each(fn func(Handle, V) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for h, v := range t.entries {
		if !fn(h, v) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events and returns a function
// that removes it.
func (t *Table[V]) Subscribe(o Observer) (unsubscribe func()) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	if t.observers == nil {
		t.observers = make(map[int]Observer)
	}
	id := t.nextObs
	t.nextObs++
	t.observers[id] = o
	return func() {
		t.obsMu.Lock()
		defer t.obsMu.Unlock()
		delete(t.observers, id)
	}
}

// Close removes and releases every live entry and stops accepting new
// allocations. Handles stay retired; the counter is not reset.
func (t *Table[V]) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	drained := make(map[Handle]V, len(t.entries))
	for h, v := range t.entries {
		drained[h] = v
	}
	clear(t.entries)
	t.mu.Unlock()

	var errs []error
	for h, v := range drained {
		if err := Release(v); err != nil {
			errs = append(errs, err)
		}
		t.notify(Event{Table: t.name, Tag: v.Tag(), Handle: h, Type: EventDeallocated})
	}
	return stderrors.Join(errs...)
}

// Release runs the cleanup hook of a value removed from a table, if it has one.
func Release(v any) error {
	switch r := v.(type) {
	case io.Closer:
		return r.Close()
	case Dropper:
		r.Drop()
	}
	return nil
}

func (t *Table[V]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
