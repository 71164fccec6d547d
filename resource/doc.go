// Package resource provides the handle tables that keep native objects
// reachable from a caller that can only hold integers.
//
// A Table is instantiated once per resource category (models, model-level
// managers, sub-resource accessors) and maps handles to tagged variants:
//
//	models := resource.NewTable[pipeline.Model]("models")
//
//	// Allocate a value, get a handle
//	h, err := models.Allocate(sentiment)
//
//	// Run an operation under the table lock
//	err = models.WithAccess(h, func(m pipeline.Model) error { ... })
//
//	// Remove and take ownership back for cleanup
//	m, err := models.Deallocate(h)
//
// # Handles
//
// Handles come from a per-table counter that starts at 0 and only moves
// forward. A handle is never reissued, even after its entry is removed, so a
// stale copy of a removed handle fails with KindNotFound instead of reaching
// an unrelated resource. Handles carry no ownership: deallocating while
// another party still holds a copy is allowed.
//
// # Type Safety
//
// Every variant reports a Tag. Access checks the tag and the Go type before
// handing the entry to the callback:
//
//	answers, err := resource.Access(models, h, KindQA,
//	    func(m *QAModel) ([][]Answer, error) { ... })
//
// A mismatch fails with KindTypeMismatch and leaves the entry untouched.
//
// # Locking
//
// One mutex guards the whole table. Operations on different handles of the
// same table serialize, and WithAccess holds the lock for the full callback,
// including model inference. A per-entry lock or a concurrent map is the
// alternative if independent handles must proceed in parallel.
//
// A panic inside a WithAccess callback poisons the table; all later
// operations fail with KindLockPoisoned.
//
// # Observers
//
// Subscribe registers an Observer that is notified after every allocation
// and deallocation, outside the table lock.
package resource
