package resource

// Handle is an opaque reference to an entry in exactly one table.
// Handles carry no ownership and are never reissued by the table that
// produced them.
type Handle uint64

// Tag names the concrete kind of a resource variant.
type Tag string

// Tagged is implemented by every resource variant a table can hold.
type Tagged interface {
	Tag() Tag
}

// EventType identifies a resource lifecycle notification.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventDeallocated
)

func (t EventType) String() string {
	switch t {
	case EventAllocated:
		return "allocated"
	case EventDeallocated:
		return "deallocated"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event.
type Event struct {
	Table  string
	Tag    Tag
	Handle Handle
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
// Observers are called after the table lock is released.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is optionally implemented by resource values that need cleanup.
type Dropper interface {
	Drop()
}
