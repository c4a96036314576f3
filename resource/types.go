package resource

// Handle is an opaque reference to a value in a table.
// Handle 0 is the null handle and never refers to a value.
type Handle uint32

// EventType identifies a handle lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event represents a handle lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
// Observers run synchronously on the goroutine that caused the event.
type Observer interface {
	OnResourceEvent(Event)
}

// Table manages handles with type information and observer support.
type Table interface {
	// Insert adds a value and returns its handle, or 0 once closed.
	Insert(typeID uint32, value any) Handle

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// GetTyped retrieves a value only if it was inserted with typeID.
	GetTyped(handle Handle, typeID uint32) (any, bool)

	// TypeID returns the type a handle was inserted with.
	TypeID(handle Handle) (uint32, bool)

	// Remove drops a value and returns (value, true) if found.
	Remove(handle Handle) (any, bool)

	// Subscribe adds an observer for lifecycle events.
	Subscribe(Observer)

	// Unsubscribe removes an observer.
	Unsubscribe(Observer)

	// Len returns the number of live handles.
	Len() int

	// Clear drops all values.
	Clear()

	// Close drops all values and stops accepting inserts.
	Close() error
}

// Dropper is optionally implemented by values that need cleanup when their
// handle is released.
type Dropper interface {
	Drop()
}
