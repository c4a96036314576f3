package resource

import (
	"sync"
)

// UnifiedTable implements Table on a LocalBackend and notifies observers of
// every insert and removal.
type UnifiedTable struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
}

var _ Table = (*UnifiedTable)(nil)

// NewTable creates a new unified table with a LocalBackend.
func NewTable() *UnifiedTable {
	return &UnifiedTable{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value and returns its handle, or 0 once the table is closed.
// If an observer panics the value is dropped again before the panic resumes.
func (t *UnifiedTable) Insert(typeID uint32, value any) Handle {
	handle, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}

	defer func() {
		if r := recover(); r != nil {
			t.backend.Drop(handle)
			panic(r)
		}
	}()
	t.notify(Event{Type: EventCreated, Handle: handle, TypeID: typeID, Value: value})
	return handle
}

// Get retrieves a value by handle.
func (t *UnifiedTable) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetTyped retrieves a value only if it was inserted with typeID.
func (t *UnifiedTable) GetTyped(handle Handle, typeID uint32) (any, bool) {
	value, actual, ok := t.backend.Lookup(handle)
	if !ok || actual != typeID {
		return nil, false
	}
	return value, true
}

// TypeID returns the type a handle was inserted with.
func (t *UnifiedTable) TypeID(handle Handle) (uint32, bool) {
	return t.backend.TypeID(handle)
}

// Remove drops a value and returns (value, true) if found. Values
// implementing Dropper are dropped before observers are notified.
func (t *UnifiedTable) Remove(handle Handle) (any, bool) {
	value, typeID, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}
	t.release(Slot{Handle: handle, TypeID: typeID, Value: value})
	return value, true
}

func (t *UnifiedTable) release(s Slot) {
	if d, ok := s.Value.(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{Type: EventDropped, Handle: s.Handle, TypeID: s.TypeID, Value: s.Value})
}

// Subscribe adds an observer for lifecycle events.
func (t *UnifiedTable) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes the first registration of o.
func (t *UnifiedTable) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			// Copy so a notify already iterating the old slice is unaffected.
			next := make([]Observer, 0, len(t.observers)-1)
			next = append(next, t.observers[:i]...)
			t.observers = append(next, t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live handles.
func (t *UnifiedTable) Len() int {
	return t.backend.Len()
}

// Clear drops all values and keeps the table open.
func (t *UnifiedTable) Clear() {
	var handles []Handle
	t.backend.Each(func(h Handle, _ uint32, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close stops accepting inserts and then releases every live handle in
// ascending order, notifying observers of each.
func (t *UnifiedTable) Close() error {
	for _, s := range t.backend.Drain() {
		t.release(s)
	}
	return nil
}

func (t *UnifiedTable) notify(e Event) {
	t.obsMu.RLock()
	observers := t.observers
	t.obsMu.RUnlock()
	for _, o := range observers {
		o.OnResourceEvent(e)
	}
}
