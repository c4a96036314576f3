// Package resource provides opaque handle management for exported objects.
//
// Callers of the export boundary never hold Go pointers to objects. They hold
// a Handle, a small integer that indexes a table owned by the boundary.
//
// # Handle Table
//
// The UnifiedTable maps integer handles to Go values:
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert(typeID, obj)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Release the handle
//	value, ok := table.Remove(handle)
//
// Handle 0 is never issued and every lookup of it fails, so callers can use
// it as a null reference. Released handles go on a free list and are reissued
// by later inserts; a handle used after release may therefore refer to a
// different value.
//
// # Type IDs
//
// Each value is inserted with a type ID, and GetTyped only succeeds when it
// matches. The boundary records the object kind this way and checks it before
// any derived-only operation:
//
//	h := table.Insert(typeDerived, obj)
//	_, ok := table.GetTyped(h, typeDerived) // ok
//	_, ok = table.GetTyped(h, typeBase)     // !ok
//	id, _ := table.TypeID(h)                // typeDerived
//
// # Observers
//
// Observers are notified synchronously of every insert and removal,
// including the removals performed by Clear and Close:
//
//	table.Subscribe(obs) // obs implements OnResourceEvent(resource.Event)
//
// An observer that panics on EventCreated aborts the insert: the value is
// removed again and the panic continues to the caller.
//
// # Concurrency
//
// The table is safe for concurrent use. The values it stores are not made
// safe by it.
package resource
