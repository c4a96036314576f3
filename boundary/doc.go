// Package boundary exposes exported objects through a flat surface of
// handle-based functions.
//
// Callers never see an object. They hold a Handle issued by Create or
// CreateDerived and pass it to every other function. Handle 0 is the null
// handle; every function accepts it and returns its documented default.
//
// # Failure policy
//
// No function returns an error or panics. Failure is signaled by a default
// return value:
//
//	GetValue, Add, Multiply     0
//	GetValuePointer             nil
//	ExportStruct                zero Aggregate
//	ExportStructPointer         nil (also for base objects, which own none)
//	Subtract                    Invalid (null handle or base object)
//	Destroy                     false
//	SetValue, SetValueUint,
//	SetValueChangeCallback      no-op
//
// Panics raised while an operation runs, including panics from a caller's
// callback, are recovered and logged, and the operation returns its default.
// Logging never changes a return value.
//
// # Callbacks
//
// A value-change callback is invoked synchronously, after the new value is
// committed, by SetValue and SetValueUint on the handle it was registered
// for. Registering replaces the previous callback; registering nil clears it.
//
// # Handles
//
// Handles are released by Destroy or Close. A released handle may be
// reissued to a later object; using a handle after Destroy is a caller error
// that the boundary cannot detect.
//
// # Concurrency
//
// Creating, destroying and resolving handles is safe from multiple
// goroutines. Calls on the same handle must be serialized by the caller.
package boundary
