// Package wasmhost exposes an export boundary to WebAssembly guests.
//
// New registers a wazero host module (named "test_class" by default) whose
// functions mirror the C exports. Handles are i32 values. Functions that
// return an aggregate write it into guest memory at a caller-supplied
// result pointer:
//
//	test_class_get_value_pointer(h, retptr) -> i32       8 bytes, 1 on success
//	test_class_export_struct(h, retptr)                  24 bytes, always written
//	test_class_export_struct_pointer(h, retptr) -> i32   24 bytes, 1 on success
//
// A result pointer outside guest memory is logged and reported as a null
// result. It never traps the guest.
//
// # Callbacks
//
// test_class_set_value_change_callback(h, fnidx) takes an index into the
// guest's exported function table (__indirect_function_table, as emitted by
// clang and TinyGo). Index 0 clears the callback. The referenced function
// must have the type (i32 handle, i32 value) -> ().
//
// Callbacks are dispatched through a small module synthesized per guest that
// imports the guest's table and performs call_indirect. It is instantiated
// on the first registration from that guest and closed with the Host.
//
// # Guests
//
// Instantiate compiles a guest, checks that its imports from the host module
// match the exported core signatures, provides WASI preview1 when the guest
// imports it, and instantiates it under the configured name.
//
// # Layout
//
// Signatures describes every host function with WIT types. The WIT records
// for the tracked value and the aggregate are checked against the C layouts
// when a Host is created.
package wasmhost
