// Package objexport exposes native objects to foreign callers through a flat,
// handle-based interface with ABI-stable value types.
//
// Callers create objects, invoke methods, register change callbacks and read
// back composite values without seeing the object layout. The same surface is
// served to Go, to C through a shared library, and to WebAssembly guests
// through a wazero host module.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	objexport/
//	├── abi/                 ABI value types, C layout descriptors, byte codec
//	├── object/              Tagged-variant object model with value callbacks
//	├── resource/            Handle table with free-list reuse and observers
//	├── boundary/            Exported operations with default-value failure policy
//	├── wasmhost/            wazero host module and callback dispatch
//	├── errors/              Structured error types for debugging
//	├── internal/layout/     C struct layout calculator
//	├── internal/wasmbin/    Core wasm binary builder for synthesized modules
//	├── internal/config/     viper-backed configuration
//	├── cmd/libobjexport/    C shared library (-buildmode=c-shared)
//	└── cmd/exportctl/       CLI: demo, layout report, guest runner, TUI
//
// # Quick Start
//
//	b := boundary.New()
//	defer b.Close()
//
//	h := b.Create(3)
//	b.SetValueChangeCallback(h, func(h boundary.Handle, v int32) {
//	    fmt.Println("changed to", v)
//	})
//	b.SetValue(h, b.GetValue(h)+1) // changed to 4
//	fmt.Println(b.Multiply(h, 4))  // 16
//	fmt.Println(b.Subtract(h, 4))  // -2147483648, not a derived object
//	b.Destroy(h)
//
// # Failure Policy
//
// Exported operations never return errors and never panic. A null or stale
// handle, a failed downcast, or a recovered panic yields the operation's
// documented default value. See the boundary package for the table.
//
// # Thread Safety
//
// The handle table is safe for concurrent use. Objects are not: concurrent
// calls on the same handle must be serialized by the caller. Value change
// callbacks run synchronously on the goroutine that called SetValue.
//
// # Memory Model
//
// Pointers returned by GetValuePointer and ExportStructPointer stay valid
// until the handle is destroyed. Handles are reused after Destroy, so a
// destroyed handle must not be used again.
package objexport
