// Package errors provides structured error types for objexport.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: field path, Go/C type names, and cause chain.
//
// These errors never cross the export boundary itself; boundary functions signal
// failure only through documented default return values. They are used by the
// raw-byte decoders, layout verification, the wasm host and configuration loading.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindLayoutMismatch).
//		Path("TestStruct", "value2").
//		GoType("abi.Aggregate").
//		CType("TestStruct").
//		Detail("offset %d, want %d", 4, 8).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ShortBuffer(path, "abi.TrackedValue", len(b), 8)
//	err := errors.OutOfBounds(errors.PhaseRuntime, path, 70000, 65536)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
