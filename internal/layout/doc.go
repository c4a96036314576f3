// Package layout provides C layout calculations for exported aggregates.
//
// This package computes size, alignment, and field offsets for the fixed-layout
// values that cross the export boundary. The results are the ABI contract: Go
// structs in package abi are checked against them, and the wasm host checks its
// WIT record declarations against them.
//
// # Layout Rules
//
// The rules are those of the C ABI on LP64 and wasm32 targets:
//   - Scalars: size equals alignment (int32=4, int64=8, double=8, etc.)
//   - Records: fields laid out sequentially with padding for alignment
//   - Unions: every member at offset 0, size of the largest member, no discriminant
//   - Enums: size and alignment of the declared underlying integer type
//
// Anonymous unions inside a record contribute their members' names to the
// record's field offsets, the way C flattens them. Named nested records
// contribute dotted paths ("base.value1").
//
// # Usage
//
//	c := layout.NewCalculator()
//	info := c.Calculate(&layout.Record{Name: "TestStruct", Fields: ...})
//	// info.Size, info.Align, info.FieldOffs available
package layout
