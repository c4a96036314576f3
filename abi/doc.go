// Package abi defines the fixed-layout values that cross the export boundary.
//
// Every type here has a C counterpart whose layout is part of the contract:
//
//	TrackedValue           TestClassValue                 8 bytes
//	Aggregate              TestStruct                     24 bytes
//	UnionAggregate         TestStruct1                    16 bytes
//	LeadingUnionAggregate  TestStruct2                    16 bytes
//	DerivedAggregate       TestStruct with a trailing int 32 bytes
//	ScopedAggregate        TestNamespace1::TestStruct1    4 bytes
//	Enum                   TestEnum (unsigned short)      2 bytes
//	EnumClass              TestEnumClass (int)            4 bytes
//
// The Go structs carry explicit padding so their in-memory layout matches the C
// layout on 64-bit targets. Verify compares the two at runtime.
//
// Unions are untagged. Only the member written last has defined read
// semantics; reading another member reinterprets the same bytes.
//
// # Raw bytes
//
// AppendBinary writes a value in its C layout (little-endian, padding zeroed).
// The matching Decode function reads it back and returns a structured error
// when the input is shorter than the layout.
//
// # Contents
//
//   - tracked.go: TrackedValue and its sentinel
//   - aggregate.go: the exported aggregate family and union accessors
//   - enum.go: Enum and EnumClass
//   - codec.go: raw-byte encoding and decoding
//   - layout.go: C layout descriptors and Verify
//   - coerce.go: numeric coercion for loosely typed input
package abi
