package abi

import "math"

// Aggregate mirrors TestStruct.
type Aggregate struct {
	Value1 int32
	_      [4]byte
	Value2 int64
	Value3 float64
}

// NewAggregate builds an Aggregate from its three members.
func NewAggregate(v1 int32, v2 int64, v3 float64) Aggregate {
	return Aggregate{Value1: v1, Value2: v2, Value3: v3}
}

// UnionAggregate mirrors TestStruct1: an int followed by an anonymous union
// of long long and double.
type UnionAggregate struct {
	Value1 int32
	_      [4]byte
	u      uint64
}

// Int64 reads the union as its long long member.
func (a *UnionAggregate) Int64() int64 { return int64(a.u) }

// SetInt64 writes the long long member.
func (a *UnionAggregate) SetInt64(v int64) { a.u = uint64(v) }

// Float64 reads the union as its double member.
func (a *UnionAggregate) Float64() float64 { return math.Float64frombits(a.u) }

// SetFloat64 writes the double member.
func (a *UnionAggregate) SetFloat64(v float64) { a.u = math.Float64bits(v) }

// LeadingUnionAggregate mirrors TestStruct2: an anonymous union of int and
// long long followed by a double.
type LeadingUnionAggregate struct {
	u      uint64
	Value3 float64
}

// Int32 reads the union as its int member, the low four bytes of the storage.
func (a *LeadingUnionAggregate) Int32() int32 { return int32(uint32(a.u)) }

// SetInt32 writes the int member. The upper four bytes keep whatever was
// there, as they would in C.
func (a *LeadingUnionAggregate) SetInt32(v int32) {
	a.u = a.u&^0xffffffff | uint64(uint32(v))
}

// Int64 reads the union as its long long member.
func (a *LeadingUnionAggregate) Int64() int64 { return int64(a.u) }

// SetInt64 writes the long long member.
func (a *LeadingUnionAggregate) SetInt64(v int64) { a.u = uint64(v) }

// DerivedAggregate extends Aggregate by prefix: a pointer to it is also a
// valid pointer to its Base.
type DerivedAggregate struct {
	Base  Aggregate
	Extra int32
	_     [4]byte
}

// ScopedAggregate mirrors TestNamespace1::TestStruct1.
type ScopedAggregate struct {
	Value int32
}
