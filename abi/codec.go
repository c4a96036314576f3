package abi

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/objexport/errors"
)

// Sizes of the C layouts, in bytes.
const (
	TrackedValueSize          = 8
	AggregateSize             = 24
	UnionAggregateSize        = 16
	LeadingUnionAggregateSize = 16
	DerivedAggregateSize      = 32
	ScopedAggregateSize       = 4
)

var le = binary.LittleEndian

func (t TrackedValue) AppendBinary(b []byte) []byte {
	b = le.AppendUint32(b, uint32(t.Previous))
	return le.AppendUint32(b, uint32(t.Current))
}

func DecodeTrackedValue(b []byte) (TrackedValue, error) {
	if len(b) < TrackedValueSize {
		return TrackedValue{}, errors.ShortBuffer([]string{"TestClassValue"}, "abi.TrackedValue", len(b), TrackedValueSize)
	}
	return TrackedValue{
		Previous: int32(le.Uint32(b[0:])),
		Current:  int32(le.Uint32(b[4:])),
	}, nil
}

func (a Aggregate) AppendBinary(b []byte) []byte {
	b = le.AppendUint32(b, uint32(a.Value1))
	b = le.AppendUint32(b, 0)
	b = le.AppendUint64(b, uint64(a.Value2))
	return le.AppendUint64(b, math.Float64bits(a.Value3))
}

func DecodeAggregate(b []byte) (Aggregate, error) {
	if len(b) < AggregateSize {
		return Aggregate{}, errors.ShortBuffer([]string{"TestStruct"}, "abi.Aggregate", len(b), AggregateSize)
	}
	return decodeAggregate(b), nil
}

func decodeAggregate(b []byte) Aggregate {
	return Aggregate{
		Value1: int32(le.Uint32(b[0:])),
		Value2: int64(le.Uint64(b[8:])),
		Value3: math.Float64frombits(le.Uint64(b[16:])),
	}
}

func (a UnionAggregate) AppendBinary(b []byte) []byte {
	b = le.AppendUint32(b, uint32(a.Value1))
	b = le.AppendUint32(b, 0)
	return le.AppendUint64(b, a.u)
}

func DecodeUnionAggregate(b []byte) (UnionAggregate, error) {
	if len(b) < UnionAggregateSize {
		return UnionAggregate{}, errors.ShortBuffer([]string{"TestStruct1"}, "abi.UnionAggregate", len(b), UnionAggregateSize)
	}
	return UnionAggregate{
		Value1: int32(le.Uint32(b[0:])),
		u:      le.Uint64(b[8:]),
	}, nil
}

func (a LeadingUnionAggregate) AppendBinary(b []byte) []byte {
	b = le.AppendUint64(b, a.u)
	return le.AppendUint64(b, math.Float64bits(a.Value3))
}

func DecodeLeadingUnionAggregate(b []byte) (LeadingUnionAggregate, error) {
	if len(b) < LeadingUnionAggregateSize {
		return LeadingUnionAggregate{}, errors.ShortBuffer([]string{"TestStruct2"}, "abi.LeadingUnionAggregate", len(b), LeadingUnionAggregateSize)
	}
	return LeadingUnionAggregate{
		u:      le.Uint64(b[0:]),
		Value3: math.Float64frombits(le.Uint64(b[8:])),
	}, nil
}

func (a DerivedAggregate) AppendBinary(b []byte) []byte {
	b = a.Base.AppendBinary(b)
	b = le.AppendUint32(b, uint32(a.Extra))
	return le.AppendUint32(b, 0)
}

func DecodeDerivedAggregate(b []byte) (DerivedAggregate, error) {
	if len(b) < DerivedAggregateSize {
		return DerivedAggregate{}, errors.ShortBuffer([]string{"DerivedTestStruct"}, "abi.DerivedAggregate", len(b), DerivedAggregateSize)
	}
	return DerivedAggregate{
		Base:  decodeAggregate(b),
		Extra: int32(le.Uint32(b[24:])),
	}, nil
}

func (a ScopedAggregate) AppendBinary(b []byte) []byte {
	return le.AppendUint32(b, uint32(a.Value))
}

func DecodeScopedAggregate(b []byte) (ScopedAggregate, error) {
	if len(b) < ScopedAggregateSize {
		return ScopedAggregate{}, errors.ShortBuffer([]string{"TestNamespace1::TestStruct1"}, "abi.ScopedAggregate", len(b), ScopedAggregateSize)
	}
	return ScopedAggregate{Value: int32(le.Uint32(b))}, nil
}
