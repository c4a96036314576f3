package abi

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	oerrors "github.com/wippyai/objexport/errors"
)

func TestAggregateBinaryOffsets(t *testing.T) {
	b := NewAggregate(1, 2, 3).AppendBinary(nil)
	if len(b) != AggregateSize {
		t.Fatalf("length: got %d, want %d", len(b), AggregateSize)
	}

	info := LayoutOf(AggregateType)
	if got := int32(binary.LittleEndian.Uint32(b[info.FieldOffs["value1"]:])); got != 1 {
		t.Errorf("value1: got %d, want 1", got)
	}
	if got := int64(binary.LittleEndian.Uint64(b[info.FieldOffs["value2"]:])); got != 2 {
		t.Errorf("value2: got %d, want 2", got)
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(b[info.FieldOffs["value3"]:])); got != 3 {
		t.Errorf("value3: got %v, want 3", got)
	}
	for i := 4; i < 8; i++ {
		if b[i] != 0 {
			t.Errorf("padding byte %d: got %#x, want 0", i, b[i])
		}
	}
}

func TestTrackedValueBinary(t *testing.T) {
	v := NewTrackedValue(5)
	b := v.AppendBinary([]byte{0xff})
	if len(b) != 1+TrackedValueSize {
		t.Fatalf("AppendBinary must append, got length %d", len(b))
	}

	got, err := DecodeTrackedValue(b[1:])
	if err != nil {
		t.Fatalf("DecodeTrackedValue: %v", err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if int32(binary.LittleEndian.Uint32(b[1:])) != math.MinInt32 {
		t.Error("previousValue must be at offset 0")
	}
}

func TestUnionAggregateBinary(t *testing.T) {
	var a UnionAggregate
	a.Value1 = 9
	a.SetFloat64(0.5)

	b := a.AppendBinary(nil)
	if len(b) != UnionAggregateSize {
		t.Fatalf("length: got %d, want %d", len(b), UnionAggregateSize)
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(b[8:])); got != 0.5 {
		t.Errorf("value3 at 8: got %v, want 0.5", got)
	}

	back, err := DecodeUnionAggregate(b)
	if err != nil {
		t.Fatalf("DecodeUnionAggregate: %v", err)
	}
	if back.Value1 != 9 || back.Float64() != 0.5 {
		t.Errorf("got value1=%d value3=%v", back.Value1, back.Float64())
	}
}

func TestLeadingUnionAggregateBinary(t *testing.T) {
	var a LeadingUnionAggregate
	a.SetInt32(-3)
	a.Value3 = 4.25

	b := a.AppendBinary(nil)
	if got := int32(binary.LittleEndian.Uint32(b[0:])); got != -3 {
		t.Errorf("value1 at 0: got %d, want -3", got)
	}

	back, err := DecodeLeadingUnionAggregate(b)
	if err != nil {
		t.Fatalf("DecodeLeadingUnionAggregate: %v", err)
	}
	if back.Int32() != -3 || back.Value3 != 4.25 {
		t.Errorf("got value1=%d value3=%v", back.Int32(), back.Value3)
	}
}

func TestDerivedAggregateBinary(t *testing.T) {
	d := DerivedAggregate{Base: NewAggregate(1, 2, 3), Extra: 4}
	b := d.AppendBinary(nil)
	if len(b) != DerivedAggregateSize {
		t.Fatalf("length: got %d, want %d", len(b), DerivedAggregateSize)
	}

	base, err := DecodeAggregate(b)
	if err != nil {
		t.Fatalf("DecodeAggregate on derived bytes: %v", err)
	}
	if base != d.Base {
		t.Errorf("base prefix: got %+v, want %+v", base, d.Base)
	}

	back, err := DecodeDerivedAggregate(b)
	if err != nil {
		t.Fatalf("DecodeDerivedAggregate: %v", err)
	}
	if back != d {
		t.Errorf("got %+v, want %+v", back, d)
	}
}

func TestScopedAggregateBinary(t *testing.T) {
	b := ScopedAggregate{Value: 77}.AppendBinary(nil)
	back, err := DecodeScopedAggregate(b)
	if err != nil {
		t.Fatalf("DecodeScopedAggregate: %v", err)
	}
	if back.Value != 77 {
		t.Errorf("got %d, want 77", back.Value)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	short := make([]byte, 3)
	target := &oerrors.Error{Phase: oerrors.PhaseDecode, Kind: oerrors.KindOutOfBounds}

	decoders := map[string]func([]byte) error{
		"TrackedValue": func(b []byte) error { _, err := DecodeTrackedValue(b); return err },
		"Aggregate":    func(b []byte) error { _, err := DecodeAggregate(b); return err },
		"Union":        func(b []byte) error { _, err := DecodeUnionAggregate(b); return err },
		"LeadingUnion": func(b []byte) error { _, err := DecodeLeadingUnionAggregate(b); return err },
		"Derived":      func(b []byte) error { _, err := DecodeDerivedAggregate(b); return err },
		"Scoped":       func(b []byte) error { _, err := DecodeScopedAggregate(b); return err },
	}

	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			err := decode(short)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, target) {
				t.Errorf("got %v, want decode/out_of_bounds", err)
			}
		})
	}
}
