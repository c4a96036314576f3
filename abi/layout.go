package abi

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/wippyai/objexport/errors"
	"github.com/wippyai/objexport/internal/layout"
)

// C layout descriptors for every value type.
var (
	TrackedValueType = &layout.Record{
		Name: "TestClassValue",
		Fields: []layout.Field{
			{Name: "previousValue", Type: layout.Int32},
			{Name: "currentValue", Type: layout.Int32},
		},
	}

	AggregateType = &layout.Record{
		Name: "TestStruct",
		Fields: []layout.Field{
			{Name: "value1", Type: layout.Int32},
			{Name: "value2", Type: layout.Int64},
			{Name: "value3", Type: layout.Float64},
		},
	}

	UnionAggregateType = &layout.Record{
		Name: "TestStruct1",
		Fields: []layout.Field{
			{Name: "value1", Type: layout.Int32},
			{Type: &layout.Union{Members: []layout.Field{
				{Name: "value2", Type: layout.Int64},
				{Name: "value3", Type: layout.Float64},
			}}},
		},
	}

	LeadingUnionAggregateType = &layout.Record{
		Name: "TestStruct2",
		Fields: []layout.Field{
			{Type: &layout.Union{Members: []layout.Field{
				{Name: "value1", Type: layout.Int32},
				{Name: "value2", Type: layout.Int64},
			}}},
			{Name: "value3", Type: layout.Float64},
		},
	}

	DerivedAggregateType = &layout.Record{
		Name: "DerivedTestStruct",
		Fields: []layout.Field{
			{Name: "base", Type: AggregateType},
			{Name: "extra", Type: layout.Int32},
		},
	}

	ScopedAggregateType = &layout.Record{
		Name: "TestNamespace1::TestStruct1",
		Fields: []layout.Field{
			{Name: "value", Type: layout.Int32},
		},
	}

	EnumType = &layout.Enum{
		Name:  "TestEnum",
		Repr:  layout.Uint16,
		Cases: []string{"Enum1", "Enum2", "Enum3"},
	}

	EnumClassType = &layout.Enum{
		Name:  "TestEnumClass",
		Repr:  layout.Int32,
		Cases: []string{"EnumClass1", "EnumClass2", "EnumClass3"},
	}
)

// Descriptor ties a Go value type to its C declaration.
type Descriptor struct {
	Type   layout.Type
	GoName string
	CName  string

	goSize  uintptr
	goAlign uintptr
	goOffs  map[string]uintptr
}

var descriptors = []Descriptor{
	{
		Type: TrackedValueType, GoName: "abi.TrackedValue", CName: "TestClassValue",
		goSize: unsafe.Sizeof(TrackedValue{}), goAlign: unsafe.Alignof(TrackedValue{}),
		goOffs: map[string]uintptr{
			"previousValue": unsafe.Offsetof(TrackedValue{}.Previous),
			"currentValue":  unsafe.Offsetof(TrackedValue{}.Current),
		},
	},
	{
		Type: AggregateType, GoName: "abi.Aggregate", CName: "TestStruct",
		goSize: unsafe.Sizeof(Aggregate{}), goAlign: unsafe.Alignof(Aggregate{}),
		goOffs: map[string]uintptr{
			"value1": unsafe.Offsetof(Aggregate{}.Value1),
			"value2": unsafe.Offsetof(Aggregate{}.Value2),
			"value3": unsafe.Offsetof(Aggregate{}.Value3),
		},
	},
	{
		Type: UnionAggregateType, GoName: "abi.UnionAggregate", CName: "TestStruct1",
		goSize: unsafe.Sizeof(UnionAggregate{}), goAlign: unsafe.Alignof(UnionAggregate{}),
		goOffs: map[string]uintptr{
			"value1": unsafe.Offsetof(UnionAggregate{}.Value1),
			"value2": unsafe.Offsetof(UnionAggregate{}.u),
			"value3": unsafe.Offsetof(UnionAggregate{}.u),
		},
	},
	{
		Type: LeadingUnionAggregateType, GoName: "abi.LeadingUnionAggregate", CName: "TestStruct2",
		goSize: unsafe.Sizeof(LeadingUnionAggregate{}), goAlign: unsafe.Alignof(LeadingUnionAggregate{}),
		goOffs: map[string]uintptr{
			"value1": unsafe.Offsetof(LeadingUnionAggregate{}.u),
			"value2": unsafe.Offsetof(LeadingUnionAggregate{}.u),
			"value3": unsafe.Offsetof(LeadingUnionAggregate{}.Value3),
		},
	},
	{
		Type: DerivedAggregateType, GoName: "abi.DerivedAggregate", CName: "DerivedTestStruct",
		goSize: unsafe.Sizeof(DerivedAggregate{}), goAlign: unsafe.Alignof(DerivedAggregate{}),
		goOffs: map[string]uintptr{
			"base":        unsafe.Offsetof(DerivedAggregate{}.Base),
			"base.value1": unsafe.Offsetof(DerivedAggregate{}.Base) + unsafe.Offsetof(Aggregate{}.Value1),
			"base.value2": unsafe.Offsetof(DerivedAggregate{}.Base) + unsafe.Offsetof(Aggregate{}.Value2),
			"base.value3": unsafe.Offsetof(DerivedAggregate{}.Base) + unsafe.Offsetof(Aggregate{}.Value3),
			"extra":       unsafe.Offsetof(DerivedAggregate{}.Extra),
		},
	},
	{
		Type: ScopedAggregateType, GoName: "abi.ScopedAggregate", CName: "TestNamespace1::TestStruct1",
		goSize: unsafe.Sizeof(ScopedAggregate{}), goAlign: unsafe.Alignof(ScopedAggregate{}),
		goOffs: map[string]uintptr{
			"value": unsafe.Offsetof(ScopedAggregate{}.Value),
		},
	},
	{
		Type: EnumType, GoName: "abi.Enum", CName: "TestEnum",
		goSize: unsafe.Sizeof(Enum(0)), goAlign: unsafe.Alignof(Enum(0)),
	},
	{
		Type: EnumClassType, GoName: "abi.EnumClass", CName: "TestEnumClass",
		goSize: unsafe.Sizeof(EnumClass(0)), goAlign: unsafe.Alignof(EnumClass(0)),
	},
}

// Descriptors returns the descriptor of every value type, in declaration order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

var (
	calcMu sync.Mutex
	calc   = layout.NewCalculator()
)

// LayoutOf computes the C layout of t. Results are cached.
func LayoutOf(t layout.Type) layout.Info {
	calcMu.Lock()
	defer calcMu.Unlock()
	return calc.Calculate(t)
}

// Layout returns the C layout of the descriptor's type.
func (d Descriptor) Layout() layout.Info {
	return LayoutOf(d.Type)
}

// Verify checks that the Go struct layout of every value type matches its C
// layout. A mismatch means the target platform cannot share memory with C
// callers.
func Verify() error {
	for _, d := range descriptors {
		if err := d.verify(); err != nil {
			return err
		}
	}
	return nil
}

func (d Descriptor) verify() error {
	info := d.Layout()
	if uintptr(info.Size) != d.goSize {
		return errors.LayoutMismatch([]string{d.CName}, d.GoName, d.CName,
			fmt.Sprintf("size %d, C size %d", d.goSize, info.Size))
	}
	if uintptr(info.Align) != d.goAlign {
		return errors.LayoutMismatch([]string{d.CName}, d.GoName, d.CName,
			fmt.Sprintf("align %d, C align %d", d.goAlign, info.Align))
	}
	for name, off := range d.goOffs {
		want, ok := info.FieldOffs[name]
		if !ok {
			return errors.LayoutMismatch([]string{d.CName, name}, d.GoName, d.CName, "field missing from C layout")
		}
		if uintptr(want) != off {
			return errors.New(errors.PhaseLayout, errors.KindLayoutMismatch).
				Path(d.CName, name).
				GoType(d.GoName).
				CType(d.CName).
				Value(off).
				Detail("offset %d, C offset %d", off, want).
				Build()
		}
	}
	return nil
}

// Layout returns the C layout of TestClassValue.
func (TrackedValue) Layout() layout.Info { return LayoutOf(TrackedValueType) }

// Layout returns the C layout of TestStruct.
func (Aggregate) Layout() layout.Info { return LayoutOf(AggregateType) }

// Layout returns the C layout of TestStruct1.
func (UnionAggregate) Layout() layout.Info { return LayoutOf(UnionAggregateType) }

// Layout returns the C layout of TestStruct2.
func (LeadingUnionAggregate) Layout() layout.Info { return LayoutOf(LeadingUnionAggregateType) }

// Layout returns the C layout of DerivedTestStruct.
func (DerivedAggregate) Layout() layout.Info { return LayoutOf(DerivedAggregateType) }

// Layout returns the C layout of TestNamespace1::TestStruct1.
func (ScopedAggregate) Layout() layout.Info { return LayoutOf(ScopedAggregateType) }
