package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalculateScalars(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		typ   Scalar
		size  uint32
		align uint32
	}{
		{Int8, 1, 1},
		{Uint8, 1, 1},
		{Int16, 2, 2},
		{Uint16, 2, 2},
		{Int32, 4, 4},
		{Uint32, 4, 4},
		{Int64, 8, 8},
		{Uint64, 8, 8},
		{Float32, 4, 4},
		{Float64, 8, 8},
	}

	for _, tc := range tests {
		t.Run(tc.typ.Name, func(t *testing.T) {
			info := c.Calculate(tc.typ)
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
		})
	}
}

func TestCalculateRecord(t *testing.T) {
	c := NewCalculator()

	t.Run("empty", func(t *testing.T) {
		info := c.Calculate(&Record{Name: "empty"})
		if info.Size != 0 {
			t.Errorf("size: got %d, want 0", info.Size)
		}
		if info.Align != 1 {
			t.Errorf("align: got %d, want 1", info.Align)
		}
	})

	t.Run("int_longlong_double", func(t *testing.T) {
		info := c.Calculate(&Record{
			Name: "TestStruct",
			Fields: []Field{
				{Name: "value1", Type: Int32},
				{Name: "value2", Type: Int64},
				{Name: "value3", Type: Float64},
			},
		})

		want := map[string]uint32{"value1": 0, "value2": 8, "value3": 16}
		if diff := cmp.Diff(want, info.FieldOffs); diff != "" {
			t.Errorf("field offsets mismatch (-want +got):\n%s", diff)
		}
		if info.Size != 24 {
			t.Errorf("size: got %d, want 24", info.Size)
		}
		if info.Align != 8 {
			t.Errorf("align: got %d, want 8", info.Align)
		}
	})

	t.Run("mixed_alignment", func(t *testing.T) {
		info := c.Calculate(&Record{
			Fields: []Field{
				{Name: "a", Type: Uint8},
				{Name: "b", Type: Uint32},
				{Name: "c", Type: Uint8},
			},
		})

		want := map[string]uint32{"a": 0, "b": 4, "c": 8}
		if diff := cmp.Diff(want, info.FieldOffs); diff != "" {
			t.Errorf("field offsets mismatch (-want +got):\n%s", diff)
		}
		if info.Size != 12 {
			t.Errorf("size: got %d, want 12", info.Size)
		}
	})
}

func TestCalculateUnion(t *testing.T) {
	c := NewCalculator()

	t.Run("empty", func(t *testing.T) {
		info := c.Calculate(&Union{})
		if info.Size != 0 {
			t.Errorf("size: got %d, want 0", info.Size)
		}
	})

	t.Run("longlong_double", func(t *testing.T) {
		info := c.Calculate(&Union{Members: []Field{
			{Name: "value2", Type: Int64},
			{Name: "value3", Type: Float64},
		}})
		if info.Size != 8 || info.Align != 8 {
			t.Errorf("size/align: got %d/%d, want 8/8", info.Size, info.Align)
		}
		if info.FieldOffs["value2"] != 0 || info.FieldOffs["value3"] != 0 {
			t.Errorf("members must overlap at 0, got %v", info.FieldOffs)
		}
	})

	t.Run("padded_to_alignment", func(t *testing.T) {
		info := c.Calculate(&Union{Members: []Field{
			{Name: "bytes", Type: &Record{Fields: []Field{
				{Name: "a", Type: Uint8},
				{Name: "b", Type: Uint8},
				{Name: "c", Type: Uint8},
				{Name: "d", Type: Uint8},
				{Name: "e", Type: Uint8},
			}}},
			{Name: "word", Type: Uint32},
		}})
		if info.Size != 8 {
			t.Errorf("size: got %d, want 8", info.Size)
		}
		if info.Align != 4 {
			t.Errorf("align: got %d, want 4", info.Align)
		}
	})
}

func TestAnonymousUnionInRecord(t *testing.T) {
	c := NewCalculator()

	t.Run("trailing_union", func(t *testing.T) {
		info := c.Calculate(&Record{
			Name: "TestStruct1",
			Fields: []Field{
				{Name: "value1", Type: Int32},
				{Type: &Union{Members: []Field{
					{Name: "value2", Type: Int64},
					{Name: "value3", Type: Float64},
				}}},
			},
		})

		want := map[string]uint32{"value1": 0, "value2": 8, "value3": 8}
		if diff := cmp.Diff(want, info.FieldOffs); diff != "" {
			t.Errorf("field offsets mismatch (-want +got):\n%s", diff)
		}
		if info.Size != 16 {
			t.Errorf("size: got %d, want 16", info.Size)
		}
	})

	t.Run("leading_union", func(t *testing.T) {
		info := c.Calculate(&Record{
			Name: "TestStruct2",
			Fields: []Field{
				{Type: &Union{Members: []Field{
					{Name: "value1", Type: Int32},
					{Name: "value2", Type: Int64},
				}}},
				{Name: "value3", Type: Float64},
			},
		})

		want := map[string]uint32{"value1": 0, "value2": 0, "value3": 8}
		if diff := cmp.Diff(want, info.FieldOffs); diff != "" {
			t.Errorf("field offsets mismatch (-want +got):\n%s", diff)
		}
		if info.Size != 16 {
			t.Errorf("size: got %d, want 16", info.Size)
		}
	})

	t.Run("named_union_keeps_prefix", func(t *testing.T) {
		info := c.Calculate(&Record{
			Fields: []Field{
				{Name: "tag", Type: Uint8},
				{Name: "u", Type: &Union{Members: []Field{
					{Name: "i", Type: Int32},
					{Name: "f", Type: Float32},
				}}},
			},
		})
		want := map[string]uint32{"tag": 0, "u": 4, "u.i": 4, "u.f": 4}
		if diff := cmp.Diff(want, info.FieldOffs); diff != "" {
			t.Errorf("field offsets mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestNestedRecordPrefix(t *testing.T) {
	c := NewCalculator()

	base := &Record{
		Name: "TestStruct",
		Fields: []Field{
			{Name: "value1", Type: Int32},
			{Name: "value2", Type: Int64},
			{Name: "value3", Type: Float64},
		},
	}
	derived := &Record{
		Name: "DerivedStruct",
		Fields: []Field{
			{Name: "base", Type: base},
			{Name: "extra", Type: Int32},
		},
	}

	info := c.Calculate(derived)

	want := map[string]uint32{
		"base":        0,
		"base.value1": 0,
		"base.value2": 8,
		"base.value3": 16,
		"extra":       24,
	}
	if diff := cmp.Diff(want, info.FieldOffs); diff != "" {
		t.Errorf("field offsets mismatch (-want +got):\n%s", diff)
	}
	if info.Size != 32 {
		t.Errorf("size: got %d, want 32", info.Size)
	}
	if info.Align != 8 {
		t.Errorf("align: got %d, want 8", info.Align)
	}
}

func TestCalculateEnum(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		enum      *Enum
		name      string
		wantSize  uint32
		wantAlign uint32
	}{
		{&Enum{Name: "TestEnum", Repr: Uint16, Cases: []string{"a", "b", "c"}}, "unsigned_short", 2, 2},
		{&Enum{Name: "TestEnumClass", Repr: Int32, Cases: []string{"a", "b", "c"}}, "int", 4, 4},
		{&Enum{Name: "Tiny", Repr: Uint8}, "uint8", 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := c.Calculate(tc.enum)
			if info.Size != tc.wantSize {
				t.Errorf("size: got %d, want %d", info.Size, tc.wantSize)
			}
			if info.Align != tc.wantAlign {
				t.Errorf("align: got %d, want %d", info.Align, tc.wantAlign)
			}
		})
	}
}

func TestCaching(t *testing.T) {
	c := NewCalculator()

	record := &Record{Fields: []Field{{Name: "x", Type: Uint32}}}

	info1 := c.Calculate(record)
	info2 := c.Calculate(record)

	if info1.Size != info2.Size {
		t.Error("cached results should be identical")
	}
	if _, ok := c.cache[record]; !ok {
		t.Error("record layout should be cached")
	}
}

func TestAlignTo(t *testing.T) {
	tests := []struct {
		offset, align, want uint32
	}{
		{0, 8, 0},
		{1, 8, 8},
		{4, 8, 8},
		{8, 8, 8},
		{9, 4, 12},
		{5, 0, 5},
	}
	for _, tc := range tests {
		if got := AlignTo(tc.offset, tc.align); got != tc.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", tc.offset, tc.align, got, tc.want)
		}
	}
}

func TestDiscriminantSize(t *testing.T) {
	tests := []struct {
		cases int
		want  uint32
	}{
		{1, 1},
		{256, 1},
		{257, 2},
		{65536, 2},
		{65537, 4},
	}
	for _, tc := range tests {
		if got := DiscriminantSize(tc.cases); got != tc.want {
			t.Errorf("DiscriminantSize(%d) = %d, want %d", tc.cases, got, tc.want)
		}
	}
}
