package layout

// Type describes the C shape of a value crossing the boundary.
type Type interface {
	layoutType()
}

// Scalar is a fixed-size primitive.
type Scalar struct {
	Name  string
	Size  uint32
	Align uint32
}

var (
	Int8    = Scalar{Name: "int8_t", Size: 1, Align: 1}
	Uint8   = Scalar{Name: "uint8_t", Size: 1, Align: 1}
	Int16   = Scalar{Name: "int16_t", Size: 2, Align: 2}
	Uint16  = Scalar{Name: "uint16_t", Size: 2, Align: 2}
	Int32   = Scalar{Name: "int32_t", Size: 4, Align: 4}
	Uint32  = Scalar{Name: "uint32_t", Size: 4, Align: 4}
	Int64   = Scalar{Name: "int64_t", Size: 8, Align: 8}
	Uint64  = Scalar{Name: "uint64_t", Size: 8, Align: 8}
	Float32 = Scalar{Name: "float", Size: 4, Align: 4}
	Float64 = Scalar{Name: "double", Size: 8, Align: 8}
)

// Field is a named member of a Record or Union.
type Field struct {
	Type Type
	Name string
}

// Record is a struct with sequentially laid out fields.
type Record struct {
	Name   string
	Fields []Field
}

// Union overlays all members at offset 0. A Union with an empty Name is
// anonymous when used as a record field.
type Union struct {
	Name    string
	Members []Field
}

// Enum is a named integer with an explicit underlying type.
type Enum struct {
	Name  string
	Repr  Scalar
	Cases []string
}

func (Scalar) layoutType()  {}
func (*Record) layoutType() {}
func (*Union) layoutType()  {}
func (*Enum) layoutType()   {}

// Info is the computed layout of a Type.
type Info struct {
	FieldOffs map[string]uint32
	Size      uint32
	Align     uint32
}

// AlignTo rounds offset up to the next multiple of align.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
