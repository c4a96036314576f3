package wasmhost

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/objexport/abi"
	"github.com/wippyai/objexport/boundary"
	"github.com/wippyai/objexport/errors"
	"github.com/wippyai/objexport/internal/layout"
)

// Param is a named host function parameter.
type Param struct {
	Type wit.Type
	Name string
}

// Signature describes a host function.
type Signature struct {
	// Writes is the record stored at retptr, if any.
	Writes  *wit.TypeDef
	Result  wit.Type
	Name    string
	Params  []Param
	Derived bool
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(TypeName(p.Type))
	}
	b.WriteByte(')')
	if s.Result != nil {
		b.WriteString(" -> ")
		b.WriteString(TypeName(s.Result))
	}
	if s.Writes != nil {
		b.WriteString(" writes ")
		b.WriteString(TypeName(s.Writes))
	}
	return b.String()
}

// ParamNames returns the parameter names in order.
func (s Signature) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

func ptr(s string) *string { return &s }

// TrackedValueRecord is the WIT declaration of the value history written by
// test_class_get_value_pointer.
var TrackedValueRecord = &wit.TypeDef{
	Name: ptr("tracked-value"),
	Kind: &wit.Record{Fields: []wit.Field{
		{Name: "previous-value", Type: wit.S32{}},
		{Name: "current-value", Type: wit.S32{}},
	}},
}

// AggregateRecord is the WIT declaration of the aggregate written by
// test_class_export_struct and test_class_export_struct_pointer.
var AggregateRecord = &wit.TypeDef{
	Name: ptr("aggregate"),
	Kind: &wit.Record{Fields: []wit.Field{
		{Name: "value1", Type: wit.S32{}},
		{Name: "value2", Type: wit.S64{}},
		{Name: "value3", Type: wit.F64{}},
	}},
}

var (
	handleParam = Param{Name: "handle", Type: wit.U32{}}
	valueParam  = Param{Name: "value", Type: wit.S32{}}
	retptrParam = Param{Name: "retptr", Type: wit.U32{}}
)

var signatures = []Signature{
	{Name: boundary.ExportCreate, Params: []Param{valueParam}, Result: wit.U32{}},
	{Name: boundary.ExportCreateDerived, Params: []Param{valueParam}, Result: wit.U32{}},
	{Name: boundary.ExportDestroy, Params: []Param{handleParam}, Result: wit.Bool{}},
	{Name: boundary.ExportSetValueChangeCallback, Params: []Param{handleParam, {Name: "fnidx", Type: wit.U32{}}}},
	{Name: boundary.ExportSetValue, Params: []Param{handleParam, valueParam}},
	{Name: boundary.ExportSetValueUint, Params: []Param{handleParam, {Name: "value", Type: wit.U32{}}}},
	{Name: boundary.ExportGetValue, Params: []Param{handleParam}, Result: wit.S32{}},
	{Name: boundary.ExportGetValuePointer, Params: []Param{handleParam, retptrParam}, Result: wit.Bool{}, Writes: TrackedValueRecord},
	{Name: boundary.ExportAdd, Params: []Param{handleParam, valueParam}, Result: wit.S32{}},
	{Name: boundary.ExportMultiply, Params: []Param{handleParam, valueParam}, Result: wit.S32{}},
	{Name: boundary.ExportExportStruct, Params: []Param{handleParam, retptrParam}, Writes: AggregateRecord},
	{Name: boundary.ExportExportStructPointer, Params: []Param{handleParam, retptrParam}, Result: wit.Bool{}, Writes: AggregateRecord},
	{Name: boundary.ExportSubtract, Params: []Param{handleParam, valueParam}, Result: wit.S32{}, Derived: true},
	{Name: boundary.ExportSubtractLegacy, Params: []Param{handleParam, valueParam}, Result: wit.S32{}, Derived: true},
}

// Signatures returns every host function, including the legacy subtract alias.
func Signatures() []Signature {
	out := make([]Signature, len(signatures))
	copy(out, signatures)
	return out
}

func signature(name string) Signature {
	for _, s := range signatures {
		if s.Name == name {
			return s
		}
	}
	return Signature{Name: name}
}

// TypeName renders a WIT type the way it is written in WIT.
func TypeName(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// CheckRecord verifies that a WIT record lays out like the C record, field
// by field in declaration order.
func CheckRecord(def *wit.TypeDef, c *layout.Record) error {
	typ, err := layout.FromWIT(def)
	if err != nil {
		return err
	}
	rec, ok := typ.(*layout.Record)
	if !ok {
		return errors.Unsupported(errors.PhaseLayout, fmt.Sprintf("%s is not a record", TypeName(def)))
	}

	witName := TypeName(def)
	if len(rec.Fields) != len(c.Fields) {
		return errors.LayoutMismatch([]string{witName}, witName, c.Name,
			fmt.Sprintf("%d fields, C record has %d", len(rec.Fields), len(c.Fields)))
	}

	w, cl := abi.LayoutOf(rec), abi.LayoutOf(c)
	if w.Size != cl.Size || w.Align != cl.Align {
		return errors.LayoutMismatch([]string{witName}, witName, c.Name,
			fmt.Sprintf("size %d align %d, C size %d align %d", w.Size, w.Align, cl.Size, cl.Align))
	}
	for i, f := range rec.Fields {
		cf := c.Fields[i]
		if ws, cs := abi.LayoutOf(f.Type).Size, abi.LayoutOf(cf.Type).Size; ws != cs {
			return errors.LayoutMismatch([]string{witName, f.Name}, witName, c.Name,
				fmt.Sprintf("size %d, C field %s has size %d", ws, cf.Name, cs))
		}
		if w.FieldOffs[f.Name] != cl.FieldOffs[cf.Name] {
			return errors.LayoutMismatch([]string{witName, f.Name}, witName, c.Name,
				fmt.Sprintf("offset %d, C field %s at %d", w.FieldOffs[f.Name], cf.Name, cl.FieldOffs[cf.Name]))
		}
	}
	return nil
}

func checkRecords() error {
	if err := CheckRecord(TrackedValueRecord, abi.TrackedValueType); err != nil {
		return err
	}
	return CheckRecord(AggregateRecord, abi.AggregateType)
}
