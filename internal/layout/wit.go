package layout

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/objexport/errors"
)

// FromWIT converts a WIT primitive, record or enum into a layout Type.
// Records map to C structs with the same field order; enums map to the
// smallest unsigned integer holding their discriminant.
func FromWIT(t wit.Type) (Type, error) {
	switch t.(type) {
	case wit.U8, wit.Bool:
		return Uint8, nil
	case wit.S8:
		return Int8, nil
	case wit.U16:
		return Uint16, nil
	case wit.S16:
		return Int16, nil
	case wit.U32, wit.Char:
		return Uint32, nil
	case wit.S32:
		return Int32, nil
	case wit.F32:
		return Float32, nil
	case wit.U64:
		return Uint64, nil
	case wit.S64:
		return Int64, nil
	case wit.F64:
		return Float64, nil
	case *wit.TypeDef:
		return fromTypeDef(t.(*wit.TypeDef))
	}
	return nil, errors.Unsupported(errors.PhaseLayout, fmt.Sprintf("WIT type %T has no C layout", t))
}

func fromTypeDef(td *wit.TypeDef) (Type, error) {
	name := ""
	if td.Name != nil {
		name = *td.Name
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		r := &Record{Name: name}
		for _, f := range kind.Fields {
			ft, err := FromWIT(f.Type)
			if err != nil {
				return nil, errors.New(errors.PhaseLayout, errors.KindUnsupported).
					Path(name, f.Name).
					Cause(err).
					Build()
			}
			r.Fields = append(r.Fields, Field{Name: f.Name, Type: ft})
		}
		return r, nil
	case *wit.Enum:
		size := DiscriminantSize(len(kind.Cases))
		e := &Enum{
			Name: name,
			Repr: Scalar{Name: fmt.Sprintf("uint%d_t", size*8), Size: size, Align: size},
		}
		for _, c := range kind.Cases {
			e.Cases = append(e.Cases, c.Name)
		}
		return e, nil
	case wit.Type:
		return FromWIT(kind)
	default:
		return nil, errors.Unsupported(errors.PhaseLayout, fmt.Sprintf("WIT type definition %q (%T) has no C layout", name, td.Kind))
	}
}
