package main

import (
	"fmt"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/objexport/abi"
	"github.com/wippyai/objexport/boundary"
	"github.com/wippyai/objexport/wasmhost"
)

// Params that only make sense for wasm guests.
const (
	retptrParam = "retptr"
	fnidxParam  = "fnidx"
)

type funcInfo struct {
	name       string
	resultType string
	params     []paramInfo
}

type paramInfo struct {
	name    string
	witType wit.Type
	typeStr string
}

// callableFuncs lists the host signatures callable in process. Result
// pointers are dropped and a callback index becomes an on/off switch.
func callableFuncs() []funcInfo {
	var funcs []funcInfo
	for _, sig := range wasmhost.Signatures() {
		fi := funcInfo{name: sig.Name}
		for _, p := range sig.Params {
			if p.Name == retptrParam {
				continue
			}
			fi.params = append(fi.params, paramInfo{
				name:    p.Name,
				witType: p.Type,
				typeStr: wasmhost.TypeName(p.Type),
			})
		}
		switch {
		case sig.Writes != nil:
			fi.resultType = *sig.Writes.Name
		case sig.Result != nil:
			fi.resultType = wasmhost.TypeName(sig.Result)
		}
		funcs = append(funcs, fi)
	}
	return funcs
}

func convertArg(value string, t wit.Type) (any, error) {
	value = strings.TrimSpace(value)
	switch t.(type) {
	case wit.U8, wit.U16, wit.U32:
		v, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return nil, err
		}
		return uint32(v), nil
	case wit.S8, wit.S16, wit.S32:
		v, err := strconv.ParseInt(value, 0, 32)
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case wit.S64:
		return strconv.ParseInt(value, 0, 64)
	case wit.U64:
		return strconv.ParseUint(value, 0, 64)
	case wit.F64:
		return strconv.ParseFloat(value, 64)
	case wit.Bool:
		return value == "true" || value == "1", nil
	default:
		return value, nil
	}
}

// invoker calls boundary exports by name with loosely typed arguments.
type invoker struct {
	b *boundary.Boundary
	// onChange receives notifications for callbacks registered through
	// test_class_set_value_change_callback.
	onChange boundary.ValueChangeCallback
}

func (iv *invoker) call(name string, args []any) (string, error) {
	handle := func() (boundary.Handle, error) {
		if len(args) < 1 {
			return 0, fmt.Errorf("%s: missing handle", name)
		}
		h, ok := abi.CoerceToUint32(args[0])
		if !ok {
			return 0, fmt.Errorf("%s: handle %v is not a u32", name, args[0])
		}
		return boundary.Handle(h), nil
	}
	value := func(i int) (int32, error) {
		if len(args) <= i {
			return 0, fmt.Errorf("%s: missing value", name)
		}
		v, ok := abi.CoerceToInt32(args[i])
		if !ok {
			return 0, fmt.Errorf("%s: value %v is not an s32", name, args[i])
		}
		return v, nil
	}

	switch name {
	case boundary.ExportCreate, boundary.ExportCreateDerived:
		v, err := value(0)
		if err != nil {
			return "", err
		}
		if name == boundary.ExportCreate {
			return formatHandle(iv.b.Create(v)), nil
		}
		return formatHandle(iv.b.CreateDerived(v)), nil
	}

	h, err := handle()
	if err != nil {
		return "", err
	}

	switch name {
	case boundary.ExportDestroy:
		return strconv.FormatBool(iv.b.Destroy(h)), nil

	case boundary.ExportSetValueChangeCallback:
		on, ok := uint32(0), true
		if len(args) > 1 {
			on, ok = abi.CoerceToUint32(args[1])
		}
		if !ok {
			return "", fmt.Errorf("%s: %v is not a u32", name, args[1])
		}
		if on == 0 || iv.onChange == nil {
			iv.b.SetValueChangeCallback(h, nil)
			return "callback cleared", nil
		}
		iv.b.SetValueChangeCallback(h, iv.onChange)
		return "callback registered", nil

	case boundary.ExportSetValue:
		v, err := value(1)
		if err != nil {
			return "", err
		}
		iv.b.SetValue(h, v)
		return "ok", nil

	case boundary.ExportSetValueUint:
		if len(args) < 2 {
			return "", fmt.Errorf("%s: missing value", name)
		}
		u, ok := abi.CoerceToUint32(args[1])
		if !ok {
			return "", fmt.Errorf("%s: value %v is not a u32", name, args[1])
		}
		iv.b.SetValueUint(h, u)
		return "ok", nil

	case boundary.ExportGetValue:
		return strconv.Itoa(int(iv.b.GetValue(h))), nil

	case boundary.ExportGetValuePointer:
		p := iv.b.GetValuePointer(h)
		if p == nil {
			return "null", nil
		}
		return formatTrackedValue(*p), nil

	case boundary.ExportAdd, boundary.ExportMultiply, boundary.ExportSubtract, boundary.ExportSubtractLegacy:
		v, err := value(1)
		if err != nil {
			return "", err
		}
		var r int32
		switch name {
		case boundary.ExportAdd:
			r = iv.b.Add(h, v)
		case boundary.ExportMultiply:
			r = iv.b.Multiply(h, v)
		default:
			r = iv.b.Subtract(h, v)
		}
		return strconv.Itoa(int(r)), nil

	case boundary.ExportExportStruct:
		return formatAggregate(iv.b.ExportStruct(h)), nil

	case boundary.ExportExportStructPointer:
		p := iv.b.ExportStructPointer(h)
		if p == nil {
			return "null", nil
		}
		return formatAggregate(*p), nil
	}
	return "", fmt.Errorf("unknown export %q", name)
}

func formatHandle(h boundary.Handle) string {
	if h == 0 {
		return "null"
	}
	return "handle " + strconv.FormatUint(uint64(h), 10)
}

func formatTrackedValue(v abi.TrackedValue) string {
	return fmt.Sprintf("{previous: %d, current: %d}", v.Previous, v.Current)
}

func formatAggregate(a abi.Aggregate) string {
	return fmt.Sprintf("{value1: %d, value2: %d, value3: %g}", a.Value1, a.Value2, a.Value3)
}
