package object

import (
	"strconv"

	"github.com/wippyai/objexport/abi"
)

// Kind tags the variant of an Object.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBase
	KindDerived
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBase:
		return "base"
	case KindDerived:
		return "derived"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ValueChangeFunc observes a committed value change.
type ValueChangeFunc func(o *Object, newValue int32)

// Object is an exported object with a two-generation value history.
//
// The history and the derived snapshot live in their own pointer-free
// allocations so their addresses can be handed to C.
type Object struct {
	onChange ValueChangeFunc
	derived  *derivedPayload
	value    *abi.TrackedValue
	kind     Kind
}

type derivedPayload struct {
	snapshot abi.Aggregate
}

// exported is the fixed content of ExportStruct.
var exported = abi.NewAggregate(1, 2, 3)

// New creates a base object holding v.
func New(v int32) *Object {
	tv := abi.NewTrackedValue(v)
	return &Object{
		value: &tv,
		kind:  KindBase,
	}
}

// NewDerived creates a derived object holding v.
func NewDerived(v int32) *Object {
	tv := abi.NewTrackedValue(v)
	return &Object{
		value:   &tv,
		kind:    KindDerived,
		derived: &derivedPayload{snapshot: exported},
	}
}

// Kind returns the variant tag.
func (o *Object) Kind() Kind {
	return o.kind
}

// SetValue commits v and then invokes the callback, if any, exactly once.
func (o *Object) SetValue(v int32) {
	o.value.Set(v)
	if fn := o.onChange; fn != nil {
		fn(o, v)
	}
}

// SetValueUint stores the bit pattern of u as a signed value.
func (o *Object) SetValueUint(u uint32) {
	o.SetValue(int32(u))
}

// Value returns the current value.
func (o *Object) Value() int32 {
	return o.value.Current
}

// ValuePointer returns a live view of the value history. It reflects later
// SetValue calls and must not be used after the object is released.
func (o *Object) ValuePointer() *abi.TrackedValue {
	return o.value
}

// Add returns Value()+v with int32 wraparound.
func (o *Object) Add(v int32) int32 {
	return o.value.Current + v
}

// Multiply returns Value()*v with int32 wraparound.
func (o *Object) Multiply(v int32) int32 {
	return o.value.Current * v
}

// ExportStruct returns a fresh {1, 2, 3} aggregate.
func (o *Object) ExportStruct() abi.Aggregate {
	return exported
}

// ExportStructPointer returns an aggregate owned by the object, or nil when
// the object has none. Only derived objects own one. The pointee is reset to
// {1, 2, 3} on every call and stays valid until the object is released.
func (o *Object) ExportStructPointer() *abi.Aggregate {
	if o.derived == nil {
		return nil
	}
	o.derived.snapshot = exported
	return &o.derived.snapshot
}

// SetValueChangeCallback replaces the callback. A nil fn clears it.
func (o *Object) SetValueChangeCallback(fn ValueChangeFunc) {
	o.onChange = fn
}

// AsDerived returns the derived view of o when its tag is KindDerived.
func (o *Object) AsDerived() (Derived, bool) {
	if o == nil || o.kind != KindDerived {
		return Derived{}, false
	}
	return Derived{o}, true
}

// Drop releases the callback so the object no longer retains it.
func (o *Object) Drop() {
	o.onChange = nil
}

// Derived is the view of an Object tagged KindDerived.
type Derived struct {
	*Object
}

// Subtract returns Value()-v with int32 wraparound.
func (d Derived) Subtract(v int32) int32 {
	return d.Value() - v
}
