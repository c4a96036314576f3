package boundary

import (
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/objexport/abi"
	"github.com/wippyai/objexport/object"
	"github.com/wippyai/objexport/resource"
)

// Handle is an opaque reference to an exported object. 0 is null.
type Handle = resource.Handle

// Invalid is returned by Subtract for a null handle or a base object.
const Invalid int32 = math.MinInt32

// Type IDs the handle table records for each object kind.
const (
	TypeBase    = uint32(object.KindBase)
	TypeDerived = uint32(object.KindDerived)
)

// ValueChangeCallback receives the handle whose value changed and the new value.
type ValueChangeCallback func(h Handle, newValue int32)

// Boundary owns a handle table of exported objects.
type Boundary struct {
	table resource.Table
	log   *zap.Logger
}

// Option configures a Boundary.
type Option func(*Boundary)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Boundary) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates an empty Boundary.
func New(opts ...Option) *Boundary {
	b := &Boundary{
		table: resource.NewTable(),
		log:   Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With(zap.String("component", "boundary"))
	return b
}

// Subscribe registers an observer for handle creation and release.
func (b *Boundary) Subscribe(o resource.Observer) {
	b.table.Subscribe(o)
}

// Unsubscribe removes an observer.
func (b *Boundary) Unsubscribe(o resource.Observer) {
	b.table.Unsubscribe(o)
}

// Create returns a handle to a new base object holding v.
// It returns 0 once the boundary is closed.
func (b *Boundary) Create(v int32) (h Handle) {
	defer b.guard(ExportCreate, 0)
	return b.insert(object.New(v))
}

// CreateDerived returns a handle to a new derived object holding v.
// It returns 0 once the boundary is closed.
func (b *Boundary) CreateDerived(v int32) (h Handle) {
	defer b.guard(ExportCreateDerived, 0)
	return b.insert(object.NewDerived(v))
}

func (b *Boundary) insert(o *object.Object) Handle {
	typeID := TypeBase
	if o.Kind() == object.KindDerived {
		typeID = TypeDerived
	}
	h := b.table.Insert(typeID, o)
	if h == 0 {
		b.log.Debug("create rejected, boundary closed", zap.Stringer("kind", o.Kind()))
		return 0
	}
	b.log.Debug("object created",
		zap.Uint32("handle", uint32(h)),
		zap.Stringer("kind", o.Kind()),
		zap.Int32("value", o.Value()))
	return h
}

// Destroy releases h. It reports whether h referred to a live object.
func (b *Boundary) Destroy(h Handle) (ok bool) {
	defer b.guard(ExportDestroy, h)
	if _, ok = b.table.Remove(h); ok {
		b.log.Debug("object destroyed", zap.Uint32("handle", uint32(h)))
	}
	return ok
}

// SetValueChangeCallback replaces the callback of h. A nil cb clears it.
func (b *Boundary) SetValueChangeCallback(h Handle, cb ValueChangeCallback) {
	defer b.guard(ExportSetValueChangeCallback, h)
	o, ok := b.lookup(h)
	if !ok {
		return
	}
	if cb == nil {
		o.SetValueChangeCallback(nil)
		return
	}
	o.SetValueChangeCallback(func(_ *object.Object, v int32) {
		cb(h, v)
	})
}

// SetValue stores v in h and then invokes its callback.
func (b *Boundary) SetValue(h Handle, v int32) {
	defer b.guard(ExportSetValue, h)
	if o, ok := b.lookup(h); ok {
		o.SetValue(v)
	}
}

// SetValueUint stores the bit pattern of u in h as a signed value.
func (b *Boundary) SetValueUint(h Handle, u uint32) {
	defer b.guard(ExportSetValueUint, h)
	if o, ok := b.lookup(h); ok {
		o.SetValueUint(u)
	}
}

// GetValue returns the current value of h, or 0.
func (b *Boundary) GetValue(h Handle) (v int32) {
	defer b.guard(ExportGetValue, h)
	if o, ok := b.lookup(h); ok {
		return o.Value()
	}
	return 0
}

// GetValuePointer returns a live view of the value history of h, or nil.
// The pointee is owned by the object and is invalid after Destroy.
func (b *Boundary) GetValuePointer(h Handle) (p *abi.TrackedValue) {
	defer b.guard(ExportGetValuePointer, h)
	if o, ok := b.lookup(h); ok {
		return o.ValuePointer()
	}
	return nil
}

// Add returns GetValue(h)+v, or 0.
func (b *Boundary) Add(h Handle, v int32) (r int32) {
	defer b.guard(ExportAdd, h)
	if o, ok := b.lookup(h); ok {
		return o.Add(v)
	}
	return 0
}

// Multiply returns GetValue(h)*v, or 0.
func (b *Boundary) Multiply(h Handle, v int32) (r int32) {
	defer b.guard(ExportMultiply, h)
	if o, ok := b.lookup(h); ok {
		return o.Multiply(v)
	}
	return 0
}

// ExportStruct returns {1, 2, 3} by value, or the zero Aggregate.
func (b *Boundary) ExportStruct(h Handle) (a abi.Aggregate) {
	defer b.guard(ExportExportStruct, h)
	if o, ok := b.lookup(h); ok {
		return o.ExportStruct()
	}
	return abi.Aggregate{}
}

// ExportStructPointer returns the aggregate owned by h, or nil. Base objects
// own none.
func (b *Boundary) ExportStructPointer(h Handle) (p *abi.Aggregate) {
	defer b.guard(ExportExportStructPointer, h)
	if o, ok := b.lookup(h); ok {
		return o.ExportStructPointer()
	}
	return nil
}

// Subtract returns GetValue(h)-v when h is a derived object, or Invalid.
func (b *Boundary) Subtract(h Handle, v int32) (r int32) {
	r = Invalid
	defer b.guard(ExportSubtract, h)
	d, ok := b.derived(h)
	if !ok {
		return Invalid
	}
	return d.Subtract(v)
}

// Kind returns the kind of h, or object.KindInvalid.
func (b *Boundary) Kind(h Handle) (k object.Kind) {
	defer b.guard("kind", h)
	switch id, _ := b.table.TypeID(h); id {
	case TypeBase:
		return object.KindBase
	case TypeDerived:
		return object.KindDerived
	}
	return object.KindInvalid
}

// Len returns the number of live handles.
func (b *Boundary) Len() int {
	return b.table.Len()
}

// Close releases every handle. Later creates return 0.
func (b *Boundary) Close() error {
	n := b.table.Len()
	if err := b.table.Close(); err != nil {
		return err
	}
	b.log.Debug("boundary closed", zap.Int("released", n))
	return nil
}

func (b *Boundary) lookup(h Handle) (*object.Object, bool) {
	v, ok := b.table.Get(h)
	if !ok {
		return nil, false
	}
	o, ok := v.(*object.Object)
	return o, ok
}

// derived resolves h only if it was inserted as a derived object, then
// checks the object's own tag.
func (b *Boundary) derived(h Handle) (object.Derived, bool) {
	v, ok := b.table.GetTyped(h, TypeDerived)
	if !ok {
		if id, live := b.table.TypeID(h); live {
			b.log.Debug("downcast failed",
				zap.Uint32("handle", uint32(h)),
				zap.Uint32("type", id))
		}
		return object.Derived{}, false
	}
	o, ok := v.(*object.Object)
	if !ok {
		return object.Derived{}, false
	}
	return o.AsDerived()
}

// guard recovers a panic raised inside an export so that the export returns
// its default instead of unwinding into the caller.
func (b *Boundary) guard(op string, h Handle) {
	if r := recover(); r != nil {
		b.log.Error("recovered panic at export boundary",
			zap.String("export", op),
			zap.Uint32("handle", uint32(h)),
			zap.Any("panic", r))
	}
}
