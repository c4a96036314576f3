// Package object implements the exported object model.
//
// An Object is a tagged variant. Every object carries a TrackedValue and an
// optional value-change callback. Objects created with NewDerived carry the
// KindDerived tag and a payload that backs ExportStructPointer; AsDerived
// checks the tag and exposes the derived-only methods.
//
//	o := object.NewDerived(10)
//	o.SetValueChangeCallback(func(o *object.Object, v int32) {
//	    fmt.Println("changed to", v, o.Value())
//	})
//	o.SetValue(12)
//	if d, ok := o.AsDerived(); ok {
//	    d.Subtract(2) // 10
//	}
//
// Objects have no internal locking. A callback that calls SetValue on the
// object that invoked it recurses without bound.
package object
