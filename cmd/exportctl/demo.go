package main

import (
	"fmt"
	"io"

	"github.com/wippyai/objexport/boundary"
)

// runDemo replays the reference client session: a base object with a
// callback that checks post-commit visibility, then the same steps on a
// derived object.
func runDemo(w io.Writer, b *boundary.Boundary) error {
	for _, derived := range []bool{false, true} {
		if err := demoSession(w, b, derived); err != nil {
			return err
		}
	}
	return nil
}

func demoSession(w io.Writer, b *boundary.Boundary, derived bool) error {
	var h boundary.Handle
	if derived {
		fmt.Fprintln(w, "# derived object")
		h = b.CreateDerived(3)
	} else {
		fmt.Fprintln(w, "# base object")
		h = b.Create(3)
	}
	if h == 0 {
		return fmt.Errorf("create: boundary closed")
	}
	defer b.Destroy(h)

	var callbackErr error
	b.SetValueChangeCallback(h, func(h boundary.Handle, v int32) {
		got := b.GetValue(h)
		if got != v {
			callbackErr = fmt.Errorf("callback saw value %d, notified %d", got, v)
			return
		}
		fmt.Fprintf(w, "callback: get_value(instance) == %d\n", v)
	})

	fmt.Fprintf(w, "add(1) = %d\n", b.Add(h, 1))
	b.SetValue(h, b.GetValue(h)+1)
	if callbackErr != nil {
		return callbackErr
	}
	fmt.Fprintf(w, "multiply(4) = %d\n", b.Multiply(h, 4))

	r := b.Subtract(h, 4)
	if r == boundary.Invalid {
		fmt.Fprintf(w, "subtract(4) = %d (not a derived object)\n", r)
	} else {
		fmt.Fprintf(w, "subtract(4) = %d\n", r)
	}

	if p := b.GetValuePointer(h); p != nil {
		fmt.Fprintf(w, "value = %s\n", formatTrackedValue(*p))
	}
	fmt.Fprintf(w, "export_struct = %s\n", formatAggregate(b.ExportStruct(h)))
	if p := b.ExportStructPointer(h); p != nil {
		fmt.Fprintf(w, "export_struct_pointer = %s\n", formatAggregate(*p))
	} else {
		fmt.Fprintln(w, "export_struct_pointer = null")
	}
	return nil
}
