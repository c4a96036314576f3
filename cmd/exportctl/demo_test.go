package main

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/wippyai/objexport/boundary"
)

func TestRunDemo(t *testing.T) {
	b := boundary.New(boundary.WithLogger(zaptest.NewLogger(t)))
	defer b.Close()

	var out bytes.Buffer
	if err := runDemo(&out, b); err != nil {
		t.Fatalf("runDemo: %v", err)
	}

	want := `# base object
add(1) = 4
callback: get_value(instance) == 4
multiply(4) = 16
subtract(4) = -2147483648 (not a derived object)
value = {previous: 3, current: 4}
export_struct = {value1: 1, value2: 2, value3: 3}
export_struct_pointer = null
# derived object
add(1) = 4
callback: get_value(instance) == 4
multiply(4) = 16
subtract(4) = 0
value = {previous: 3, current: 4}
export_struct = {value1: 1, value2: 2, value3: 3}
export_struct_pointer = {value1: 1, value2: 2, value3: 3}
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("demo output mismatch (-want +got):\n%s", diff)
	}
	if got := b.Len(); got != 0 {
		t.Errorf("demo leaked %d objects", got)
	}
}

func TestRunDemoClosedBoundary(t *testing.T) {
	b := boundary.New()
	_ = b.Close()

	var out bytes.Buffer
	if err := runDemo(&out, b); err == nil {
		t.Error("expected error on a closed boundary")
	}
}
