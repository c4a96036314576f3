package boundary

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/objexport/abi"
	"github.com/wippyai/objexport/object"
	"github.com/wippyai/objexport/resource"
)

func newTestBoundary(t *testing.T) *Boundary {
	t.Helper()
	b := New(WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestCreateAndGetValue(t *testing.T) {
	b := newTestBoundary(t)

	for _, create := range []func(int32) Handle{b.Create, b.CreateDerived} {
		h := create(3)
		if h == 0 {
			t.Fatal("create returned the null handle")
		}
		if got := b.GetValue(h); got != 3 {
			t.Errorf("GetValue: got %d, want 3", got)
		}
		p := b.GetValuePointer(h)
		if p == nil {
			t.Fatal("GetValuePointer returned nil for a live handle")
		}
		if p.Previous != math.MinInt32 {
			t.Errorf("Previous: got %d, want %d", p.Previous, int32(math.MinInt32))
		}
	}
}

func TestSetValueHistory(t *testing.T) {
	b := newTestBoundary(t)
	h := b.Create(0)

	b.SetValue(h, 10)
	b.SetValue(h, 20)

	want := abi.TrackedValue{Previous: 10, Current: 20}
	if diff := cmp.Diff(want, *b.GetValuePointer(h)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValueUintMatchesSetValue(t *testing.T) {
	b := newTestBoundary(t)

	for _, u := range []uint32{0, 1, math.MaxInt32, 1 << 31, math.MaxUint32} {
		h1, h2 := b.Create(5), b.Create(5)
		b.SetValueUint(h1, u)
		b.SetValue(h2, int32(u))
		if diff := cmp.Diff(*b.GetValuePointer(h2), *b.GetValuePointer(h1)); diff != "" {
			t.Errorf("SetValueUint(%d) mismatch (-want +got):\n%s", u, diff)
		}
	}
}

func TestCallbackAfterCommit(t *testing.T) {
	b := newTestBoundary(t)
	h := b.Create(3)

	type call struct {
		H       Handle
		Value   int32
		Visible int32
	}
	var calls []call
	b.SetValueChangeCallback(h, func(ch Handle, v int32) {
		calls = append(calls, call{H: ch, Value: v, Visible: b.GetValue(ch)})
	})

	b.SetValue(h, 4)
	b.SetValueUint(h, 9)

	want := []call{
		{H: h, Value: 4, Visible: 4},
		{H: h, Value: 9, Visible: 9},
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("callback calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCallbackReplaceAndClear(t *testing.T) {
	b := newTestBoundary(t)
	h := b.Create(0)

	var first, second int
	b.SetValueChangeCallback(h, func(Handle, int32) { first++ })
	b.SetValueChangeCallback(h, func(Handle, int32) { second++ })
	b.SetValue(h, 1)
	b.SetValueChangeCallback(h, nil)
	b.SetValue(h, 2)

	if first != 0 || second != 1 {
		t.Fatalf("got first=%d second=%d, want 0 and 1", first, second)
	}
}

func TestCallbackIsPerHandle(t *testing.T) {
	b := newTestBoundary(t)
	h1, h2 := b.Create(0), b.Create(0)

	var got []Handle
	b.SetValueChangeCallback(h1, func(h Handle, _ int32) { got = append(got, h) })
	b.SetValue(h2, 5)
	b.SetValue(h1, 5)

	if diff := cmp.Diff([]Handle{h1}, got); diff != "" {
		t.Errorf("callback handles mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmeticIsPure(t *testing.T) {
	b := newTestBoundary(t)
	h := b.Create(6)

	if got := b.Add(h, 1); got != 7 {
		t.Errorf("Add: got %d, want 7", got)
	}
	if got := b.Multiply(h, 4); got != 24 {
		t.Errorf("Multiply: got %d, want 24", got)
	}
	if got := *b.GetValuePointer(h); got != abi.NewTrackedValue(6) {
		t.Errorf("arithmetic changed state: %+v", got)
	}
}

func TestSubtract(t *testing.T) {
	b := newTestBoundary(t)

	d := b.CreateDerived(10)
	if got := b.Subtract(d, 4); got != 6 {
		t.Errorf("derived: got %d, want 6", got)
	}
	b.SetValue(d, 1)
	if got := b.Subtract(d, 4); got != -3 {
		t.Errorf("derived after SetValue: got %d, want -3", got)
	}

	base := b.Create(10)
	if got := b.Subtract(base, 4); got != Invalid {
		t.Errorf("base: got %d, want %d", got, Invalid)
	}
	if Invalid != math.MinInt32 {
		t.Fatalf("Invalid must be the int32 minimum, got %d", Invalid)
	}
}

func TestExportStruct(t *testing.T) {
	b := newTestBoundary(t)
	want := abi.NewAggregate(1, 2, 3)

	for _, h := range []Handle{b.Create(0), b.CreateDerived(-8)} {
		b.SetValue(h, 77)
		if got := b.ExportStruct(h); got != want {
			t.Errorf("handle %d: got %+v, want %+v", h, got, want)
		}
	}
}

func TestExportStructPointer(t *testing.T) {
	b := newTestBoundary(t)

	if p := b.ExportStructPointer(b.Create(0)); p != nil {
		t.Errorf("base: got %+v, want nil", *p)
	}

	d := b.CreateDerived(0)
	p := b.ExportStructPointer(d)
	if p == nil {
		t.Fatal("derived: got nil")
	}
	if *p != abi.NewAggregate(1, 2, 3) {
		t.Errorf("derived: got %+v", *p)
	}
}

func TestNullHandleDefaults(t *testing.T) {
	b := newTestBoundary(t)
	b.Create(42)

	called := false
	b.SetValueChangeCallback(0, func(Handle, int32) { called = true })
	b.SetValue(0, 1)
	b.SetValueUint(0, 1)

	if called {
		t.Error("callback registered on the null handle was invoked")
	}
	if b.Destroy(0) {
		t.Error("Destroy(0): got true")
	}
	if got := b.GetValue(0); got != 0 {
		t.Errorf("GetValue(0): got %d", got)
	}
	if got := b.GetValuePointer(0); got != nil {
		t.Errorf("GetValuePointer(0): got %+v", got)
	}
	if got := b.Add(0, 5); got != 0 {
		t.Errorf("Add(0): got %d", got)
	}
	if got := b.Multiply(0, 5); got != 0 {
		t.Errorf("Multiply(0): got %d", got)
	}
	if got := b.ExportStruct(0); got != (abi.Aggregate{}) {
		t.Errorf("ExportStruct(0): got %+v", got)
	}
	if got := b.ExportStructPointer(0); got != nil {
		t.Errorf("ExportStructPointer(0): got %+v", got)
	}
	if got := b.Subtract(0, 5); got != Invalid {
		t.Errorf("Subtract(0): got %d", got)
	}
	if got := b.Kind(0); got != object.KindInvalid {
		t.Errorf("Kind(0): got %v", got)
	}
}

func TestDestroy(t *testing.T) {
	b := newTestBoundary(t)
	h := b.Create(1)

	if !b.Destroy(h) {
		t.Fatal("Destroy of a live handle returned false")
	}
	if b.Destroy(h) {
		t.Fatal("second Destroy returned true")
	}
	if b.Len() != 0 {
		t.Fatalf("Len: got %d, want 0", b.Len())
	}
	if got := b.GetValue(h); got != 0 {
		t.Errorf("GetValue after Destroy: got %d", got)
	}

	reused := b.CreateDerived(2)
	if reused != h {
		t.Errorf("released handle not reused: got %d, want %d", reused, h)
	}
	if b.Kind(reused) != object.KindDerived {
		t.Errorf("Kind: got %v, want derived", b.Kind(reused))
	}
}

func TestKind(t *testing.T) {
	b := newTestBoundary(t)
	if got := b.Kind(b.Create(0)); got != object.KindBase {
		t.Errorf("got %v, want base", got)
	}
	if got := b.Kind(b.CreateDerived(0)); got != object.KindDerived {
		t.Errorf("got %v, want derived", got)
	}
}

func TestCallbackPanicIsContained(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	b := New(WithLogger(zap.New(core)))
	defer b.Close()

	h := b.Create(0)
	b.SetValueChangeCallback(h, func(Handle, int32) { panic("boom") })

	b.SetValue(h, 8)

	if got := b.GetValue(h); got != 8 {
		t.Errorf("value should be committed before the callback: got %d", got)
	}
	entries := logs.FilterMessage("recovered panic at export boundary").All()
	if len(entries) != 1 {
		t.Fatalf("expected one recovered panic log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["export"]; got != ExportSetValue {
		t.Errorf("export field: got %v, want %s", got, ExportSetValue)
	}
}

func TestDowncastIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := New(WithLogger(zap.New(core)))
	defer b.Close()

	b.Subtract(b.Create(0), 1)
	if n := logs.FilterMessage("downcast failed").Len(); n != 1 {
		t.Fatalf("expected one downcast log, got %d", n)
	}
}

func TestSubtractChecksRecordedType(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := New(WithLogger(zap.New(core)))
	defer b.Close()

	// A derived payload recorded under the base type is not downcast.
	h := b.table.Insert(TypeBase, object.NewDerived(5))
	if got := b.Subtract(h, 1); got != Invalid {
		t.Errorf("Subtract: got %d, want Invalid", got)
	}
	if got := b.Kind(h); got != object.KindBase {
		t.Errorf("Kind: got %v, want base", got)
	}
	entries := logs.FilterMessage("downcast failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one downcast log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["type"]; got != TypeBase {
		t.Errorf("type field: got %v, want %d", got, TypeBase)
	}
}

func TestKindOfReleasedHandle(t *testing.T) {
	b := newTestBoundary(t)
	h := b.CreateDerived(1)
	b.Destroy(h)
	if got := b.Kind(h); got != object.KindInvalid {
		t.Errorf("got %v, want invalid", got)
	}
}

type failingObserver struct{}

func (failingObserver) OnResourceEvent(e resource.Event) {
	if e.Type == resource.EventCreated {
		panic("observer failed")
	}
}

func TestCreateObserverPanicLeavesNoObject(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	b := New(WithLogger(zap.New(core)))
	defer b.Close()
	b.Subscribe(failingObserver{})

	if h := b.Create(1); h != 0 {
		t.Errorf("Create: got %d, want 0", h)
	}
	if h := b.CreateDerived(2); h != 0 {
		t.Errorf("CreateDerived: got %d, want 0", h)
	}
	if b.Len() != 0 {
		t.Errorf("Len: got %d, want 0", b.Len())
	}
	if n := logs.FilterMessage("recovered panic at export boundary").Len(); n != 2 {
		t.Errorf("expected two recovered panic logs, got %d", n)
	}
}

func TestCallbackSetValueOnSameHandleRecurses(t *testing.T) {
	b := newTestBoundary(t)
	h := b.Create(0)

	// Nothing stops re-entry; the callback bounds its own depth.
	const depth = 3
	var seen []int32
	b.SetValueChangeCallback(h, func(h Handle, v int32) {
		seen = append(seen, v)
		if v < depth {
			b.SetValue(h, v+1)
		}
	})

	b.SetValue(h, 0)

	if diff := cmp.Diff([]int32{0, 1, 2, 3}, seen); diff != "" {
		t.Errorf("callback values (-want +got):\n%s", diff)
	}
	if got := *b.GetValuePointer(h); got != (abi.TrackedValue{Previous: 2, Current: 3}) {
		t.Errorf("history: got %+v, want {Previous:2 Current:3}", got)
	}
}

func TestClose(t *testing.T) {
	b := New(WithLogger(zaptest.NewLogger(t)))

	obs := &dropObserver{}
	b.Subscribe(obs)

	b.Create(1)
	b.CreateDerived(2)

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if obs.dropped != 2 {
		t.Errorf("dropped: got %d, want 2", obs.dropped)
	}
	if h := b.Create(3); h != 0 {
		t.Errorf("Create after Close: got %d, want 0", h)
	}
	if b.Len() != 0 {
		t.Errorf("Len after Close: got %d", b.Len())
	}
}

type dropObserver struct {
	dropped int
}

func (o *dropObserver) OnResourceEvent(e resource.Event) {
	if e.Type == resource.EventDropped {
		o.dropped++
	}
}

func TestConcurrentHandles(t *testing.T) {
	b := newTestBoundary(t)

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		v := int32(i)
		g.Go(func() error {
			h := b.CreateDerived(v)
			b.SetValue(h, v*2)
			if got := b.Subtract(h, v); got != v {
				t.Errorf("handle %d: Subtract got %d, want %d", h, got, v)
			}
			b.Destroy(h)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 {
		t.Fatalf("Len: got %d, want 0", b.Len())
	}
}
