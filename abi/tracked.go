package abi

import "math"

// Unset is the Previous value of a TrackedValue that has never been mutated.
// A real generation may hold the same value, so Previous == Unset does not
// prove the value was never set.
const Unset int32 = math.MinInt32

// TrackedValue is a two-generation value history.
type TrackedValue struct {
	Previous int32
	Current  int32
}

// NewTrackedValue returns a history with no previous generation.
func NewTrackedValue(v int32) TrackedValue {
	return TrackedValue{Previous: Unset, Current: v}
}

// Set shifts Current into Previous and stores v.
func (t *TrackedValue) Set(v int32) {
	t.Previous = t.Current
	t.Current = v
}
