package abi

import "math"

// CoerceToInt32 converts loosely typed numeric input, such as JSON numbers
// decoded as float64, into an int32 without losing information.
func CoerceToInt32(value any) (int32, bool) {
	switch v := value.(type) {
	case int32:
		return v, true
	case int8:
		return int32(v), true
	case int16:
		return int32(v), true
	case uint8:
		return int32(v), true
	case uint16:
		return int32(v), true
	case float64:
		if v >= math.MinInt32 && v <= math.MaxInt32 && v == float64(int32(v)) {
			return int32(v), true
		}
	case float32:
		if v >= math.MinInt32 && v <= math.MaxInt32 && v == float32(int32(v)) {
			return int32(v), true
		}
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return int32(v), true
		}
	case int64:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return int32(v), true
		}
	case uint:
		if v <= math.MaxInt32 {
			return int32(v), true
		}
	case uint32:
		if v <= math.MaxInt32 {
			return int32(v), true
		}
	}
	return 0, false
}

// CoerceToUint32 is the unsigned counterpart of CoerceToInt32.
func CoerceToUint32(value any) (uint32, bool) {
	switch v := value.(type) {
	case uint32:
		return v, true
	case uint8:
		return uint32(v), true
	case uint16:
		return uint32(v), true
	case int8:
		if v >= 0 {
			return uint32(v), true
		}
	case int16:
		if v >= 0 {
			return uint32(v), true
		}
	case int32:
		if v >= 0 {
			return uint32(v), true
		}
	case float64:
		if v >= 0 && v <= math.MaxUint32 && v == float64(uint32(v)) {
			return uint32(v), true
		}
	case float32:
		if v >= 0 && v <= math.MaxUint32 && v == float32(uint32(v)) {
			return uint32(v), true
		}
	case int:
		if v >= 0 && v <= math.MaxUint32 {
			return uint32(v), true
		}
	case int64:
		if v >= 0 && v <= math.MaxUint32 {
			return uint32(v), true
		}
	case uint:
		if v <= math.MaxUint32 {
			return uint32(v), true
		}
	case uint64:
		if v <= math.MaxUint32 {
			return uint32(v), true
		}
	}
	return 0, false
}
