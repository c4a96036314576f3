// Command libobjexport builds the boundary as a C shared library:
//
//	go build -buildmode=c-shared -o libobjexport.so ./cmd/libobjexport
//
// Handles are TestClassHandle values (0 is NULL). Pointers returned by
// test_class_get_value_pointer and test_class_export_struct_pointer stay
// valid until the handle is passed to test_class_destroy.
//
// Logging is configured from OBJEXPORT_* environment variables.
package main

/*
#include <stdint.h>

typedef uintptr_t TestClassHandle;

typedef struct {
	int32_t previousValue;
	int32_t currentValue;
} TestClassValue;

typedef struct {
	int32_t value1;
	int64_t value2;
	double value3;
} TestStruct;

typedef struct {
	int32_t value1;
	union {
		int64_t value2;
		double value3;
	};
} TestStruct1;

typedef struct {
	union {
		int32_t value1;
		int64_t value2;
	};
	double value3;
} TestStruct2;

typedef struct {
	int32_t value;
} TestNamespace1_TestStruct1;

typedef uint16_t TestEnum;
enum { Enum1, Enum2, Enum3 };

typedef int32_t TestEnumClass;
enum { EnumClass1, EnumClass2, EnumClass3 };

typedef void (*ValueChangeCallback)(TestClassHandle instance, int32_t newValue);

static inline void invokeValueChange(ValueChangeCallback cb, TestClassHandle h, int32_t v) {
	cb(h, v);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/objexport/abi"
	"github.com/wippyai/objexport/boundary"
	"github.com/wippyai/objexport/internal/config"
)

var (
	lib  *boundary.Boundary
	pins = newPinSet()
)

func init() {
	if err := abi.Verify(); err != nil {
		panic(err)
	}
	if err := checkCSizes(); err != nil {
		panic(err)
	}

	log := zap.NewNop()
	if cfg, err := config.Load(""); err == nil {
		if l, err := cfg.NewLogger(); err == nil {
			log = l
		}
	}
	boundary.SetLogger(log)

	lib = boundary.New(boundary.WithLogger(log))
	lib.Subscribe(pins)
}

func checkCSizes() error {
	sizes := []struct {
		name string
		c    uintptr
		want uintptr
	}{
		{"TestClassValue", uintptr(C.sizeof_TestClassValue), abi.TrackedValueSize},
		{"TestStruct", uintptr(C.sizeof_TestStruct), abi.AggregateSize},
		{"TestStruct1", uintptr(C.sizeof_TestStruct1), abi.UnionAggregateSize},
		{"TestStruct2", uintptr(C.sizeof_TestStruct2), abi.LeadingUnionAggregateSize},
		{"TestNamespace1_TestStruct1", uintptr(C.sizeof_TestNamespace1_TestStruct1), abi.ScopedAggregateSize},
		{"TestEnum", uintptr(C.sizeof_TestEnum), unsafe.Sizeof(abi.Enum(0))},
		{"TestEnumClass", uintptr(C.sizeof_TestEnumClass), unsafe.Sizeof(abi.EnumClass(0))},
	}
	for _, s := range sizes {
		if s.c != s.want {
			return fmt.Errorf("sizeof(%s) = %d, Go layout is %d bytes", s.name, s.c, s.want)
		}
	}
	return nil
}

func main() {}

//export create_test_class
func create_test_class(value C.int32_t) C.TestClassHandle {
	return C.TestClassHandle(lib.Create(int32(value)))
}

//export create_derived_test_class
func create_derived_test_class(value C.int32_t) C.TestClassHandle {
	return C.TestClassHandle(lib.CreateDerived(int32(value)))
}

//export test_class_destroy
func test_class_destroy(h C.TestClassHandle) {
	lib.Destroy(toHandle(uintptr(h)))
}

//export test_class_set_value_change_callback
func test_class_set_value_change_callback(h C.TestClassHandle, cb C.ValueChangeCallback) {
	if cb == nil {
		lib.SetValueChangeCallback(toHandle(uintptr(h)), nil)
		return
	}
	lib.SetValueChangeCallback(toHandle(uintptr(h)), func(h boundary.Handle, v int32) {
		C.invokeValueChange(cb, C.TestClassHandle(h), C.int32_t(v))
	})
}

//export test_class_set_value
func test_class_set_value(h C.TestClassHandle, value C.int32_t) {
	lib.SetValue(toHandle(uintptr(h)), int32(value))
}

//export test_class_set_value_uint
func test_class_set_value_uint(h C.TestClassHandle, value C.uint32_t) {
	lib.SetValueUint(toHandle(uintptr(h)), uint32(value))
}

//export test_class_get_value
func test_class_get_value(h C.TestClassHandle) C.int32_t {
	return C.int32_t(lib.GetValue(toHandle(uintptr(h))))
}

//export test_class_get_value_pointer
func test_class_get_value_pointer(h C.TestClassHandle) *C.TestClassValue {
	hh := toHandle(uintptr(h))
	p := pin(pins, hh, lib.GetValuePointer(hh))
	return (*C.TestClassValue)(unsafe.Pointer(p))
}

//export test_class_add
func test_class_add(h C.TestClassHandle, value C.int32_t) C.int32_t {
	return C.int32_t(lib.Add(toHandle(uintptr(h)), int32(value)))
}

//export test_class_multiply
func test_class_multiply(h C.TestClassHandle, value C.int32_t) C.int32_t {
	return C.int32_t(lib.Multiply(toHandle(uintptr(h)), int32(value)))
}

//export test_class_export_struct
func test_class_export_struct(h C.TestClassHandle) C.TestStruct {
	a := lib.ExportStruct(toHandle(uintptr(h)))
	return *(*C.TestStruct)(unsafe.Pointer(&a))
}

//export test_class_export_struct_pointer
func test_class_export_struct_pointer(h C.TestClassHandle) *C.TestStruct {
	hh := toHandle(uintptr(h))
	p := pin(pins, hh, lib.ExportStructPointer(hh))
	return (*C.TestStruct)(unsafe.Pointer(p))
}

//export derived_test_class_subtract
func derived_test_class_subtract(h C.TestClassHandle, value C.int32_t) C.int32_t {
	return C.int32_t(lib.Subtract(toHandle(uintptr(h)), int32(value)))
}

//export derived_test_class_substract
func derived_test_class_substract(h C.TestClassHandle, value C.int32_t) C.int32_t {
	return derived_test_class_subtract(h, value)
}
