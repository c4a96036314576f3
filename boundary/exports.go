package boundary

// Export names shared by the C library and the wasm host module.
const (
	ExportCreate                 = "create_test_class"
	ExportCreateDerived          = "create_derived_test_class"
	ExportDestroy                = "test_class_destroy"
	ExportSetValueChangeCallback = "test_class_set_value_change_callback"
	ExportSetValue               = "test_class_set_value"
	ExportSetValueUint           = "test_class_set_value_uint"
	ExportGetValue               = "test_class_get_value"
	ExportGetValuePointer        = "test_class_get_value_pointer"
	ExportAdd                    = "test_class_add"
	ExportMultiply               = "test_class_multiply"
	ExportExportStruct           = "test_class_export_struct"
	ExportExportStructPointer    = "test_class_export_struct_pointer"
	ExportSubtract               = "derived_test_class_subtract"

	// ExportSubtractLegacy is the misspelled name older bindings import.
	ExportSubtractLegacy = "derived_test_class_substract"
)

// Export describes one function of the boundary surface.
type Export struct {
	Method  string
	Name    string
	Params  []string
	Result  string
	Default string
	Derived bool
}

var exportTable = []Export{
	{Method: "Create", Name: ExportCreate, Params: []string{"value int32"}, Result: "Handle", Default: "0 when closed"},
	{Method: "CreateDerived", Name: ExportCreateDerived, Params: []string{"value int32"}, Result: "Handle", Default: "0 when closed"},
	{Method: "Destroy", Name: ExportDestroy, Params: []string{"h Handle"}, Result: "bool", Default: "false"},
	{Method: "SetValueChangeCallback", Name: ExportSetValueChangeCallback, Params: []string{"h Handle", "cb ValueChangeCallback"}, Default: "no-op"},
	{Method: "SetValue", Name: ExportSetValue, Params: []string{"h Handle", "value int32"}, Default: "no-op"},
	{Method: "SetValueUint", Name: ExportSetValueUint, Params: []string{"h Handle", "value uint32"}, Default: "no-op"},
	{Method: "GetValue", Name: ExportGetValue, Params: []string{"h Handle"}, Result: "int32", Default: "0"},
	{Method: "GetValuePointer", Name: ExportGetValuePointer, Params: []string{"h Handle"}, Result: "*abi.TrackedValue", Default: "nil"},
	{Method: "Add", Name: ExportAdd, Params: []string{"h Handle", "value int32"}, Result: "int32", Default: "0"},
	{Method: "Multiply", Name: ExportMultiply, Params: []string{"h Handle", "value int32"}, Result: "int32", Default: "0"},
	{Method: "ExportStruct", Name: ExportExportStruct, Params: []string{"h Handle"}, Result: "abi.Aggregate", Default: "{0, 0, 0}"},
	{Method: "ExportStructPointer", Name: ExportExportStructPointer, Params: []string{"h Handle"}, Result: "*abi.Aggregate", Default: "nil"},
	{Method: "Subtract", Name: ExportSubtract, Params: []string{"h Handle", "value int32"}, Result: "int32", Default: "-2147483648", Derived: true},
}

// Exports returns the boundary surface in declaration order.
func Exports() []Export {
	out := make([]Export, len(exportTable))
	copy(out, exportTable)
	return out
}

// Lookup finds an export by its exported name. The legacy subtract name
// resolves to Subtract.
func Lookup(name string) (Export, bool) {
	if name == ExportSubtractLegacy {
		name = ExportSubtract
	}
	for _, e := range exportTable {
		if e.Name == name {
			return e, true
		}
	}
	return Export{}, false
}
