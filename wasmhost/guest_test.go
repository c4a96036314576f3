package wasmhost

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/objexport/internal/wasmbin"
)

// Guest memory layout written by the guest's on_value_change callback.
const (
	seenValueAddr = 0  // get_value(handle) observed inside the callback
	callCountAddr = 4  // number of callback invocations
	lastValueAddr = 8  // value argument of the last invocation
	scratchAddr   = 64 // free area for result pointers
)

// callbackSlot is the table index of on_value_change.
const callbackSlot = 1

func wasmType(sig Signature) wasmbin.FuncType {
	ft := wasmbin.FuncType{Params: make([]api.ValueType, len(sig.Params))}
	for i := range sig.Params {
		ft.Params[i] = api.ValueTypeI32
	}
	if sig.Result != nil {
		ft.Results = []api.ValueType{api.ValueTypeI32}
	}
	return ft
}

// buildGuest assembles a guest that imports every host function from module
// and re-exports it under the same name, plus a value change callback
// stored in its function table.
func buildGuest(module string) []byte {
	b := wasmbin.NewModuleBuilder()

	imported := make(map[string]uint32)
	for _, sig := range signatures {
		imported[sig.Name] = b.ImportFunc(module, sig.Name, wasmType(sig))
	}

	for _, sig := range signatures {
		var body wasmbin.Code
		for i := range sig.Params {
			body = body.LocalGet(uint32(i))
		}
		body = body.Call(imported[sig.Name])
		b.ExportFunc(sig.Name, b.Func(wasmType(sig), nil, body))
	}

	onChange := b.Func(callbackType, nil, wasmbin.Code{}.
		I32Const(0).LocalGet(0).Call(imported["test_class_get_value"]).I32Store(seenValueAddr).
		I32Const(0).I32Const(0).I32Load(callCountAddr).I32Const(1).I32Add().I32Store(callCountAddr).
		I32Const(0).LocalGet(1).I32Store(lastValueAddr))

	// A callback with the wrong signature, to exercise dispatch failures.
	wrongType := b.Func(wasmbin.FuncType{Params: []api.ValueType{api.ValueTypeI32}}, nil, wasmbin.Code{})

	b.Table(3)
	b.Elem(callbackSlot, onChange, wrongType)
	b.Memory(1)
	b.ExportMemory("memory", 0)
	b.ExportTable(TableExport, 0)
	return b.Build()
}

type guest struct {
	t   *testing.T
	ctx context.Context
	mod api.Module
}

func instantiateGuest(t *testing.T, ctx context.Context, rt wazero.Runtime, module, name string) *guest {
	t.Helper()
	mod, err := rt.InstantiateWithConfig(ctx, buildGuest(module), wazero.NewModuleConfig().WithName(name))
	if err != nil {
		t.Fatalf("instantiate guest: %v", err)
	}
	return &guest{t: t, ctx: ctx, mod: mod}
}

// call invokes an export and returns its i32 result, or 0 for none.
func (g *guest) call(name string, params ...uint64) uint32 {
	g.t.Helper()
	results, err := g.mod.ExportedFunction(name).Call(g.ctx, params...)
	if err != nil {
		g.t.Fatalf("%s: %v", name, err)
	}
	if len(results) == 0 {
		return 0
	}
	return api.DecodeU32(results[0])
}

func (g *guest) read(offset, n uint32) []byte {
	g.t.Helper()
	b, ok := g.mod.Memory().Read(offset, n)
	if !ok {
		g.t.Fatalf("read %d bytes at %d out of range", n, offset)
	}
	return append([]byte(nil), b...)
}

func (g *guest) u32(offset uint32) uint32 {
	g.t.Helper()
	v, ok := g.mod.Memory().ReadUint32Le(offset)
	if !ok {
		g.t.Fatalf("read at %d out of range", offset)
	}
	return v
}

func (g *guest) fill(offset, n uint32, b byte) {
	g.t.Helper()
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	if !g.mod.Memory().Write(offset, buf) {
		g.t.Fatalf("fill at %d out of range", offset)
	}
}
