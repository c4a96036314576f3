package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/objexport/errors"
	"github.com/wippyai/objexport/internal/wasmbin"
)

const invokeExport = "invoke"

var (
	i32 = api.ValueTypeI32

	// callbackType is the guest callback signature (handle, value) -> ().
	callbackType = wasmbin.FuncType{Params: []api.ValueType{i32, i32}}
	invokeType   = wasmbin.FuncType{Params: []api.ValueType{i32, i32, i32}}
)

// buildDispatcher synthesizes a module that imports the guest's function
// table and exports invoke(fnidx, handle, value), which calls table[fnidx].
func buildDispatcher(guest string) []byte {
	b := wasmbin.NewModuleBuilder()
	b.ImportTable(guest, TableExport, 0)
	cbType := b.TypeIndex(callbackType)
	invoke := b.Func(invokeType, nil, wasmbin.Code{}.
		LocalGet(1).
		LocalGet(2).
		LocalGet(0).
		CallIndirect(cbType))
	b.ExportFunc(invokeExport, invoke)
	return b.Build()
}

// dispatchModule is a dispatcher instantiated against one guest instance.
type dispatchModule struct {
	guest  api.Module
	module api.Module
}

// dispatcher returns the invoke function for guest, instantiating its
// dispatcher module on first use. A dispatcher built for an earlier guest
// instance with the same name is closed and rebuilt, since its table import
// still refers to the old instance.
func (h *Host) dispatcher(ctx context.Context, guest api.Module) (api.Function, error) {
	name := guest.Name()
	if name == "" {
		return nil, errors.Unsupported(errors.PhaseHost, "callbacks from an anonymous guest module")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.New(errors.PhaseHost, errors.KindInstantiation).
			Path(name).
			Detail("host closed").
			Build()
	}

	if d, ok := h.dispatchers[name]; ok {
		if d.guest == guest {
			return d.module.ExportedFunction(invokeExport), nil
		}
		delete(h.dispatchers, name)
		if err := d.module.Close(ctx); err != nil {
			return nil, errors.New(errors.PhaseHost, errors.KindInstantiation).
				Path(name, TableExport).
				Cause(err).
				Detail("close stale callback dispatcher").
				Build()
		}
		h.log.Debug("replaced stale callback dispatcher", zap.String("guest", name))
	}

	cfg := wazero.NewModuleConfig().WithName(name + "$dispatch")
	m, err := h.rt.InstantiateWithConfig(ctx, buildDispatcher(name), cfg)
	if err != nil {
		return nil, errors.New(errors.PhaseHost, errors.KindInstantiation).
			Path(name, TableExport).
			Cause(err).
			Detail("instantiate callback dispatcher").
			Build()
	}
	h.dispatchers[name] = dispatchModule{guest: guest, module: m}
	return m.ExportedFunction(invokeExport), nil
}
