package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/objexport/boundary"
	"github.com/wippyai/objexport/errors"
)

func (h *Host) create(_ context.Context, v int32) uint32 {
	return uint32(h.b.Create(v))
}

func (h *Host) createDerived(_ context.Context, v int32) uint32 {
	return uint32(h.b.CreateDerived(v))
}

func (h *Host) destroy(_ context.Context, handle uint32) uint32 {
	return boolToI32(h.b.Destroy(boundary.Handle(handle)))
}

func (h *Host) setValueChangeCallback(ctx context.Context, mod api.Module, handle, fnidx uint32) {
	hd := boundary.Handle(handle)
	if fnidx == 0 {
		h.b.SetValueChangeCallback(hd, nil)
		return
	}

	invoke, err := h.dispatcher(ctx, mod)
	if err != nil {
		h.log.Error("callback registration failed",
			zap.Uint32("handle", handle),
			zap.Uint32("fnidx", fnidx),
			zap.String("guest", mod.Name()),
			zap.Error(err))
		return
	}

	cbCtx := context.WithoutCancel(ctx)
	h.b.SetValueChangeCallback(hd, func(ch boundary.Handle, v int32) {
		if _, err := invoke.Call(cbCtx, uint64(fnidx), uint64(ch), api.EncodeI32(v)); err != nil {
			h.log.Warn("value change callback failed",
				zap.Uint32("handle", uint32(ch)),
				zap.Uint32("fnidx", fnidx),
				zap.Error(err))
		}
	})
}

func (h *Host) setValue(_ context.Context, handle uint32, v int32) {
	h.b.SetValue(boundary.Handle(handle), v)
}

func (h *Host) setValueUint(_ context.Context, handle uint32, v uint32) {
	h.b.SetValueUint(boundary.Handle(handle), v)
}

func (h *Host) getValue(_ context.Context, handle uint32) int32 {
	return h.b.GetValue(boundary.Handle(handle))
}

func (h *Host) getValuePointer(_ context.Context, mod api.Module, handle, retptr uint32) uint32 {
	p := h.b.GetValuePointer(boundary.Handle(handle))
	if p == nil {
		return 0
	}
	return boolToI32(h.write(mod, boundary.ExportGetValuePointer, retptr, p.AppendBinary(nil)))
}

func (h *Host) add(_ context.Context, handle uint32, v int32) int32 {
	return h.b.Add(boundary.Handle(handle), v)
}

func (h *Host) multiply(_ context.Context, handle uint32, v int32) int32 {
	return h.b.Multiply(boundary.Handle(handle), v)
}

func (h *Host) exportStruct(_ context.Context, mod api.Module, handle, retptr uint32) {
	a := h.b.ExportStruct(boundary.Handle(handle))
	h.write(mod, boundary.ExportExportStruct, retptr, a.AppendBinary(nil))
}

func (h *Host) exportStructPointer(_ context.Context, mod api.Module, handle, retptr uint32) uint32 {
	p := h.b.ExportStructPointer(boundary.Handle(handle))
	if p == nil {
		return 0
	}
	return boolToI32(h.write(mod, boundary.ExportExportStructPointer, retptr, p.AppendBinary(nil)))
}

func (h *Host) subtract(_ context.Context, handle uint32, v int32) int32 {
	return h.b.Subtract(boundary.Handle(handle), v)
}

// write copies data into guest memory at ptr. Out-of-range writes are logged
// and reported as false.
func (h *Host) write(mod api.Module, export string, ptr uint32, data []byte) bool {
	mem := mod.Memory()
	if mem == nil || !mem.Write(ptr, data) {
		var size uint32
		if mem != nil {
			size = mem.Size()
		}
		h.log.Warn("result pointer out of bounds",
			zap.String("export", export),
			zap.Int("size", len(data)),
			zap.Error(errors.OutOfBounds(errors.PhaseRuntime, []string{export, "retptr"}, int(ptr), int(size))))
		return false
	}
	return true
}

func boolToI32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
