package wasmhost

import (
	"context"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/objexport/errors"
)

// RuntimeConfig holds configuration for runtime creation.
type RuntimeConfig struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// NewRuntime creates a wazero runtime for guests of a Host.
func NewRuntime(ctx context.Context, cfg RuntimeConfig) wazero.Runtime {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	return wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
}

// CheckImports verifies every function compiled imports from the host module
// exists there with the same core signature.
func (h *Host) CheckImports(compiled wazero.CompiledModule) error {
	exported := h.module.ExportedFunctionDefinitions()
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		if module != h.name {
			continue
		}
		want, ok := exported[name]
		if !ok {
			return errors.NotFound(errors.PhaseHost, "host function", name)
		}
		if !sameTypes(def.ParamTypes(), want.ParamTypes()) || !sameTypes(def.ResultTypes(), want.ResultTypes()) {
			return errors.New(errors.PhaseHost, errors.KindInvalidData).
				Path(h.name, name).
				Detail("guest imports %s, host exports %s", funcTypeString(def), funcTypeString(want)).
				Build()
		}
	}
	return nil
}

// Instantiate compiles a guest, checks its host imports and instantiates it.
// WASI preview1 is provided when the guest imports it. Guests that register
// callbacks need a name in cfg.
func (h *Host) Instantiate(ctx context.Context, wasm []byte, cfg wazero.ModuleConfig) (api.Module, error) {
	compiled, err := h.rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "compile guest")
	}
	defer compiled.Close(ctx)

	if err := h.CheckImports(compiled); err != nil {
		return nil, err
	}
	if importsModule(compiled, wasi_snapshot_preview1.ModuleName) {
		if err := h.initWASI(ctx); err != nil {
			return nil, err
		}
	}

	mod, err := h.rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInstantiation, err, "instantiate guest")
	}
	h.log.Debug("guest instantiated", zap.String("guest", mod.Name()))
	return mod, nil
}

func (h *Host) initWASI(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rt.Module(wasi_snapshot_preview1.ModuleName) != nil {
		return nil
	}
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, h.rt); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInstantiation, err, "instantiate WASI")
	}
	return nil
}

func importsModule(compiled wazero.CompiledModule, module string) bool {
	for _, def := range compiled.ImportedFunctions() {
		if m, _, _ := def.Import(); m == module {
			return true
		}
	}
	return false
}

func sameTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func funcTypeString(def api.FunctionDefinition) string {
	names := func(ts []api.ValueType) string {
		s := make([]string, len(ts))
		for i, t := range ts {
			s[i] = api.ValueTypeName(t)
		}
		return strings.Join(s, ", ")
	}
	return "(" + names(def.ParamTypes()) + ") -> (" + names(def.ResultTypes()) + ")"
}
