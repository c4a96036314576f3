package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/objexport/boundary"
	"github.com/wippyai/objexport/internal/config"
	"github.com/wippyai/objexport/wasmhost"
)

// runGuest instantiates a guest module against the host module and calls
// funcName, or the configured entry point when funcName is empty.
func runGuest(ctx context.Context, cfg *config.Config, log *zap.Logger, wasmFile, funcName string, w io.Writer) error {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt := wasmhost.NewRuntime(ctx, wasmhost.RuntimeConfig{MemoryLimitPages: cfg.Wasm.MemoryLimitPages})
	defer rt.Close(ctx)

	b := boundary.New(boundary.WithLogger(log))
	defer b.Close()

	host, err := wasmhost.New(ctx, rt, b,
		wasmhost.WithLogger(log),
		wasmhost.WithModuleName(cfg.Wasm.HostModule))
	if err != nil {
		return fmt.Errorf("register host module: %w", err)
	}
	defer host.Close(ctx)

	mod, err := host.Instantiate(ctx, data, wazero.NewModuleConfig().
		WithName(cfg.Wasm.GuestName).
		WithStdout(w).
		WithStderr(os.Stderr))
	if err != nil {
		return err
	}
	defer mod.Close(ctx)

	if funcName == "" {
		funcName = cfg.Wasm.Entry
	}
	fn := mod.ExportedFunction(funcName)
	if fn == nil {
		fmt.Fprintf(w, "No exported function %q. Use -func to pick one.\n", funcName)
		return nil
	}
	if n := len(fn.Definition().ParamTypes()); n != 0 {
		return fmt.Errorf("%s takes %d parameters, want none", funcName, n)
	}

	results, err := fn.Call(ctx)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}
	fmt.Fprintf(w, "Result: %v\n", results)
	fmt.Fprintf(w, "Live objects: %d\n", b.Len())
	return nil
}
