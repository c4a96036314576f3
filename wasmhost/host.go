package wasmhost

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/objexport/boundary"
	"github.com/wippyai/objexport/errors"
)

// DefaultModuleName is the import module name guests use.
const DefaultModuleName = "test_class"

// TableExport is the guest export holding callback functions.
const TableExport = "__indirect_function_table"

// Host is an instantiated host module serving one Boundary.
type Host struct {
	rt          wazero.Runtime
	b           *boundary.Boundary
	module      api.Module
	log         *zap.Logger
	dispatchers map[string]dispatchModule
	name        string
	mu          sync.Mutex
	closed      bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// WithModuleName sets the import module name. Default "test_class".
func WithModuleName(name string) Option {
	return func(h *Host) {
		if name != "" {
			h.name = name
		}
	}
}

// New checks the guest-visible record layouts and instantiates the host
// module in rt.
func New(ctx context.Context, rt wazero.Runtime, b *boundary.Boundary, opts ...Option) (*Host, error) {
	h := &Host{
		rt:          rt,
		b:           b,
		log:         Logger(),
		name:        DefaultModuleName,
		dispatchers: make(map[string]dispatchModule),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(zap.String("component", "wasmhost"), zap.String("module", h.name))

	if err := checkRecords(); err != nil {
		return nil, err
	}

	builder := rt.NewHostModuleBuilder(h.name)
	h.exportFunctions(builder)

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.New(errors.PhaseHost, errors.KindRegistration).
			Path(h.name).
			Cause(err).
			Detail("instantiate host module").
			Build()
	}
	h.module = mod

	h.log.Debug("host module registered", zap.Int("functions", len(signatures)))
	return h, nil
}

// Name returns the import module name.
func (h *Host) Name() string {
	return h.name
}

// Boundary returns the boundary the host serves.
func (h *Host) Boundary() *boundary.Boundary {
	return h.b
}

// Close closes the dispatcher modules and the host module. The boundary is
// left open.
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	var firstErr error
	for guest, d := range h.dispatchers {
		if err := d.module.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(h.dispatchers, guest)
	}
	if err := h.module.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (h *Host) exportFunctions(builder wazero.HostModuleBuilder) {
	export := func(name string, fn any) {
		builder.NewFunctionBuilder().
			WithFunc(fn).
			WithParameterNames(signature(name).ParamNames()...).
			Export(name)
	}

	export(boundary.ExportCreate, h.create)
	export(boundary.ExportCreateDerived, h.createDerived)
	export(boundary.ExportDestroy, h.destroy)
	export(boundary.ExportSetValueChangeCallback, h.setValueChangeCallback)
	export(boundary.ExportSetValue, h.setValue)
	export(boundary.ExportSetValueUint, h.setValueUint)
	export(boundary.ExportGetValue, h.getValue)
	export(boundary.ExportGetValuePointer, h.getValuePointer)
	export(boundary.ExportAdd, h.add)
	export(boundary.ExportMultiply, h.multiply)
	export(boundary.ExportExportStruct, h.exportStruct)
	export(boundary.ExportExportStructPointer, h.exportStructPointer)
	export(boundary.ExportSubtract, h.subtract)
	export(boundary.ExportSubtractLegacy, h.subtract)
}
