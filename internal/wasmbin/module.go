package wasmbin

import (
	"slices"

	"github.com/tetratelabs/wazero/api"
)

// FuncType is a function signature.
type FuncType struct {
	Params  []api.ValueType
	Results []api.ValueType
}

func (t FuncType) equal(o FuncType) bool {
	return slices.Equal(t.Params, o.Params) && slices.Equal(t.Results, o.Results)
}

const (
	kindFunc   byte = 0x00
	kindTable  byte = 0x01
	kindMemory byte = 0x02
)

const funcref byte = 0x70

type importEntry struct {
	module  string
	name    string
	kind    byte
	typeIdx uint32
	min     uint32
}

type localFunc struct {
	locals  []api.ValueType
	body    Code
	typeIdx uint32
}

type exportEntry struct {
	name string
	kind byte
	idx  uint32
}

type elemSegment struct {
	funcs  []uint32
	offset int32
}

// ModuleBuilder assembles a core wasm module. Function imports must be added
// before local functions, since imports come first in the function index
// space.
type ModuleBuilder struct {
	types       []FuncType
	imports     []importEntry
	funcs       []localFunc
	tables      []uint32
	memories    []uint32
	exports     []exportEntry
	elems       []elemSegment
	importFuncs uint32
}

// NewModuleBuilder creates an empty module builder.
func NewModuleBuilder() *ModuleBuilder {
	return &ModuleBuilder{}
}

// TypeIndex returns the index of ft, adding it if needed.
func (b *ModuleBuilder) TypeIndex(ft FuncType) uint32 {
	for i, t := range b.types {
		if t.equal(ft) {
			return uint32(i)
		}
	}
	b.types = append(b.types, ft)
	return uint32(len(b.types) - 1)
}

// ImportFunc imports a function and returns its function index.
func (b *ModuleBuilder) ImportFunc(module, name string, ft FuncType) uint32 {
	b.imports = append(b.imports, importEntry{
		module:  module,
		name:    name,
		kind:    kindFunc,
		typeIdx: b.TypeIndex(ft),
	})
	b.importFuncs++
	return b.importFuncs - 1
}

// ImportTable imports a funcref table with at least minSize elements.
func (b *ModuleBuilder) ImportTable(module, name string, minSize uint32) {
	b.imports = append(b.imports, importEntry{
		module: module,
		name:   name,
		kind:   kindTable,
		min:    minSize,
	})
}

// Func adds a local function and returns its function index. The body must
// not include the trailing end opcode.
func (b *ModuleBuilder) Func(ft FuncType, locals []api.ValueType, body Code) uint32 {
	b.funcs = append(b.funcs, localFunc{
		typeIdx: b.TypeIndex(ft),
		locals:  locals,
		body:    body,
	})
	return b.importFuncs + uint32(len(b.funcs)-1)
}

// Table defines a funcref table with size elements and returns its index.
func (b *ModuleBuilder) Table(size uint32) uint32 {
	b.tables = append(b.tables, size)
	return uint32(len(b.tables) - 1)
}

// Memory defines a linear memory of minPages pages and returns its index.
func (b *ModuleBuilder) Memory(minPages uint32) uint32 {
	b.memories = append(b.memories, minPages)
	return uint32(len(b.memories) - 1)
}

func (b *ModuleBuilder) ExportFunc(name string, idx uint32) {
	b.exports = append(b.exports, exportEntry{name: name, kind: kindFunc, idx: idx})
}

func (b *ModuleBuilder) ExportTable(name string, idx uint32) {
	b.exports = append(b.exports, exportEntry{name: name, kind: kindTable, idx: idx})
}

func (b *ModuleBuilder) ExportMemory(name string, idx uint32) {
	b.exports = append(b.exports, exportEntry{name: name, kind: kindMemory, idx: idx})
}

// Elem places funcs into table 0 starting at offset.
func (b *ModuleBuilder) Elem(offset int32, funcs ...uint32) {
	b.elems = append(b.elems, elemSegment{offset: offset, funcs: funcs})
}

// Build generates the module bytes.
func (b *ModuleBuilder) Build() []byte {
	var wasm []byte

	// Magic and version
	wasm = append(wasm, 0x00, 0x61, 0x73, 0x6d)
	wasm = append(wasm, 0x01, 0x00, 0x00, 0x00)

	if len(b.types) > 0 {
		wasm = appendSection(wasm, 0x01, b.buildTypeSection())
	}
	if len(b.imports) > 0 {
		wasm = appendSection(wasm, 0x02, b.buildImportSection())
	}
	if len(b.funcs) > 0 {
		wasm = appendSection(wasm, 0x03, b.buildFuncSection())
	}
	if len(b.tables) > 0 {
		wasm = appendSection(wasm, 0x04, b.buildLimitsSection(b.tables, funcref))
	}
	if len(b.memories) > 0 {
		wasm = appendSection(wasm, 0x05, b.buildLimitsSection(b.memories, 0))
	}
	if len(b.exports) > 0 {
		wasm = appendSection(wasm, 0x07, b.buildExportSection())
	}
	if len(b.elems) > 0 {
		wasm = appendSection(wasm, 0x09, b.buildElemSection())
	}
	if len(b.funcs) > 0 {
		wasm = appendSection(wasm, 0x0a, b.buildCodeSection())
	}

	return wasm
}

func (b *ModuleBuilder) buildTypeSection() []byte {
	section := EncodeULEB128(uint32(len(b.types)))
	for _, t := range b.types {
		section = append(section, 0x60)
		section = append(section, EncodeULEB128(uint32(len(t.Params)))...)
		for _, p := range t.Params {
			section = append(section, ValTypeToWasm(p))
		}
		section = append(section, EncodeULEB128(uint32(len(t.Results)))...)
		for _, r := range t.Results {
			section = append(section, ValTypeToWasm(r))
		}
	}
	return section
}

func (b *ModuleBuilder) buildImportSection() []byte {
	section := EncodeULEB128(uint32(len(b.imports)))
	for _, imp := range b.imports {
		section = appendName(section, imp.module)
		section = appendName(section, imp.name)
		section = append(section, imp.kind)
		switch imp.kind {
		case kindFunc:
			section = append(section, EncodeULEB128(imp.typeIdx)...)
		case kindTable:
			section = append(section, funcref, 0x00)
			section = append(section, EncodeULEB128(imp.min)...)
		}
	}
	return section
}

func (b *ModuleBuilder) buildFuncSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for _, f := range b.funcs {
		section = append(section, EncodeULEB128(f.typeIdx)...)
	}
	return section
}

// buildLimitsSection encodes a table or memory section. A zero elemType
// means memory, which has no element type byte.
func (b *ModuleBuilder) buildLimitsSection(mins []uint32, elemType byte) []byte {
	section := EncodeULEB128(uint32(len(mins)))
	for _, n := range mins {
		if elemType != 0 {
			section = append(section, elemType)
		}
		section = append(section, 0x00)
		section = append(section, EncodeULEB128(n)...)
	}
	return section
}

func (b *ModuleBuilder) buildExportSection() []byte {
	section := EncodeULEB128(uint32(len(b.exports)))
	for _, e := range b.exports {
		section = appendName(section, e.name)
		section = append(section, e.kind)
		section = append(section, EncodeULEB128(e.idx)...)
	}
	return section
}

func (b *ModuleBuilder) buildElemSection() []byte {
	section := EncodeULEB128(uint32(len(b.elems)))
	for _, e := range b.elems {
		section = append(section, 0x00)
		section = append(section, 0x41)
		section = append(section, EncodeSLEB128(e.offset)...)
		section = append(section, 0x0b)
		section = append(section, EncodeULEB128(uint32(len(e.funcs)))...)
		for _, f := range e.funcs {
			section = append(section, EncodeULEB128(f)...)
		}
	}
	return section
}

func (b *ModuleBuilder) buildCodeSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for _, f := range b.funcs {
		var body []byte
		body = append(body, EncodeULEB128(uint32(len(f.locals)))...)
		for _, l := range f.locals {
			body = append(body, 0x01, ValTypeToWasm(l))
		}
		body = append(body, f.body...)
		body = append(body, 0x0b)

		section = append(section, EncodeULEB128(uint32(len(body)))...)
		section = append(section, body...)
	}
	return section
}
