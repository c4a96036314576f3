// Package wasmbin encodes small core WebAssembly modules.
//
// The wasm host synthesizes a dispatcher module at runtime to call guest
// functions through the guest's function table, and tests assemble guest
// modules without a text-format toolchain. ModuleBuilder covers exactly the
// sections those modules need: types, imports, functions, tables, memories,
// exports, active element segments and code.
package wasmbin
