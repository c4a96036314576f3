package wasmbin

// Code is a function body under construction. Methods append one
// instruction and return the extended body.
type Code []byte

func (c Code) LocalGet(idx uint32) Code {
	return append(append(c, 0x20), EncodeULEB128(idx)...)
}

func (c Code) I32Const(v int32) Code {
	return append(append(c, 0x41), EncodeSLEB128(v)...)
}

func (c Code) I32Add() Code {
	return append(c, 0x6a)
}

// I32Load loads from the address on the stack plus offset, 4-byte aligned.
func (c Code) I32Load(offset uint32) Code {
	c = append(c, 0x28, 0x02)
	return append(c, EncodeULEB128(offset)...)
}

// I32Store stores to the address on the stack plus offset, 4-byte aligned.
func (c Code) I32Store(offset uint32) Code {
	c = append(c, 0x36, 0x02)
	return append(c, EncodeULEB128(offset)...)
}

func (c Code) Call(funcIdx uint32) Code {
	return append(append(c, 0x10), EncodeULEB128(funcIdx)...)
}

// CallIndirect calls through table 0 with the callee index on the stack.
func (c Code) CallIndirect(typeIdx uint32) Code {
	c = append(append(c, 0x11), EncodeULEB128(typeIdx)...)
	return append(c, 0x00)
}

func (c Code) Drop() Code {
	return append(c, 0x1a)
}
