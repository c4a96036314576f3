package wasmbin

import (
	"bytes"
	"testing"

	"github.com/tetratelabs/wazero/api"
)

func TestEncodeULEB128(t *testing.T) {
	tests := []struct {
		expected []byte
		input    uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
	}

	for _, tt := range tests {
		result := EncodeULEB128(tt.input)
		if !bytes.Equal(result, tt.expected) {
			t.Errorf("EncodeULEB128(%d): expected %x, got %x", tt.input, tt.expected, result)
		}
	}
}

func TestDecodeULEB128(t *testing.T) {
	tests := []struct {
		input         []byte
		expected      uint32
		expectedBytes int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x7f}, 127, 1},
		{[]byte{0x80, 0x01}, 128, 2},
		{[]byte{0xe5, 0x8e, 0x26, 0xff}, 624485, 3},
	}

	for _, tt := range tests {
		result, n := DecodeULEB128(tt.input)
		if result != tt.expected {
			t.Errorf("DecodeULEB128: expected %d, got %d", tt.expected, result)
		}
		if n != tt.expectedBytes {
			t.Errorf("DecodeULEB128: expected %d bytes, got %d", tt.expectedBytes, n)
		}
	}
}

func TestEncodeSLEB128(t *testing.T) {
	tests := []struct {
		expected []byte
		input    int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0x40}, -64},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0xbf, 0x7f}, -65},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x78}, -2147483648},
	}

	for _, tt := range tests {
		result := EncodeSLEB128(tt.input)
		if !bytes.Equal(result, tt.expected) {
			t.Errorf("EncodeSLEB128(%d): expected %x, got %x", tt.input, tt.expected, result)
		}
	}
}

func TestValTypeToWasm(t *testing.T) {
	tests := []struct {
		input    api.ValueType
		expected byte
	}{
		{api.ValueTypeI32, 0x7f},
		{api.ValueTypeI64, 0x7e},
		{api.ValueTypeF32, 0x7d},
		{api.ValueTypeF64, 0x7c},
	}
	for _, tt := range tests {
		if got := ValTypeToWasm(tt.input); got != tt.expected {
			t.Errorf("ValTypeToWasm(%v): expected 0x%02x, got 0x%02x", tt.input, tt.expected, got)
		}
	}
}
