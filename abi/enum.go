package abi

import "strconv"

// Enum mirrors TestEnum, declared with an unsigned short underlying type.
type Enum uint16

const (
	Enum1 Enum = iota
	Enum2
	Enum3
)

func (e Enum) String() string {
	switch e {
	case Enum1:
		return "Enum1"
	case Enum2:
		return "Enum2"
	case Enum3:
		return "Enum3"
	}
	return "Enum(" + strconv.Itoa(int(e)) + ")"
}

// EnumClass mirrors the scoped TestEnumClass, which has an int underlying type.
type EnumClass int32

const (
	EnumClass1 EnumClass = iota
	EnumClass2
	EnumClass3
)

func (e EnumClass) String() string {
	switch e {
	case EnumClass1:
		return "EnumClass1"
	case EnumClass2:
		return "EnumClass2"
	case EnumClass3:
		return "EnumClass3"
	}
	return "EnumClass(" + strconv.Itoa(int(e)) + ")"
}
