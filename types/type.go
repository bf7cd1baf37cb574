package types

import (
	"slices"
	"strings"
)

// Type is the tag of an interface value.
type Type uint8

const (
	TypeI32 Type = iota
	TypeI64
	TypeF32
	TypeF64
	TypeString
	// Values from here on are reserved for aggregate types.
	typeReserved
)

var typeNames = [...]string{
	TypeI32:    "I32",
	TypeI64:    "I64",
	TypeF32:    "F32",
	TypeF64:    "F64",
	TypeString: "String",
}

func (t Type) String() string {
	if t < typeReserved {
		return typeNames[t]
	}
	return "Unknown"
}

// Valid reports whether t is one of the defined types.
func (t Type) Valid() bool {
	return t < typeReserved
}

// ParseType returns the Type named by s, as rendered by Type.String.
func ParseType(s string) (Type, bool) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), true
		}
	}
	return 0, false
}

// TypesOf projects values to their types, in order.
func TypesOf(values []Value) []Type {
	out := make([]Type, len(values))
	for i, v := range values {
		out[i] = v.Type()
	}
	return out
}

// EqualTypes reports whether two signatures match position by position.
func EqualTypes(a, b []Type) bool {
	return slices.Equal(a, b)
}

// FormatTypes renders a signature as "[I32, I32]".
func FormatTypes(ts []Type) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range ts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte(']')
	return b.String()
}
