package types

import (
	"math"
	"strconv"

	"github.com/wippyai/wit-adapter/errors"
)

// Value is a tagged interface value. The zero Value is I32(0).
type Value struct {
	str  string
	bits uint64
	typ  Type
}

func I32(v int32) Value {
	return Value{typ: TypeI32, bits: uint64(uint32(v))}
}

func I64(v int64) Value {
	return Value{typ: TypeI64, bits: uint64(v)}
}

func F32(v float32) Value {
	return Value{typ: TypeF32, bits: uint64(math.Float32bits(v))}
}

func F64(v float64) Value {
	return Value{typ: TypeF64, bits: math.Float64bits(v)}
}

func String(v string) Value {
	return Value{typ: TypeString, str: v}
}

// Type returns the tag of v.
func (v Value) Type() Type {
	return v.typ
}

func (v Value) AsI32() (int32, error) {
	if v.typ != TypeI32 {
		return 0, v.conversionError(TypeI32)
	}
	return int32(uint32(v.bits)), nil
}

func (v Value) AsI64() (int64, error) {
	if v.typ != TypeI64 {
		return 0, v.conversionError(TypeI64)
	}
	return int64(v.bits), nil
}

func (v Value) AsF32() (float32, error) {
	if v.typ != TypeF32 {
		return 0, v.conversionError(TypeF32)
	}
	return math.Float32frombits(uint32(v.bits)), nil
}

func (v Value) AsF64() (float64, error) {
	if v.typ != TypeF64 {
		return 0, v.conversionError(TypeF64)
	}
	return math.Float64frombits(v.bits), nil
}

func (v Value) AsString() (string, error) {
	if v.typ != TypeString {
		return "", v.conversionError(TypeString)
	}
	return v.str, nil
}

func (v Value) conversionError(expected Type) *errors.Error {
	return errors.Conversion(expected.String(), v.String())
}

// Equal reports whether v and o have the same tag and payload.
// Floats compare by value: NaN is not equal to itself and -0 equals +0.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeF32:
		return math.Float32frombits(uint32(v.bits)) == math.Float32frombits(uint32(o.bits))
	case TypeF64:
		return math.Float64frombits(v.bits) == math.Float64frombits(o.bits)
	case TypeString:
		return v.str == o.str
	default:
		return v.bits == o.bits
	}
}

// String renders v as "I32(42)" or "String(\"hi\")".
func (v Value) String() string {
	return v.typ.String() + "(" + v.payload() + ")"
}

func (v Value) payload() string {
	switch v.typ {
	case TypeI32:
		return strconv.FormatInt(int64(int32(uint32(v.bits))), 10)
	case TypeI64:
		return strconv.FormatInt(int64(v.bits), 10)
	case TypeF32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(v.bits))), 'g', -1, 32)
	case TypeF64:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case TypeString:
		return strconv.Quote(v.str)
	default:
		return "?"
	}
}

// Text renders the payload alone, the inverse of ParseValue.
func (v Value) Text() string {
	if v.typ == TypeString {
		return v.str
	}
	return v.payload()
}

// EqualValues reports whether two value sequences are equal element-wise.
func EqualValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// ParseValue converts text to a value of type t. Integers are decimal and
// signed; ParseWIT accepts the unsigned WIT ranges.
func ParseValue(t Type, s string) (Value, error) {
	switch t {
	case TypeI32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Value{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse I32 "+strconv.Quote(s))
		}
		return I32(int32(n)), nil
	case TypeI64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse I64 "+strconv.Quote(s))
		}
		return I64(n), nil
	case TypeF32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Value{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse F32 "+strconv.Quote(s))
		}
		return F32(float32(f)), nil
	case TypeF64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse F64 "+strconv.Quote(s))
		}
		return F64(f), nil
	case TypeString:
		return String(s), nil
	default:
		return Value{}, errors.Unsupported(errors.PhaseParse, "value of type "+t.String())
	}
}
